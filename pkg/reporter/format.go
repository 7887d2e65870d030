package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format selects how a transform result is printed.
type Format string

// Output formats, in the order they are listed to users.
const (
	FormatText    Format = "text"
	FormatPlain   Format = "plain"
	FormatJSON    Format = "json"
	FormatTable   Format = "table"
	FormatDiff    Format = "diff"
	FormatSummary Format = "summary"
)

//nolint:gochecknoglobals // Read-only lookup table.
var formats = []Format{FormatText, FormatPlain, FormatJSON, FormatTable, FormatDiff, FormatSummary}

// Formats returns the format names as a comma separated list.
func Formats() string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// ParseFormat parses a format name. Matching ignores case and the empty
// name means text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	f := Format(strings.ToLower(name))
	if !f.IsValid() {
		return "", fmt.Errorf("unknown format %q; valid formats: %s", name, Formats())
	}
	return f, nil
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	return slices.Contains(formats, f)
}
