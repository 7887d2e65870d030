package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdlive/internal/configloader"
	"github.com/yaklabco/gomdlive/internal/logging"
	"github.com/yaklabco/gomdlive/internal/ui/pretty"
	"github.com/yaklabco/gomdlive/pkg/config"
	"github.com/yaklabco/gomdlive/pkg/fsutil"
	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/transform"
)

// ErrInvalidPosition indicates a --cursor or --selection value that does
// not parse or lies outside the note.
var ErrInvalidPosition = errors.New("invalid position")

// session is the state shared by the note commands: the resolved
// configuration, the terminal styles and a transformer.
type session struct {
	cfg          *config.Config
	logger       *log.Logger
	styles       *pretty.Styles
	colorEnabled bool
	transformer  *transform.Transformer
	out          io.Writer
	errOut       io.Writer

	// vaultRoot is the vault enclosing the working directory, or "".
	vaultRoot string
}

// newSession loads the configuration for cmd, applying the global flags
// as overrides.
func newSession(cmd *cobra.Command, flags *globalFlags) (*session, error) {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	overrides, err := flagOverrides(cmd, flags)
	if err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: flags.configPath,
		Overrides:    overrides,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	cfg := loadResult.Config
	logging.SetLevel(cfg.LogLevel)

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	out := cmd.OutOrStdout()
	colorEnabled := pretty.IsColorEnabled(cfg.Color, out)

	return &session{
		cfg:          cfg,
		logger:       logger,
		styles:       pretty.NewStyles(colorEnabled),
		colorEnabled: colorEnabled,
		transformer:  transform.New(transform.WithConfig(cfg), transform.WithLogger(logger)),
		out:          out,
		errOut:       cmd.ErrOrStderr(),
		vaultRoot:    loadResult.Paths.Vault,
	}, nil
}

// flagOverrides turns the global flags that were set on the command line
// into configuration overrides.
func flagOverrides(cmd *cobra.Command, flags *globalFlags) ([]func(*config.Config), error) {
	var overrides []func(*config.Config)

	switch {
	case flags.debug:
		overrides = append(overrides, func(c *config.Config) { c.LogLevel = config.LogLevelDebug })
	case flags.logLevel != "":
		level := flags.logLevel
		overrides = append(overrides, func(c *config.Config) { c.LogLevel = level })
	}

	if cmd.Flags().Changed("color") {
		color := flags.color
		overrides = append(overrides, func(c *config.Config) { c.Color = color })
	}

	features := config.DialectFeatures()
	for _, group := range []struct {
		names []string
		on    bool
	}{
		{flags.enable, true},
		{flags.disable, false},
	} {
		for _, name := range group.names {
			name = strings.TrimSpace(name)
			if !slices.Contains(features, name) {
				return nil, fmt.Errorf("%w: unknown dialect feature %q (known: %s)",
					ErrUsage, name, strings.Join(features, ", "))
			}
			on := group.on
			overrides = append(overrides, func(c *config.Config) {
				_ = c.Dialect.Set(name, on)
			})
		}
	}

	return overrides, nil
}

// readNote reads the note at path, or stdin for "-".
func (s *session) readNote(cmd *cobra.Command, path string) (*fsutil.Note, error) {
	note, err := fsutil.ReadNote(commandContext(cmd), path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	s.logger.Debug("read note", logging.FieldPath, note.Path, logging.FieldBytes, note.Size)
	return note, nil
}

// reportFrontmatter prints a diagnostic when the frontmatter of doc does
// not decode. The note is still previewed.
func (s *session) reportFrontmatter(path string, doc *mdast.Document) {
	if doc == nil || doc.FrontmatterErr == nil {
		return
	}

	line := 1
	if fm := mdast.FirstOfKind(doc.Root, mdast.NodeFrontmatter); fm != nil {
		line, _ = doc.LineAt(fm.StartOffset)
	}

	fmt.Fprint(s.errOut, s.styles.FormatDiagnostic(pretty.Diagnostic{
		Path:     displayPath(path),
		Line:     line,
		Column:   1,
		Severity: pretty.SeverityWarning,
		Message:  "frontmatter: " + doc.FrontmatterErr.Error(),
	}, doc.LineContent(line)))
}

// positionFlags holds the --cursor and --selection flags.
type positionFlags struct {
	cursor    string
	selection string
}

func (p *positionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.cursor, "cursor", "",
		"caret position as a byte offset (42) or line:column (3:7); default end of note")
	cmd.Flags().StringVar(&p.selection, "selection", "",
		"selection as start:end byte offsets; overrides --cursor")
}

// resolve returns the selection the flags describe for doc. Without flags
// the configured caret is used, or the end of the note.
func (p *positionFlags) resolve(doc *mdast.Document, configured int) (mdast.Selection, error) {
	size := len(doc.Content)

	if p.selection != "" {
		from, to, ok := strings.Cut(p.selection, ":")
		start, errStart := strconv.Atoi(from)
		end, errEnd := strconv.Atoi(to)
		if !ok || errStart != nil || errEnd != nil {
			return mdast.Selection{}, fmt.Errorf("%w: selection %q is not start:end", ErrInvalidPosition, p.selection)
		}
		if start < 0 || end < 0 || start > size || end > size {
			return mdast.Selection{}, fmt.Errorf("%w: selection %q outside 0..%d", ErrInvalidPosition, p.selection, size)
		}
		return mdast.Selection{Start: start, End: end}, nil
	}

	if p.cursor != "" {
		offset, err := parseCursor(doc, p.cursor)
		if err != nil {
			return mdast.Selection{}, err
		}
		return mdast.Caret(offset), nil
	}

	if configured >= 0 {
		return mdast.Caret(min(configured, size)), nil
	}
	return mdast.Caret(size), nil
}

// parseCursor parses a byte offset or a 1-based line:column pair.
func parseCursor(doc *mdast.Document, value string) (int, error) {
	if lineText, colText, ok := strings.Cut(value, ":"); ok {
		line, errLine := strconv.Atoi(lineText)
		col, errCol := strconv.Atoi(colText)
		if errLine != nil || errCol != nil {
			return 0, fmt.Errorf("%w: cursor %q is not line:column", ErrInvalidPosition, value)
		}
		offset, found := doc.Offset(line, col)
		if !found {
			return 0, fmt.Errorf("%w: cursor %q outside the note", ErrInvalidPosition, value)
		}
		return offset, nil
	}

	offset, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: cursor %q is not an offset", ErrInvalidPosition, value)
	}
	if offset < 0 || offset > len(doc.Content) {
		return 0, fmt.Errorf("%w: cursor %d outside 0..%d", ErrInvalidPosition, offset, len(doc.Content))
	}
	return offset, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func displayPath(path string) string {
	if path == fsutil.StdinPath {
		return "<stdin>"
	}
	return path
}
