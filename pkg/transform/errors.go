package transform

import (
	"errors"
	"fmt"

	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// ErrInvariant is returned when a processor produces a style or marker that
// breaks the accumulator's invariants. It indicates a processor bug; the
// transform cannot recover from it.
var ErrInvariant = errors.New("processor invariant violated")

func rangeViolation(what string, n *mdast.Node, start, end int) error {
	return fmt.Errorf("%w: %s [%d:%d] outside %s [%d:%d]",
		ErrInvariant, what, start, end, n.Kind, n.StartOffset, n.EndOffset)
}

func checkRange(what string, n *mdast.Node, start, end int) error {
	if start < n.StartOffset || end > n.EndOffset || start > end {
		return rangeViolation(what, n, start, end)
	}
	return nil
}
