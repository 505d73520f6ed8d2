package domain

import (
	"fmt"
	"strings"
)

// The four failure classes of document validation and CPT generation. All are
// raised eagerly at the earliest point the violation is detectable and are
// deterministic for a fixed input; there is no retry or partial-success mode.

// ReferenceError reports an id that does not resolve to any claim or link.
type ReferenceError struct {
	ID      string // the dangling id
	Context string // the node whose field referenced it
	Field   string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s of %q references unknown id %q", e.Field, e.Context, e.ID)
}

// SchemaError reports a structurally malformed node: a missing required field
// for its variant, or a duplicate id across the shared claim/link namespace.
type SchemaError struct {
	ID     string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("node %q: %s", e.ID, e.Reason)
}

// CycleError reports that the combined dependency graph has a cycle. Path is
// the ordered list of ids forming the loop, starting at the revisited node;
// the closing repeat of the first id is omitted.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Path, " -> "))
}

// ValidationError reports an out-of-range numeric field, a negative traversal
// depth, a malformed or incomplete CPT override, or a Conclusion used as a
// link source.
type ValidationError struct {
	ID     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("node %q, %s: %s", e.ID, e.Field, e.Reason)
}
