package graph

import "fmt"

// ValidationError reports a malformed node or link record. Index is the
// position of the record in its input list.
type ValidationError struct {
	Kind   string // "node" or "link"
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s #%d: %s %s", e.Kind, e.Index, e.Field, e.Reason)
}
