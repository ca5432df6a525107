package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrVertexNotFound  = errors.New("vertex not found")
	ErrEdgeNotFound    = errors.New("edge not found")
	ErrAsymmetricGraph = errors.New("graph has arcs without a reverse arc")
	ErrInvalidWeight   = errors.New("edge weight must be at least 1")
	ErrInvalidLength   = errors.New("edge length must not be negative")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op     string   // Operation that failed (e.g., "SetEdgeWeight", "ValidateSymmetric")
	Vertex VertexID // Vertex involved, if any
	Edge   *EdgeKey // Arc involved, if any
	Count  int      // Number of offending elements, if any
	Cause  error    // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	switch {
	case e.Edge != nil && e.Count > 0:
		return fmt.Sprintf("%s arc (%d, %d) and %d more: %v", e.Op, e.Edge.From, e.Edge.To, e.Count-1, e.Cause)
	case e.Edge != nil:
		return fmt.Sprintf("%s arc (%d, %d): %v", e.Op, e.Edge.From, e.Edge.To, e.Cause)
	case e.Count > 0:
		return fmt.Sprintf("%s (%d offending): %v", e.Op, e.Count, e.Cause)
	default:
		return fmt.Sprintf("%s vertex %d: %v", e.Op, e.Vertex, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// VertexNotFoundError creates a vertex not found error.
func VertexNotFoundError(op string, id VertexID) error {
	return &GraphError{Op: op, Vertex: id, Cause: ErrVertexNotFound}
}

// EdgeNotFoundError creates an edge not found error.
func EdgeNotFoundError(op string, from, to VertexID) error {
	return &GraphError{Op: op, Edge: &EdgeKey{From: from, To: to}, Cause: ErrEdgeNotFound}
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrVertexNotFound) || errors.Is(err, ErrEdgeNotFound)
}
