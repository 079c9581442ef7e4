package flows

import "errors"

var (
	// ErrNodeNotFound is returned when the requested source or sink service
	// is not a node of the analyzed graph.
	ErrNodeNotFound = errors.New("node not found in graph")

	// ErrSourceSinkEqual is returned when source and sink name the same node.
	ErrSourceSinkEqual = errors.New("source and sink must differ")

	// ErrNoConvergence guards the augmentation loop. It should never fire
	// for finite non-negative capacities, but a wrong answer must surface as
	// an error rather than silently.
	ErrNoConvergence = errors.New("max-flow failed to converge")
)
