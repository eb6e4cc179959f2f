package services

import "fmt"

// Error taxonomy for a suggestion run. All three types abort the run with
// a user-facing message and no partial roadmaps; a roadmap left without a
// driver is represented in the output data instead of an error.

// InputError reports unusable input: no appointments for the date, or no
// vehicle with enough capacity for an appointment or cluster.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("suggestion input: %s", e.Reason)
}

// SolverInfeasibleError reports that the route solver found no feasible
// assignment for a cluster.
type SolverInfeasibleError struct {
	ClusterSize int
}

func (e *SolverInfeasibleError) Error() string {
	return fmt.Sprintf("suggestion solver: unable to route cluster of %d appointments", e.ClusterSize)
}

// OracleError wraps a travel-time lookup failure (network or API error,
// possibly transient).
type OracleError struct {
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("travel-time oracle: %v", e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }
