package engine

// Phase is the lifecycle stage of one aggregation pass.
// A pass only moves forward; any failure ends it in PhaseFailed.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseMerging
	PhaseInverting
	PhaseResolving
	PhasePruning
	PhaseReported
	PhaseFailed
)

var phaseNames = [...]string{
	PhaseEmpty:     "empty",
	PhaseMerging:   "merging",
	PhaseInverting: "inverting",
	PhaseResolving: "resolving",
	PhasePruning:   "pruning",
	PhaseReported:  "reported",
	PhaseFailed:    "failed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalText renders the phase name in JSON output.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
