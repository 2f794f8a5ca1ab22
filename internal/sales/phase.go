package sales

// Phase is where a checkout stands inside the committer.
type Phase string

const (
	PhaseIdle        Phase = "IDLE"
	PhaseValidating  Phase = "VALIDATING"
	PhasePersisting  Phase = "PERSISTING"
	PhaseSideEffects Phase = "SIDE_EFFECTS"
	PhaseSettled     Phase = "SETTLED"
	PhaseFailed      Phase = "FAILED"
)

var validNext = map[Phase]map[Phase]bool{
	PhaseIdle:        {PhaseValidating: true},
	PhaseValidating:  {PhasePersisting: true, PhaseFailed: true},
	PhasePersisting:  {PhaseSideEffects: true, PhaseSettled: true, PhaseFailed: true},
	PhaseSideEffects: {PhaseSettled: true, PhaseFailed: true},
	PhaseSettled:     {},
	PhaseFailed:      {},
}

func CanTransition(from, to Phase) bool {
	return validNext[from][to]
}
