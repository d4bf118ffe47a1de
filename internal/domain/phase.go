package domain

// PhaseState is the derived display state of one pipeline phase.
type PhaseState int

const (
	PhasePending PhaseState = iota
	PhaseActive
	PhaseCompleted
)

func (s PhaseState) String() string {
	switch s {
	case PhaseActive:
		return "active"
	case PhaseCompleted:
		return "completed"
	default:
		return "pending"
	}
}

// Phase indices in fixed pipeline order.
const (
	PhaseAnalysis = iota
	PhaseCreation
	PhaseReflection
	phaseCount
)

// PhaseNames maps phase indices to display names, in pipeline order.
var PhaseNames = [phaseCount]string{"analysis", "creation", "reflection"}

// PhaseSet holds the state of all three pipeline phases. It is derived
// state, recomputed from scratch on every flush; at most one phase is
// active at a time.
type PhaseSet [phaseCount]PhaseState

// CompletedCount returns how many phases are completed.
func (p PhaseSet) CompletedCount() int {
	n := 0
	for _, s := range p {
		if s == PhaseCompleted {
			n++
		}
	}
	return n
}

// Active returns the index of the active phase, or -1 if none is active.
func (p PhaseSet) Active() int {
	for i, s := range p {
		if s == PhaseActive {
			return i
		}
	}
	return -1
}

// AllCompleted reports whether every phase is completed.
func (p PhaseSet) AllCompleted() bool {
	return p.CompletedCount() == phaseCount
}

// AllPending reports whether every phase is pending.
func (p PhaseSet) AllPending() bool {
	for _, s := range p {
		if s != PhasePending {
			return false
		}
	}
	return true
}
