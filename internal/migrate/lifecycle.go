package migrate

import (
	"tradevault/internal/domain"
)

// State is the lifecycle state of one migration in the ledger.
type State string

const (
	StateDrafted        State = "drafted"
	StateAppliedLocally State = "applied_locally"
	StateVerified       State = "verified"
	StateCommitted      State = "committed"
	StateRolledBack     State = "rolled_back"
)

// transitions is the allowed lifecycle graph. rolled_back → applied_locally
// covers re-application after an explicit rollback.
var transitions = map[State][]State{
	StateDrafted:        {StateAppliedLocally},
	StateAppliedLocally: {StateVerified, StateRolledBack},
	StateVerified:       {StateCommitted, StateRolledBack},
	StateCommitted:      {StateRolledBack},
	StateRolledBack:     {StateAppliedLocally},
}

// rank orders the forward path so repeated Apply/Verify runs are no-ops on
// migrations that already progressed further.
var rank = map[State]int{
	StateDrafted:        0,
	StateAppliedLocally: 1,
	StateVerified:       2,
	StateCommitted:      3,
}

func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates and performs a lifecycle step.
func (s State) Transition(to State) (State, error) {
	if !s.CanTransition(to) {
		return s, &domain.MigrationError{
			Detail: "invalid lifecycle transition " + string(s) + " -> " + string(to),
		}
	}
	return to, nil
}

// passed reports whether s already reached or moved beyond the forward
// state to.
func (s State) passed(to State) bool {
	if s == StateRolledBack || to == StateRolledBack {
		return false
	}
	return rank[s] >= rank[to]
}
