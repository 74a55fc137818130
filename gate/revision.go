package gate

import "time"

const (
	RevisionActionAdd     = "ADD"
	RevisionActionAmend   = "AMEND"
	RevisionActionPause   = "PAUSE"
	RevisionActionUnpause = "UNPAUSE"

	// written at boot when issued tokens run ahead of a collection's Minted
	RevisionActionReconcile = "RECONCILE"
)

// Revision is an administrative change. Index and Collection are the
// affected collection for ADD, AMEND and RECONCILE, zero for the pause toggles.
type Revision struct {
	Action     string     `json:"action"`
	Index      uint64     `json:"index"`
	Collection Collection `json:"collection"`
	Sender     string     `json:"sender"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (rev *Revision) ChangesCollection() bool {
	switch rev.Action {
	case RevisionActionAdd, RevisionActionAmend, RevisionActionReconcile:
		return true
	}
	return false
}
