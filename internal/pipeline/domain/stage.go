// Package domain holds the customer sales pipeline state machine.
package domain

// Stage is a customer's position in the sales funnel.
type Stage string

const (
	StageNewLead           Stage = "new_lead"
	StageContacted         Stage = "contacted"
	StageQualified         Stage = "qualified"
	StageViewingProperties Stage = "viewing_properties"
	StageMakingOffers      Stage = "making_offers"
	StageUnderContract     Stage = "under_contract"
	StageClosing           Stage = "closing"
	StageClosedWon         Stage = "closed_won"
	StageClosedLost        Stage = "closed_lost"
	StageOnHold            Stage = "on_hold"
)

// stages lists every stage in suggested forward order. The order is
// informational only: any stage may follow any other.
var stages = []Stage{
	StageNewLead,
	StageContacted,
	StageQualified,
	StageViewingProperties,
	StageMakingOffers,
	StageUnderContract,
	StageClosing,
	StageClosedWon,
	StageClosedLost,
	StageOnHold,
}

// Stages returns all stages in suggested forward order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// ParseStage reports whether s names a stage.
func ParseStage(s string) (Stage, bool) {
	for _, stage := range stages {
		if string(stage) == s {
			return stage, true
		}
	}
	return "", false
}

// IsKnownStage reports whether s names a stage.
func IsKnownStage(s string) bool {
	_, ok := ParseStage(s)
	return ok
}

// IsTerminal reports whether the stage closes the deal, won or lost.
func (s Stage) IsTerminal() bool {
	return s == StageClosedWon || s == StageClosedLost
}

func (s Stage) String() string { return string(s) }
