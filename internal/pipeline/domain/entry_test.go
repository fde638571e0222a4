package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	created = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	later   = created.Add(48 * time.Hour)
)

func TestNewEntryStartsAsNewLead(t *testing.T) {
	e := NewEntry(uuid.New(), "", created)
	if e.Stage != StageNewLead {
		t.Fatalf("expected new_lead, got %s", e.Stage)
	}
	if !e.StageEnteredAt.Equal(created) || e.LastStageChange != nil || e.PreviousStage != nil {
		t.Fatalf("unexpected initial bookkeeping %+v", e)
	}

	initial := e.InitialChange()
	if initial.FromStage != nil || initial.ToStage != StageNewLead || initial.PipelineID != e.ID {
		t.Fatalf("unexpected initial history row %+v", initial)
	}
}

func TestTransitionRecordsBookkeeping(t *testing.T) {
	e := NewEntry(uuid.New(), "", created)

	change := e.TransitionTo(StageQualified, later)
	if change == nil {
		t.Fatal("expected a stage change")
	}
	if e.Stage != StageQualified {
		t.Fatalf("expected qualified, got %s", e.Stage)
	}
	if e.PreviousStage == nil || *e.PreviousStage != string(StageNewLead) {
		t.Fatalf("expected previous stage new_lead, got %v", e.PreviousStage)
	}
	if !e.StageEnteredAt.Equal(later) || e.LastStageChange == nil || !e.LastStageChange.Equal(later) {
		t.Fatal("expected transition timestamps to be reset")
	}
	if change.FromStage == nil || *change.FromStage != string(StageNewLead) || change.ToStage != StageQualified {
		t.Fatalf("unexpected history row %+v", change)
	}
}

func TestTransitionToSameStageIsNoOp(t *testing.T) {
	e := NewEntry(uuid.New(), StageContacted, created)
	before := e

	if change := e.TransitionTo(StageContacted, later); change != nil {
		t.Fatalf("expected no change, got %+v", change)
	}
	if e.PreviousStage != nil || !e.StageEnteredAt.Equal(before.StageEnteredAt) || e.LastStageChange != nil {
		t.Fatal("expected bookkeeping to be untouched")
	}
}

func TestTransitionGraphIsUnconstrained(t *testing.T) {
	for _, from := range Stages() {
		for _, to := range Stages() {
			e := NewEntry(uuid.New(), from, created)
			change := e.TransitionTo(to, later)
			if (from == to) != (change == nil) {
				t.Fatalf("%s -> %s: unexpected change result %v", from, to, change)
			}
			if e.Stage != to {
				t.Fatalf("%s -> %s: ended in %s", from, to, e.Stage)
			}
		}
	}
}

func TestApplyRejectsLostDetailsOutsideClosedLost(t *testing.T) {
	e := NewEntry(uuid.New(), "", created)
	reason := "went with another agency"

	_, err := e.Apply(Patch{LostReason: &reason}, later)
	if !errors.Is(err, ErrLostDetailsOutsideLost) {
		t.Fatalf("expected ErrLostDetailsOutsideLost, got %v", err)
	}
	if e.LostReason != nil {
		t.Fatal("expected entry to be unchanged after rejection")
	}

	lost := StageClosedLost
	change, err := e.Apply(Patch{Stage: &lost, LostReason: &reason}, later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change == nil || e.LostReason == nil || *e.LostReason != reason {
		t.Fatalf("expected closed_lost with reason, got %+v", e)
	}
}

func TestLeavingClosedLostClearsLostDetails(t *testing.T) {
	e := NewEntry(uuid.New(), "", created)
	reason, competitor := "price", "Acme Realty"
	lost := StageClosedLost
	if _, err := e.Apply(Patch{Stage: &lost, LostReason: &reason, LostToCompetitor: &competitor}, later); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reopened := StageOnHold
	if _, err := e.Apply(Patch{Stage: &reopened}, later.Add(time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.LostReason != nil || e.LostToCompetitor != nil {
		t.Fatal("expected lost details to be cleared")
	}
}

func TestParseStage(t *testing.T) {
	if s, ok := ParseStage("closed_won"); !ok || s != StageClosedWon || !s.IsTerminal() {
		t.Fatalf("unexpected parse result %q %v", s, ok)
	}
	if _, ok := ParseStage("CLOSED_WON"); ok {
		t.Fatal("expected stage names to be case sensitive")
	}
	if StageOnHold.IsTerminal() {
		t.Fatal("on_hold is not terminal")
	}
	if len(Stages()) != 10 {
		t.Fatalf("expected 10 stages, got %d", len(Stages()))
	}
}
