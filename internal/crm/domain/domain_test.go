package domain

import (
	"testing"
	"time"
)

func TestTaskSetStatusStampsCompletionOnce(t *testing.T) {
	first := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	task := Task{Status: TaskPending}
	task.SetStatus(TaskCompleted, first)
	if task.CompletedAt == nil || !task.CompletedAt.Equal(first) {
		t.Fatalf("expected completion at %v, got %v", first, task.CompletedAt)
	}

	task.SetStatus(TaskCompleted, second)
	if !task.CompletedAt.Equal(first) {
		t.Fatalf("expected completion time to stay %v, got %v", first, task.CompletedAt)
	}

	task.Complete(second)
	if !task.CompletedAt.Equal(second) {
		t.Fatalf("expected explicit complete to restamp, got %v", task.CompletedAt)
	}
}

func TestTaskSetStatusLeavesCompletionForOtherStatuses(t *testing.T) {
	task := Task{Status: TaskPending}
	task.SetStatus(TaskInProgress, time.Now())
	if task.CompletedAt != nil {
		t.Fatal("expected no completion time for in_progress")
	}
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{name: "pending past due", task: Task{Status: TaskPending, DueDate: &past}, want: true},
		{name: "in progress past due", task: Task{Status: TaskInProgress, DueDate: &past}, want: true},
		{name: "completed past due", task: Task{Status: TaskCompleted, DueDate: &past}, want: false},
		{name: "pending not due", task: Task{Status: TaskPending, DueDate: &future}, want: false},
		{name: "no due date", task: Task{Status: TaskPending}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnumChecks(t *testing.T) {
	if !IsKnownTaskPriority("urgent") || IsKnownTaskPriority("critical") {
		t.Fatal("unexpected task priority check")
	}
	if !IsKnownTaskStatus("in_progress") || IsKnownTaskStatus("done") {
		t.Fatal("unexpected task status check")
	}
	if !IsKnownInteractionType("property_tour") || IsKnownInteractionType("fax") {
		t.Fatal("unexpected interaction type check")
	}
	if !IsKnownOutcome("left_voicemail") || IsKnownOutcome("maybe") {
		t.Fatal("unexpected outcome check")
	}
	if PriorityUrgent.Rank() <= PriorityHigh.Rank() || PriorityLow.Rank() >= PriorityMedium.Rank() {
		t.Fatal("expected urgent > high and low < medium")
	}
}

func TestDayStartUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2026, 4, 10, 22, 30, 0, 0, loc)
	want := time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC)
	if got := DayStart(now); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
