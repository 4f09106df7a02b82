package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func checklist(completed ...bool) []TodoItem {
	items := make([]TodoItem, 0, len(completed))
	for i, c := range completed {
		items = append(items, TodoItem{Text: string(rune('a' + i)), Completed: c})
	}
	return items
}

func TestApplyChecklist_ProgressAndStatus(t *testing.T) {
	cases := []struct {
		name         string
		items        []TodoItem
		wantProgress int
		wantStatus   TaskStatus
	}{
		{"empty checklist", checklist(), 0, StatusPending},
		{"none completed", checklist(false, false, false), 0, StatusPending},
		{"half completed", checklist(true, false), 50, StatusInProgress},
		{"one of three", checklist(true, false, false), 33, StatusInProgress},
		{"two of three", checklist(true, true, false), 67, StatusInProgress},
		{"one of eight rounds up", checklist(true, false, false, false, false, false, false, false), 13, StatusInProgress},
		{"all completed", checklist(true, true), 100, StatusCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := Task{Status: StatusCompleted, Progress: 100}
			task.ApplyChecklist(tc.items)

			if task.Progress != tc.wantProgress {
				t.Errorf("progress = %d, want %d", task.Progress, tc.wantProgress)
			}
			if task.Status != tc.wantStatus {
				t.Errorf("status = %s, want %s", task.Status, tc.wantStatus)
			}
		})
	}
}

func TestApplyStatus_CompletedForcesChecklist(t *testing.T) {
	task := Task{
		Status:        StatusInProgress,
		Progress:      50,
		TodoChecklist: checklist(true, false),
	}

	task.ApplyStatus(StatusCompleted)

	if task.Progress != 100 {
		t.Errorf("progress = %d, want 100", task.Progress)
	}
	for i, item := range task.TodoChecklist {
		if !item.Completed {
			t.Errorf("item %d not marked completed", i)
		}
	}
}

func TestApplyStatus_PendingDoesNotTouchChecklist(t *testing.T) {
	task := Task{
		Status:        StatusCompleted,
		Progress:      100,
		TodoChecklist: checklist(true, true),
	}

	task.ApplyStatus(StatusPending)

	if task.Status != StatusPending {
		t.Errorf("status = %s, want pending", task.Status)
	}
	if task.Progress != 100 {
		t.Errorf("progress = %d, want 100 (untouched)", task.Progress)
	}
	for i, item := range task.TodoChecklist {
		if !item.Completed {
			t.Errorf("item %d changed, want untouched", i)
		}
	}
}

// Checklist i status putanje su nezavisne: checklist izvodi status, ali
// direktno postavljanje statusa ne preračunava checklist.
func TestChecklistAndStatusPathsAreIndependent(t *testing.T) {
	task := Task{}

	task.ApplyChecklist(checklist(false, true))
	if task.Progress != 50 || task.Status != StatusInProgress {
		t.Fatalf("after first checklist: progress=%d status=%s, want 50/in_progress", task.Progress, task.Status)
	}

	task.ApplyChecklist(checklist(true, true))
	if task.Progress != 100 || task.Status != StatusCompleted {
		t.Fatalf("after completing checklist: progress=%d status=%s, want 100/completed", task.Progress, task.Status)
	}

	task.ApplyStatus(StatusPending)
	if task.Status != StatusPending {
		t.Errorf("status = %s, want pending", task.Status)
	}
	if task.Progress != 100 {
		t.Errorf("progress = %d, want 100 (status path must not recompute)", task.Progress)
	}
	for i, item := range task.TodoChecklist {
		if !item.Completed {
			t.Errorf("item %d reset, want still completed", i)
		}
	}
}

func TestCompletedTodoCount(t *testing.T) {
	task := Task{TodoChecklist: checklist(true, false, true)}
	if got := task.CompletedTodoCount(); got != 2 {
		t.Errorf("CompletedTodoCount = %d, want 2", got)
	}
}

func TestCanBeUpdatedBy(t *testing.T) {
	assignee := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	task := Task{AssignedTo: []primitive.ObjectID{assignee}}

	if !task.CanBeUpdatedBy(assignee, RoleMember) {
		t.Error("assignee member should be allowed")
	}
	if !task.CanBeUpdatedBy(stranger, RoleAdmin) {
		t.Error("admin should always be allowed")
	}
	if task.CanBeUpdatedBy(stranger, RoleMember) {
		t.Error("non-assignee member should be forbidden")
	}
}

func TestTaskUpdate_OmittedFieldsStayUnchanged(t *testing.T) {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	task := Task{
		Title:       "original title",
		Description: "original description",
		Priority:    PriorityHigh,
		DueDate:     due,
		Attachments: []string{"a.pdf"},
	}

	update := TaskUpdate{Description: ptr("new description")}
	update.ApplyTo(&task)

	if task.Title != "original title" {
		t.Errorf("title = %q, want unchanged", task.Title)
	}
	if task.Description != "new description" {
		t.Errorf("description = %q, want updated", task.Description)
	}
	if task.Priority != PriorityHigh || !task.DueDate.Equal(due) || len(task.Attachments) != 1 {
		t.Error("omitted fields must stay unchanged")
	}
}

// Eksplicitno poslata prazna vrednost prepisuje postojeću; samo nil
// znači "izostavljeno".
func TestTaskUpdate_ExplicitEmptyOverwrites(t *testing.T) {
	task := Task{Title: "keep", Attachments: []string{"a.pdf"}}

	empty := []string{}
	update := TaskUpdate{Attachments: &empty}
	update.ApplyTo(&task)

	if len(task.Attachments) != 0 {
		t.Errorf("attachments = %v, want emptied", task.Attachments)
	}
	if task.Title != "keep" {
		t.Errorf("title = %q, want unchanged", task.Title)
	}
}

func ptr(s string) *string { return &s }
