package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskUpdate je parcijalni update taska. Pointer polja razlikuju
// "polje nije poslato" (nil) od "polje postavljeno na praznu vrednost",
// tako da klijent može da isprazni npr. attachments listu.
type TaskUpdate struct {
	Title         *string               `json:"title"`
	Description   *string               `json:"description"`
	Priority      *TaskPriority         `json:"priority"`
	DueDate       *time.Time            `json:"dueDate"`
	TodoChecklist *[]TodoItem           `json:"todoChecklist"`
	Attachments   *[]string             `json:"attachments"`
	AssignedTo    *[]primitive.ObjectID `json:"assignedTo"`
}

// ApplyTo prepisuje na task samo polja koja su poslata.
func (u *TaskUpdate) ApplyTo(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.TodoChecklist != nil {
		t.TodoChecklist = *u.TodoChecklist
	}
	if u.Attachments != nil {
		t.Attachments = *u.Attachments
	}
	if u.AssignedTo != nil {
		t.AssignedTo = *u.AssignedTo
	}
}
