package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// TodoItem je stavka checkliste, ugnježdena u task (nema sopstveni lifecycle).
type TodoItem struct {
	Text      string `json:"text" bson:"text"`
	Completed bool   `json:"completed" bson:"completed"`
}

type Task struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title         string               `json:"title" bson:"title"`
	Description   string               `json:"description" bson:"description"`
	Priority      TaskPriority         `json:"priority" bson:"priority"`
	Status        TaskStatus           `json:"status" bson:"status"`
	DueDate       time.Time            `json:"dueDate" bson:"dueDate"`
	AssignedTo    []primitive.ObjectID `json:"assignedTo" bson:"assignedTo"`
	CreatedBy     primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	Attachments   []string             `json:"attachments" bson:"attachments"`
	TodoChecklist []TodoItem           `json:"todoChecklist" bson:"todoChecklist"`
	Progress      int                  `json:"progress" bson:"progress"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

func ValidStatus(s TaskStatus) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

func ValidPriority(p TaskPriority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ApplyChecklist zamenjuje celu checklistu (nema merge) i preračunava
// progress i status iz novog stanja stavki.
func (t *Task) ApplyChecklist(items []TodoItem) {
	t.TodoChecklist = items
	t.Progress = ChecklistProgress(items)

	switch {
	case t.Progress == 100:
		t.Status = StatusCompleted
	case t.Progress > 0:
		t.Status = StatusInProgress
	default:
		t.Status = StatusPending
	}
}

// ApplyStatus postavlja status direktno. Prelazak na "completed" povlači
// sve stavke checkliste i progress na 100; pending/in_progress ne diraju
// ni checklistu ni progress.
func (t *Task) ApplyStatus(status TaskStatus) {
	t.Status = status
	if status == StatusCompleted {
		for i := range t.TodoChecklist {
			t.TodoChecklist[i].Completed = true
		}
		t.Progress = 100
	}
}

// ChecklistProgress računa procenat završenih stavki, 0 za praznu listu.
func ChecklistProgress(items []TodoItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(items)) * 100))
}

// CompletedTodoCount vraća broj završenih stavki, kao read-time projekcija.
func (t *Task) CompletedTodoCount() int {
	count := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			count++
		}
	}
	return count
}

func (t *Task) IsAssignee(userID primitive.ObjectID) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// CanBeUpdatedBy proverava pravo na izmenu statusa/checkliste:
// dozvoljeno je assignee-ima i adminima.
func (t *Task) CanBeUpdatedBy(userID primitive.ObjectID, role string) bool {
	return role == RoleAdmin || t.IsAssignee(userID)
}
