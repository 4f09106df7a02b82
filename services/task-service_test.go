package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validacija assignedTo se dešava pre pristupa bazi, pa prazan servis
// dovoljan: izostavljeno ili null polje mora da padne sa bad request.
func TestCreateTask_RejectsMissingAssignedTo(t *testing.T) {
	svc := &TaskService{}

	task := models.Task{
		Title:   "sastavi izvestaj",
		DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := svc.CreateTask(context.Background(), task)
	if err == nil {
		t.Fatal("expected error for nil assignedTo")
	}
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("error = %v, want bad request", err)
	}
	if err.Error() != "assignedTo must be an array of user Ids!" {
		t.Errorf("message = %q, want the assignedTo array message", err.Error())
	}
}

func TestCreateTask_AcceptsEmptyAssignedTo(t *testing.T) {
	svc := &TaskService{}

	task := models.Task{
		Title:      "bez assignee-a",
		DueDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		AssignedTo: []primitive.ObjectID{},
		Priority:   "not-a-priority",
	}

	// Prazan niz je validan; ovde pada tek na nevalidnom prioritetu,
	// što potvrđuje da je assignedTo provera prošla.
	_, err := svc.CreateTask(context.Background(), task)
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("error = %v, want bad request for priority", err)
	}
	if err.Error() == "assignedTo must be an array of user Ids!" {
		t.Error("empty array must not be rejected as missing assignedTo")
	}
}

func TestPopulateAssignees_PreservesOrder(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	users := map[primitive.ObjectID]AssignedUser{
		second: {ID: second, Name: "Mina", Email: "mina@example.com"},
		first:  {ID: first, Name: "Luka", Email: "luka@example.com"},
	}
	task := models.Task{AssignedTo: []primitive.ObjectID{first, second}}

	assignees := populateAssignees(task, users)
	if len(assignees) != 2 {
		t.Fatalf("len = %d, want 2", len(assignees))
	}
	if assignees[0].ID != first || assignees[1].ID != second {
		t.Error("assignees must follow the assignedTo order")
	}
	if assignees[0].Name != "Luka" || assignees[1].Email != "mina@example.com" {
		t.Error("assignee fields not carried over")
	}
}

// Obrisani korisnik ostavlja viseći ID u assignedTo; takve reference se
// preskaču umesto da u odgovor uđu prazni korisnici.
func TestPopulateAssignees_SkipsDanglingReferences(t *testing.T) {
	known := primitive.NewObjectID()
	deleted := primitive.NewObjectID()

	users := map[primitive.ObjectID]AssignedUser{
		known: {ID: known, Name: "Jana"},
	}
	task := models.Task{AssignedTo: []primitive.ObjectID{deleted, known}}

	assignees := populateAssignees(task, users)
	if len(assignees) != 1 {
		t.Fatalf("len = %d, want 1", len(assignees))
	}
	if assignees[0].ID != known {
		t.Error("remaining assignee must be the existing user")
	}
}

func TestPopulateAssignees_EmptyAssignedTo(t *testing.T) {
	task := models.Task{AssignedTo: []primitive.ObjectID{}}

	assignees := populateAssignees(task, nil)
	if assignees == nil {
		t.Fatal("want empty slice, not nil, so JSON renders [] instead of null")
	}
	if len(assignees) != 0 {
		t.Errorf("len = %d, want 0", len(assignees))
	}
}
