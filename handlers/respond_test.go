package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"task-manager/backend/services"
)

func TestWriteError_MapsTaxonomyToStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", services.ErrBadRequest, http.StatusBadRequest},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"not found", services.ErrNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestWriteError_UnknownErrorBecomes500WithDescription(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errForTest("mongo: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["message"] != "Server error!" {
		t.Errorf("message = %q, want %q", body["message"], "Server error!")
	}
	if body["error"] != "mongo: connection refused" {
		t.Errorf("error = %q, want underlying description", body["error"])
	}
}

type errForTest string

func (e errForTest) Error() string { return string(e) }

func TestDecodeBody_NonArrayAssignedTo(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/task",
		strings.NewReader(`{"title":"x","assignedTo":"not-an-array"}`))

	var body createTaskRequest
	if decodeBody(rec, req, &body) {
		t.Fatal("expected decode failure")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp["message"] != "assignedTo must be an array of user Ids!" {
		t.Errorf("message = %q, want assignedTo array message", resp["message"])
	}
}

func TestDecodeBody_ValidPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/task/x/todo",
		strings.NewReader(`{"todoChecklist":[{"text":"a","completed":true}]}`))

	var body struct {
		TodoChecklist []struct {
			Text      string `json:"text"`
			Completed bool   `json:"completed"`
		} `json:"todoChecklist"`
	}
	if !decodeBody(rec, req, &body) {
		t.Fatal("expected decode success")
	}
	if len(body.TodoChecklist) != 1 || !body.TodoChecklist[0].Completed {
		t.Errorf("decoded checklist = %+v", body.TodoChecklist)
	}
}
