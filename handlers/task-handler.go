package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"task-manager/backend/middleware"
	"task-manager/backend/models"
	"task-manager/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	Service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{Service: service}
}

type createTaskRequest struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Priority      models.TaskPriority  `json:"priority"`
	DueDate       time.Time            `json:"dueDate"`
	AssignedTo    []primitive.ObjectID `json:"assignedTo"`
	Attachments   []string             `json:"attachments"`
	TodoChecklist []models.TodoItem    `json:"todoChecklist"`
}

// decodeBody dekodira JSON telo; tip-greška na assignedTo dobija
// specifičnu poruku jer je to najčešća greška klijenata.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "assignedTo" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "assignedTo must be an array of user Ids!"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request data"})
		return false
	}
	return true
}

func taskIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	vars := mux.Vars(r)
	taskID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid task ID format"})
		return primitive.NilObjectID, false
	}
	return taskID, true
}

// GetTasks vraća taskove vidljive ulogovanom korisniku, opciono filtrirane
// po statusu, zajedno sa zbirnim brojevima.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	scope := services.ScopeFor(user.Role, user.ID)

	tasks, summary, err := h.Service.GetTasks(r.Context(), scope, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Tasks fetched successfully!",
		"tasks":         tasks,
		"statusSummary": summary,
	})
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	task, err := h.Service.GetTask(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// CreateTask kreira task; kreator je ulogovani korisnik.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req createTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task := models.Task{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		AssignedTo:    req.AssignedTo,
		Attachments:   req.Attachments,
		TodoChecklist: req.TodoChecklist,
		CreatedBy:     user.ID,
	}

	created, err := h.Service.CreateTask(r.Context(), task)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Task created successfully!",
		"task":    created,
	})
}

// UpdateTask menja samo poslata polja taska.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	var update models.TaskUpdate
	if !decodeBody(w, r, &update) {
		return
	}

	updated, err := h.Service.UpdateTask(r.Context(), taskID, update)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Task updated successfully!",
		"updatedTask": updated,
	})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteTask(r.Context(), taskID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully!"})
}

// UpdateTaskStatus menja status taska; dozvoljeno assignee-ima i adminima.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	task, err := h.Service.UpdateTaskStatus(r.Context(), taskID, req.Status, user.ID, user.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task status updated successfully!",
		"task":    task,
	})
}

// UpdateTaskChecklist zamenjuje checklistu taska u celosti.
func (h *TaskHandler) UpdateTaskChecklist(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		TodoChecklist []models.TodoItem `json:"todoChecklist"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	task, err := h.Service.UpdateTaskChecklist(r.Context(), taskID, req.TodoChecklist, user.ID, user.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task check list updated successfully!",
		"task":    task,
	})
}

// GetDashboardData vraća statistiku za sve taskove (admin ruta).
func (h *TaskHandler) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.GetDashboardData(r.Context(), services.AdminScope())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Dashboard data fetched successfully!",
		"statistics":  data.Statistics,
		"charts":      data.Charts,
		"recentTasks": data.RecentTasks,
	})
}

// GetUserDashboardData vraća statistiku za taskove ulogovanog korisnika.
func (h *TaskHandler) GetUserDashboardData(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	data, err := h.Service.GetDashboardData(r.Context(), services.UserScope(user.ID))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}
