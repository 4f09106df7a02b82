package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task-manager/backend/db"
	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskService struct {
	DB *db.Mongo
}

func NewTaskService(database *db.Mongo) *TaskService {
	return &TaskService{DB: database}
}

func (s *TaskService) tasks() *mongo.Collection {
	return s.DB.Collection("tasks")
}

// AssignedUser je projekcija korisnika kojom se u odgovorima zamenjuju
// goli ID-jevi u assignedTo.
type AssignedUser struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	ProfileImageURL string             `json:"profileImageUrl" bson:"profileImageUrl"`
}

// PopulatedTask je task sa učitanim podacima o assignee korisnicima.
type PopulatedTask struct {
	models.Task
	AssignedTo []AssignedUser `json:"assignedTo"`
}

// TaskWithCount je task obogaćen brojem završenih stavki checkliste.
type TaskWithCount struct {
	PopulatedTask
	CompletedTodoCount int `json:"completedTodoCount"`
}

// StatusSummary su zbirni brojevi taskova po statusu, u istom scope-u kao lista.
type StatusSummary struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

type DashboardStatistics struct {
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}

type DashboardCharts struct {
	TaskDistribution   map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevels map[string]int64 `json:"taskPriorityLevels"`
}

// RecentTask je projekcija taska za dashboard listu najnovijih.
type RecentTask struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id"`
	Title     string              `json:"title" bson:"title"`
	Status    models.TaskStatus   `json:"status" bson:"status"`
	Priority  models.TaskPriority `json:"priority" bson:"priority"`
	DueDate   time.Time           `json:"dueDate" bson:"dueDate"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
}

type DashboardData struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []RecentTask        `json:"recentTasks"`
}

// CreateTask kreira novi task. Progress i status se izvode iz prosleđene
// checkliste, tako da task sa delimično završenom checklistom odmah dobija
// odgovarajući procenat.
func (s *TaskService) CreateTask(ctx context.Context, task models.Task) (*models.Task, error) {
	if task.Title == "" {
		return nil, badRequestf("title is required")
	}
	if task.DueDate.IsZero() {
		return nil, badRequestf("dueDate is required")
	}

	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(task.Priority) {
		return nil, badRequestf("invalid priority: %s", task.Priority)
	}

	// assignedTo mora biti niz; izostavljeno ili null polje se odbija.
	if task.AssignedTo == nil {
		return nil, badRequestf("assignedTo must be an array of user Ids!")
	}
	if task.Attachments == nil {
		task.Attachments = []string{}
	}
	if task.TodoChecklist == nil {
		task.TodoChecklist = []models.TodoItem{}
	}

	task.ID = primitive.NewObjectID()
	task.ApplyChecklist(task.TodoChecklist)

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := s.tasks().InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	return &task, nil
}

// GetTasks vraća taskove u datom scope-u, opciono filtrirane po statusu,
// zajedno sa zbirnim brojevima po statusu.
func (s *TaskService) GetTasks(ctx context.Context, scope Scope, status string) ([]TaskWithCount, *StatusSummary, error) {
	base := bson.M{}
	if status != "" {
		base["status"] = status
	}

	cursor, err := s.tasks().Find(ctx, scope.Filter(base))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, nil, fmt.Errorf("failed to decode tasks: %v", err)
	}

	users, err := s.assignedUsers(ctx, tasks...)
	if err != nil {
		return nil, nil, err
	}

	withCounts := make([]TaskWithCount, 0, len(tasks))
	for _, task := range tasks {
		withCounts = append(withCounts, TaskWithCount{
			PopulatedTask: PopulatedTask{
				Task:       task,
				AssignedTo: populateAssignees(task, users),
			},
			CompletedTodoCount: task.CompletedTodoCount(),
		})
	}

	summary, err := s.statusSummary(ctx, scope)
	if err != nil {
		return nil, nil, err
	}

	return withCounts, summary, nil
}

func (s *TaskService) statusSummary(ctx context.Context, scope Scope) (*StatusSummary, error) {
	countByStatus := func(status models.TaskStatus) (int64, error) {
		return s.tasks().CountDocuments(ctx, scope.Filter(bson.M{"status": status}))
	}

	all, err := s.tasks().CountDocuments(ctx, scope.Filter(bson.M{}))
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %v", err)
	}
	pending, err := countByStatus(models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %v", err)
	}
	inProgress, err := countByStatus(models.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %v", err)
	}
	completed, err := countByStatus(models.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %v", err)
	}

	return &StatusSummary{
		All:             all,
		PendingTasks:    pending,
		InProgressTasks: inProgress,
		CompletedTasks:  completed,
	}, nil
}

func (s *TaskService) users() *mongo.Collection {
	return s.DB.Collection("users")
}

// assignedUsers učitava assignee korisnike za grupu taskova jednim upitom.
func (s *TaskService) assignedUsers(ctx context.Context, tasks ...models.Task) (map[primitive.ObjectID]AssignedUser, error) {
	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0)
	for _, task := range tasks {
		for _, id := range task.AssignedTo {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	result := make(map[primitive.ObjectID]AssignedUser, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "profileImageUrl": 1})
	cursor, err := s.users().Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignees: %v", err)
	}
	defer cursor.Close(ctx)

	var assignees []AssignedUser
	if err := cursor.All(ctx, &assignees); err != nil {
		return nil, fmt.Errorf("failed to decode assignees: %v", err)
	}
	for _, assignee := range assignees {
		result[assignee.ID] = assignee
	}
	return result, nil
}

// populateAssignees mapira ID-jeve na učitane korisnike, čuvajući redosled
// iz assignedTo. Viseće reference (obrisani korisnici) se preskaču.
func populateAssignees(task models.Task, users map[primitive.ObjectID]AssignedUser) []AssignedUser {
	assignees := make([]AssignedUser, 0, len(task.AssignedTo))
	for _, id := range task.AssignedTo {
		if user, ok := users[id]; ok {
			assignees = append(assignees, user)
		}
	}
	return assignees
}

// GetTask vraća task sa učitanim assignee korisnicima, za odgovore klijentu.
func (s *TaskService) GetTask(ctx context.Context, taskID primitive.ObjectID) (*PopulatedTask, error) {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	users, err := s.assignedUsers(ctx, *task)
	if err != nil {
		return nil, err
	}

	return &PopulatedTask{Task: *task, AssignedTo: populateAssignees(*task, users)}, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.tasks().FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundf("task not found")
		}
		return nil, fmt.Errorf("failed to retrieve task: %v", err)
	}
	return &task, nil
}

// UpdateTask prepisuje samo poslata polja; nil polja ostaju netaknuta.
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, update models.TaskUpdate) (*models.Task, error) {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	update.ApplyTo(task)
	task.UpdatedAt = time.Now()

	if _, err := s.tasks().ReplaceOne(ctx, bson.M{"_id": taskID}, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}

	return task, nil
}

// DeleteTask trajno briše task. Checklist stavke su ugnježdene pa nema
// dodatnog čišćenja.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	result, err := s.tasks().DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if result.DeletedCount == 0 {
		return notFoundf("task not found")
	}
	return nil
}

// UpdateTaskStatus menja status taska. Dozvoljeno samo assignee-ima i
// adminima. Prelazak na "completed" povlači celu checklistu na završeno.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, taskID primitive.ObjectID, status models.TaskStatus, userID primitive.ObjectID, role string) (*models.Task, error) {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.CanBeUpdatedBy(userID, role) {
		return nil, forbiddenf("you are not authorized to update this task")
	}

	// Prazan status znači "ostavi postojeći".
	if status == "" {
		status = task.Status
	}
	if !models.ValidStatus(status) {
		return nil, badRequestf("invalid status: %s", status)
	}

	task.ApplyStatus(status)
	task.UpdatedAt = time.Now()

	if _, err := s.tasks().ReplaceOne(ctx, bson.M{"_id": taskID}, task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %v", err)
	}

	return task, nil
}

// UpdateTaskChecklist zamenjuje checklistu i preračunava progress i status.
// Vraća task sa učitanim assignee korisnicima, kao i GET po ID-u.
func (s *TaskService) UpdateTaskChecklist(ctx context.Context, taskID primitive.ObjectID, items []models.TodoItem, userID primitive.ObjectID, role string) (*PopulatedTask, error) {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.CanBeUpdatedBy(userID, role) {
		return nil, forbiddenf("you are not authorized to update this checklist")
	}

	if items == nil {
		items = []models.TodoItem{}
	}
	task.ApplyChecklist(items)
	task.UpdatedAt = time.Now()

	if _, err := s.tasks().ReplaceOne(ctx, bson.M{"_id": taskID}, task); err != nil {
		return nil, fmt.Errorf("failed to update task checklist: %v", err)
	}

	users, err := s.assignedUsers(ctx, *task)
	if err != nil {
		return nil, err
	}
	return &PopulatedTask{Task: *task, AssignedTo: populateAssignees(*task, users)}, nil
}

// GetDashboardData računa statistiku, distribucije i listu najnovijih
// taskova u datom scope-u. Isti kod služi i admin i user dashboard.
func (s *TaskService) GetDashboardData(ctx context.Context, scope Scope) (*DashboardData, error) {
	total, err := s.tasks().CountDocuments(ctx, scope.Filter(bson.M{}))
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %v", err)
	}
	pending, err := s.tasks().CountDocuments(ctx, scope.Filter(bson.M{"status": models.StatusPending}))
	if err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %v", err)
	}
	completed, err := s.tasks().CountDocuments(ctx, scope.Filter(bson.M{"status": models.StatusCompleted}))
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %v", err)
	}
	overdue, err := s.tasks().CountDocuments(ctx, scope.Filter(bson.M{
		"status":  bson.M{"$ne": models.StatusCompleted},
		"dueDate": bson.M{"$lt": time.Now()},
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %v", err)
	}

	statusGroups, err := s.groupCounts(ctx, scope, "$status")
	if err != nil {
		return nil, err
	}
	taskDistribution := fillDistribution(statusGroups, statusKeys)
	taskDistribution["All"] = total

	priorityGroups, err := s.groupCounts(ctx, scope, "$priority")
	if err != nil {
		return nil, err
	}
	taskPriorityLevels := fillDistribution(priorityGroups, priorityKeys)

	recent, err := s.recentTasks(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		Statistics: DashboardStatistics{
			TotalTasks:     total,
			PendingTasks:   pending,
			CompletedTasks: completed,
			OverdueTasks:   overdue,
		},
		Charts: DashboardCharts{
			TaskDistribution:   taskDistribution,
			TaskPriorityLevels: taskPriorityLevels,
		},
		RecentTasks: recent,
	}, nil
}

type groupCount struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

var statusKeys = []string{
	string(models.StatusPending),
	string(models.StatusInProgress),
	string(models.StatusCompleted),
}

var priorityKeys = []string{
	string(models.PriorityLow),
	string(models.PriorityMedium),
	string(models.PriorityHigh),
}

// fillDistribution mapira $group rezultate na kompletan skup ključeva;
// grupe koje se ne pojave u rezultatu dobijaju nulu.
func fillDistribution(groups []groupCount, keys []string) map[string]int64 {
	distribution := make(map[string]int64, len(keys))
	for _, key := range keys {
		distribution[key] = 0
	}
	for _, group := range groups {
		if _, ok := distribution[group.ID]; ok {
			distribution[group.ID] = group.Count
		}
	}
	return distribution
}

func (s *TaskService) groupCounts(ctx context.Context, scope Scope, field string) ([]groupCount, error) {
	pipeline := []bson.M{}
	if match := scope.Filter(bson.M{}); len(match) > 0 {
		pipeline = append(pipeline, bson.M{"$match": match})
	}
	pipeline = append(pipeline, bson.M{"$group": bson.M{
		"_id":   field,
		"count": bson.M{"$sum": 1},
	}})

	cursor, err := s.tasks().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tasks by %s: %v", field, err)
	}
	defer cursor.Close(ctx)

	var groups []groupCount
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode aggregation result: %v", err)
	}
	return groups, nil
}

func (s *TaskService) recentTasks(ctx context.Context, scope Scope) ([]RecentTask, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(10).
		SetProjection(bson.M{"title": 1, "status": 1, "priority": 1, "dueDate": 1, "createdAt": 1})

	cursor, err := s.tasks().Find(ctx, scope.Filter(bson.M{}), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recent tasks: %v", err)
	}
	defer cursor.Close(ctx)

	recent := make([]RecentTask, 0, 10)
	if err := cursor.All(ctx, &recent); err != nil {
		return nil, fmt.Errorf("failed to decode recent tasks: %v", err)
	}
	return recent, nil
}
