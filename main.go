package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"task-manager/backend/db"
	"task-manager/backend/handlers"
	"task-manager/backend/logging"
	"task-manager/backend/middleware"
	"task-manager/backend/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := os.Getenv("CLIENT_URL")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Task Manager backend...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoURI == "" || mongoDBName == "" {
		logging.Logger.Fatal("Event ID: CONFIG_ERROR, Description: MONGO_URI and MONGO_DB_NAME must be set.")
	}

	database, err := db.Connect(mongoURI, mongoDBName)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer database.Disconnect(context.Background())

	taskService := services.NewTaskService(database)
	userService := services.NewUserService(database)

	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)
	authHandler := handlers.NewAuthHandler(userService)
	auth := middleware.NewAuthMiddleware(userService)

	r := mux.NewRouter()

	// Auth rute
	r.Handle("/api/auth/register", http.HandlerFunc(authHandler.Register)).Methods(http.MethodPost)
	r.Handle("/api/auth/login", http.HandlerFunc(authHandler.Login)).Methods(http.MethodPost)
	r.Handle("/api/auth/profile", auth.Protect(http.HandlerFunc(authHandler.GetProfile))).Methods(http.MethodGet)

	// Task rute (specifične putanje pre {id} ruta)
	r.Handle("/api/task/dashboard-data", auth.Protect(middleware.AdminOnly(http.HandlerFunc(taskHandler.GetDashboardData)))).Methods(http.MethodGet)
	r.Handle("/api/task/user-dashboard-data", auth.Protect(http.HandlerFunc(taskHandler.GetUserDashboardData))).Methods(http.MethodGet)
	r.Handle("/api/task", auth.Protect(http.HandlerFunc(taskHandler.GetTasks))).Methods(http.MethodGet)
	r.Handle("/api/task", auth.Protect(middleware.AdminOnly(http.HandlerFunc(taskHandler.CreateTask)))).Methods(http.MethodPost)
	r.Handle("/api/task/{id}/status", auth.Protect(http.HandlerFunc(taskHandler.UpdateTaskStatus))).Methods(http.MethodPut)
	r.Handle("/api/task/{id}/todo", auth.Protect(http.HandlerFunc(taskHandler.UpdateTaskChecklist))).Methods(http.MethodPut)
	r.Handle("/api/task/{id}", auth.Protect(http.HandlerFunc(taskHandler.GetTaskByID))).Methods(http.MethodGet)
	r.Handle("/api/task/{id}", auth.Protect(http.HandlerFunc(taskHandler.UpdateTask))).Methods(http.MethodPut)
	r.Handle("/api/task/{id}", auth.Protect(middleware.AdminOnly(http.HandlerFunc(taskHandler.DeleteTask)))).Methods(http.MethodDelete)

	// User rute (sve admin-only)
	r.Handle("/api/user", auth.Protect(middleware.AdminOnly(http.HandlerFunc(userHandler.GetUsers)))).Methods(http.MethodGet)
	r.Handle("/api/user/{id}", auth.Protect(middleware.AdminOnly(http.HandlerFunc(userHandler.GetUserByID)))).Methods(http.MethodGet)
	r.Handle("/api/user/{id}", auth.Protect(middleware.AdminOnly(http.HandlerFunc(userHandler.DeleteUser)))).Methods(http.MethodDelete)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "5000"
	}

	srv := &http.Server{
		Handler:      corsRouter,
		Addr:         fmt.Sprintf(":%s", serverPort),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost:%s", serverPort)

	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
