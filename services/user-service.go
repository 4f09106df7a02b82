package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"task-manager/backend/db"
	"task-manager/backend/models"
	"task-manager/backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserService struct {
	DB *db.Mongo
}

func NewUserService(database *db.Mongo) *UserService {
	return &UserService{DB: database}
}

func (s *UserService) users() *mongo.Collection {
	return s.DB.Collection("users")
}

func (s *UserService) tasks() *mongo.Collection {
	return s.DB.Collection("tasks")
}

// registerRole odlučuje ulogu pri registraciji: admin samo uz poklapanje
// sa konfigurisanim invite tokenom. Bez konfigurisanog tokena niko se ne
// može registrovati kao admin.
func registerRole(inviteToken, configured string) string {
	if configured != "" && inviteToken == configured {
		return models.RoleAdmin
	}
	return models.RoleMember
}

// RegisterUser kreira novog korisnika sa hashiranom lozinkom i vraća ga
// zajedno sa tokenom za prijavu.
func (s *UserService) RegisterUser(ctx context.Context, user models.User, inviteToken string) (*models.User, string, error) {
	if user.Name == "" || user.Email == "" || user.Password == "" {
		return nil, "", badRequestf("name, email and password are required")
	}

	// Email mora biti jedinstven
	var existing models.User
	if err := s.users().FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing); err == nil {
		return nil, "", badRequestf("user with email already exists")
	}

	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %v", err)
	}
	user.Password = hashed

	user.Role = registerRole(inviteToken, os.Getenv("ADMIN_INVITE_TOKEN"))

	user.ID = primitive.NewObjectID()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := s.users().InsertOne(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to save user: %v", err)
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}

	user.Password = ""
	return &user, token, nil
}

// LoginUser proverava kredencijale i vraća korisnika sa novim tokenom.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, "", unauthorizedf("invalid email or password")
	}

	if err := utils.CheckPassword(user.Password, password); err != nil {
		return nil, "", unauthorizedf("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}

	user.Password = ""
	return &user, token, nil
}

// GetUserByID vraća korisnika bez lozinke.
func (s *UserService) GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundf("user not found")
		}
		return nil, fmt.Errorf("failed to retrieve user: %v", err)
	}
	user.Password = ""
	return &user, nil
}

// GetMembers vraća sve korisnike sa ulogom member, svakog sa live brojem
// taskova po statusu. Admini se nikad ne listaju.
func (s *UserService) GetMembers(ctx context.Context) ([]models.UserWithTaskCounts, error) {
	cursor, err := s.users().Find(ctx, bson.M{"role": models.RoleMember})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %v", err)
	}
	defer cursor.Close(ctx)

	var members []models.User
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode members: %v", err)
	}

	result := make([]models.UserWithTaskCounts, 0, len(members))
	for _, member := range members {
		member.Password = ""

		scope := UserScope(member.ID)
		pending, err := s.tasks().CountDocuments(ctx, scope.Filter(bson.M{"status": models.StatusPending}))
		if err != nil {
			return nil, fmt.Errorf("failed to count pending tasks: %v", err)
		}
		inProgress, err := s.tasks().CountDocuments(ctx, scope.Filter(bson.M{"status": models.StatusInProgress}))
		if err != nil {
			return nil, fmt.Errorf("failed to count in progress tasks: %v", err)
		}
		completed, err := s.tasks().CountDocuments(ctx, scope.Filter(bson.M{"status": models.StatusCompleted}))
		if err != nil {
			return nil, fmt.Errorf("failed to count completed tasks: %v", err)
		}

		result = append(result, models.UserWithTaskCounts{
			User:            member,
			PendingTasks:    pending,
			InProgressTasks: inProgress,
			CompletedTasks:  completed,
		})
	}

	return result, nil
}

// DeleteUser briše korisnika bez dodatnih provera. Taskovi na kojima je
// korisnik assignee ostaju sa visećom referencom.
func (s *UserService) DeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	result, err := s.users().DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}
	if result.DeletedCount == 0 {
		return notFoundf("user not found")
	}
	return nil
}
