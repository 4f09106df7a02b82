package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"task-manager/backend/logging"
	"task-manager/backend/models"
	"task-manager/backend/services"
	"task-manager/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const userContextKey contextKey = "authUser"

// AuthMiddleware razrešava bearer token u identitet korisnika.
type AuthMiddleware struct {
	Users *services.UserService
}

func NewAuthMiddleware(users *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{Users: users}
}

// Protect validira token i učitava korisnika (bez lozinke) u context
// zahteva. Bez validnog tokena zahtev se odbija sa 401.
func (m *AuthMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			logging.Logger.Warnf("Event ID: AUTH_MISSING_HEADER, Description: Missing or malformed Authorization header for request to %s %s", r.Method, r.URL.Path)
			writeUnauthorized(w, "Not authorized, no token")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
			writeUnauthorized(w, "Token failed!")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			writeUnauthorized(w, "Token failed!")
			return
		}

		user, err := m.Users.GetUserByID(r.Context(), userID)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_USER_NOT_FOUND, Description: Token resolved to unknown user %s", claims.UserID)
			writeUnauthorized(w, "Token failed!")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, *user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly pušta dalje samo korisnike sa ulogom admin.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user.Role != models.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"message": "Access denied, admin only"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext vraća ulogovanog korisnika postavljenog u Protect.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
