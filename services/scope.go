package services

import (
	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scope određuje vidljivost taskova: admin vidi sve, member samo taskove
// na kojima je assignee. Umesto provere uloge po upitima, scope se jednom
// izračuna iz identiteta i od njega se grade svi filteri.
type Scope struct {
	userID *primitive.ObjectID
}

// AdminScope vraća scope bez ograničenja.
func AdminScope() Scope {
	return Scope{}
}

// UserScope ograničava upite na taskove dodeljene datom korisniku.
func UserScope(userID primitive.ObjectID) Scope {
	return Scope{userID: &userID}
}

// ScopeFor izvodi scope iz uloge i ID-a ulogovanog korisnika.
func ScopeFor(role string, userID primitive.ObjectID) Scope {
	if role == models.RoleAdmin {
		return AdminScope()
	}
	return UserScope(userID)
}

// Filter kopira bazni filter i dodaje assignee uslov za user scope.
func (s Scope) Filter(base bson.M) bson.M {
	filter := bson.M{}
	for k, v := range base {
		filter[k] = v
	}
	if s.userID != nil {
		filter["assignedTo"] = *s.userID
	}
	return filter
}
