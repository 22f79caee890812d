package usecase

import (
	"github.com/google/uuid"
)

// Actor is the authenticated user a mutation is performed for.
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

// CanMutate is the owner-or-admin rule guarding content edits, content
// deletion and comment deletion.
func CanMutate(actor Actor, ownerID uuid.UUID) bool {
	if actor.IsAdmin {
		return true
	}
	return actor.ID != uuid.Nil && actor.ID == ownerID
}
