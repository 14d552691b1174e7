package identity

import (
	"github.com/bloodbank/backend/internal/domain/shared"
)

// Event types for account lifecycle
const (
	EventTypeUserRegistered = "identity.user_registered"
)

const aggregateTypeUser = "User"

// UserRegisteredEvent is emitted when an account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, aggregateTypeUser, u.ID),
		Email:           u.Email,
		Role:            u.Role,
	}
}
