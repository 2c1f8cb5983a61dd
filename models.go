package actions

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Operation is the closed set of mutations an action token can authorize.
type Operation string

const (
	// OperationConfirm marks an account confirmed
	OperationConfirm Operation = "confirm"
	// OperationResetPassword replaces the user's password hash
	OperationResetPassword Operation = "reset-password"
	// OperationChangeEmail replaces the user's email address
	OperationChangeEmail Operation = "change-email"
)

// IsValid checks if the operation is one of the predefined values
func (o Operation) IsValid() bool {
	switch o {
	case OperationConfirm, OperationResetPassword, OperationChangeEmail:
		return true
	default:
		return false
	}
}

func (o Operation) String() string {
	return string(o)
}

// ExtraNewEmail is the extra-payload key carrying the proposed address on
// change-email tokens.
const ExtraNewEmail = "new_email"

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	Name          string     `bun:"name" json:"name,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"password_hash,omitempty"`
	Confirmed     bool       `bun:"is_confirmed" json:"is_confirmed,omitempty"`
	Bio           string     `bun:"bio" json:"bio,omitempty"`
	Location      string     `bun:"location" json:"location,omitempty"`
	AvatarURL     string     `bun:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Notification is one user-facing event row. Every triggering event appends
// exactly one record; there is no batching or deduplication.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:ntf"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Message       string     `bun:"message,notnull" json:"message,omitempty"`
	ReceiverID    uuid.UUID  `bun:"receiver_id,notnull,type:uuid" json:"receiver_id,omitempty"`
	Receiver      *User      `bun:"rel:belongs-to,join:receiver_id=id" json:"receiver,omitempty"`
	IsRead        bool       `bun:"is_read,notnull" json:"is_read"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// ConsumedToken records a token digest after its first successful
// validation. Only used when the replay guard is enabled.
type ConsumedToken struct {
	bun.BaseModel `bun:"table:consumed_tokens,alias:ctk"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id,omitempty"`
	UserID        *uuid.UUID `bun:"user_id,type:uuid" json:"user_id,omitempty"`
	Operation     string     `bun:"operation" json:"operation,omitempty"`
	ConsumedAt    *time.Time `bun:"consumed_at,nullzero,default:current_timestamp" json:"consumed_at,omitempty"`
}
