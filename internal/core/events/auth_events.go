package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCodeIssued      = "auth.code_issued"
	EventTypeUserRegistered  = "auth.user_registered"
	EventTypePasswordChanged = "auth.password_changed"
)

// CodeIssuedEvent is published whenever a one-time code is generated for
// registration, login or password reset. The mail dispatcher subscribes to
// it and delivers the code.
type CodeIssuedEvent struct {
	BaseEvent
	Email    string `json:"email"`
	Username string `json:"username"`
	Code     string `json:"code"`
	Purpose  string `json:"purpose"`
}

func NewCodeIssuedEvent(email, username, code, purpose string) *CodeIssuedEvent {
	return &CodeIssuedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCodeIssued,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"email":   email,
				"purpose": purpose,
			},
		},
		Email:    email,
		Username: username,
		Code:     code,
		Purpose:  purpose,
	}
}

type UserRegisteredEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

func NewUserRegisteredEvent(userID int64, email string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserRegistered,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
			},
		},
		UserID: userID,
		Email:  email,
	}
}

type PasswordChangedEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

func NewPasswordChangedEvent(userID int64, email string) *PasswordChangedEvent {
	return &PasswordChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePasswordChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
			},
		},
		UserID: userID,
		Email:  email,
	}
}
