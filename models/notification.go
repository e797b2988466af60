package models

import "time"

// Notification represents one message delivered to one user. Only Read is
// mutable after creation.
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Message   string    `json:"message" gorm:"type:varchar(2000)"`
	Type      string    `json:"type"`
	Read      bool      `json:"read" gorm:"default:false"`
	Timestamp time.Time `json:"timestamp"`
}

type CreateNotificationRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type"`
}

type BroadcastNotificationRequest struct {
	Message string `json:"message" binding:"required"`
	Type    string `json:"type"`
}

type MarkReadResponse struct {
	Success bool `json:"success"`
}
