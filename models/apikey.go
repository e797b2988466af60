package models

import "time"

// APIKey stores the digest of an issued key; the raw secret is shown once at
// creation time and never persisted.
type APIKey struct {
	Model
	UserID     uint       `json:"user_id" gorm:"index;not null"`
	Label      string     `json:"label"`
	Prefix     string     `json:"prefix"`
	Digest     string     `json:"-" gorm:"uniqueIndex;not null"`
	Revoked    bool       `json:"revoked" gorm:"default:false"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

type CreateAPIKeyRequest struct {
	Label string `json:"label" binding:"required,min=2" conform:"trim"`
}

type APIKeyResponse struct {
	ID        uint      `json:"id"`
	Label     string    `json:"label"`
	Prefix    string    `json:"prefix"`
	Key       string    `json:"key,omitempty"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
