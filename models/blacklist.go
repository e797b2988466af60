package models

// Blacklist holds access tokens invalidated by logout
type Blacklist struct {
	Model
	Email string `json:"email"`
	Token string `json:"token" gorm:"type:varchar(1000)"`
}
