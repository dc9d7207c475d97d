package models

import "time"

// LoginLog records every login attempt, successful or not.
type LoginLog struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        *uint     `json:"userID" gorm:"index"`
	User          *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Email         string    `json:"email" gorm:"size:200;index"`
	IPAddress     string    `json:"ipAddress" gorm:"size:64"`
	UserAgent     string    `json:"userAgent" gorm:"size:500"`
	Browser       string    `json:"browser" gorm:"size:50"`
	OS            string    `json:"os" gorm:"size:50"`
	Device        string    `json:"device" gorm:"size:50"`
	Success       bool      `json:"success" gorm:"index"`
	FailureReason string    `json:"failureReason" gorm:"size:200"`
	CreatedAt     time.Time `json:"createdAt"`
}
