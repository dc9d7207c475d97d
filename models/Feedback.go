package models

import "gorm.io/gorm"

// MaxFeedbackComment bounds the feedback comment length.
const MaxFeedbackComment = 500

// Feedback is a rating left by one participant of a completed swap for the
// other. One feedback per (swap, author) pair, enforced by a unique index.
type Feedback struct {
	gorm.Model
	SwapID  uint   `json:"swapID" gorm:"not null;uniqueIndex:idx_feedback_swap_from"`
	Swap    Swap   `json:"-" gorm:"foreignKey:SwapID"`
	FromID  uint   `json:"fromID" gorm:"not null;uniqueIndex:idx_feedback_swap_from"`
	From    User   `json:"from" gorm:"foreignKey:FromID"`
	ToID    uint   `json:"toID" gorm:"not null;index"`
	To      User   `json:"to" gorm:"foreignKey:ToID"`
	Rating  int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment string `json:"comment" gorm:"size:500"`
}
