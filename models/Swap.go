package models

import "gorm.io/gorm"

// Swap statuses. A swap is created pending and moves by explicit action only.
const (
	SwapPending   = "pending"
	SwapAccepted  = "accepted"
	SwapRejected  = "rejected"
	SwapCancelled = "cancelled"
	SwapCompleted = "completed"
)

type Swap struct {
	gorm.Model
	RequesterID    uint   `json:"requesterID" gorm:"not null;index"`
	RecipientID    uint   `json:"recipientID" gorm:"not null;index"`
	Requester      User   `json:"requester" gorm:"foreignKey:RequesterID"`
	Recipient      User   `json:"recipient" gorm:"foreignKey:RecipientID"`
	RequesterName  string `json:"requesterName" gorm:"size:100"`
	RecipientName  string `json:"recipientName" gorm:"size:100"`
	SkillOffered   string `json:"skillOffered" gorm:"size:100;not null"`
	SkillRequested string `json:"skillRequested" gorm:"size:100;not null"`
	Message        string `json:"message" gorm:"type:text"`
	Status         string `json:"status" gorm:"type:varchar(20);default:pending;index"`
}

// Participant reports whether the user is either side of the swap.
func (s *Swap) Participant(userID uint) bool {
	return s.RequesterID == userID || s.RecipientID == userID
}

// OtherParty returns the id of the counterpart, or 0 for non-participants.
func (s *Swap) OtherParty(userID uint) uint {
	switch userID {
	case s.RequesterID:
		return s.RecipientID
	case s.RecipientID:
		return s.RequesterID
	}
	return 0
}
