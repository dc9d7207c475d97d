package services

import (
	"errors"
	"strings"
	"testing"

	"skillswap-server/models"
)

func testUser(id uint, offered ...string) *models.User {
	u := &models.User{}
	u.ID = id
	u.SetSkillsOffered(offered)
	return u
}

func testSwap(status string) *models.Swap {
	s := &models.Swap{
		RequesterID:    1,
		RecipientID:    2,
		SkillOffered:   "Go",
		SkillRequested: "Python",
		Status:         status,
	}
	return s
}

func TestCheckSwapCreation(t *testing.T) {
	requester := testUser(1, "Go")
	recipient := testUser(2, "Python")

	if err := CheckSwapCreation(requester, recipient, "Go", "Python"); err != nil {
		t.Fatalf("valid creation rejected: %v", err)
	}
	if err := CheckSwapCreation(requester, requester, "Go", "Go"); !errors.Is(err, ErrSelfSwap) {
		t.Errorf("self swap: got %v, want ErrSelfSwap", err)
	}
	if err := CheckSwapCreation(requester, recipient, "Cooking", "Python"); !errors.Is(err, ErrSkillNotOffered) {
		t.Errorf("requester missing skill: got %v, want ErrSkillNotOffered", err)
	}
	if err := CheckSwapCreation(requester, recipient, "Go", "Cooking"); !errors.Is(err, ErrSkillNotOffered) {
		t.Errorf("recipient missing skill: got %v, want ErrSkillNotOffered", err)
	}
}

func TestCheckSwapTransitionMatrix(t *testing.T) {
	const (
		requester = uint(1)
		recipient = uint(2)
		stranger  = uint(9)
	)

	tests := []struct {
		name   string
		status string
		actor  uint
		target string
		want   error
	}{
		{"recipient accepts pending", models.SwapPending, recipient, models.SwapAccepted, nil},
		{"recipient rejects pending", models.SwapPending, recipient, models.SwapRejected, nil},
		{"requester cancels pending", models.SwapPending, requester, models.SwapCancelled, nil},
		{"requester cannot accept", models.SwapPending, requester, models.SwapAccepted, ErrWrongActor},
		{"requester cannot reject", models.SwapPending, requester, models.SwapRejected, ErrWrongActor},
		{"recipient cannot cancel", models.SwapPending, recipient, models.SwapCancelled, ErrWrongActor},
		{"pending cannot complete", models.SwapPending, recipient, models.SwapCompleted, ErrInvalidTransition},

		{"requester completes accepted", models.SwapAccepted, requester, models.SwapCompleted, nil},
		{"recipient completes accepted", models.SwapAccepted, recipient, models.SwapCompleted, nil},
		{"accepted cannot re-accept", models.SwapAccepted, recipient, models.SwapAccepted, ErrInvalidTransition},
		{"accepted cannot reject", models.SwapAccepted, recipient, models.SwapRejected, ErrInvalidTransition},
		{"accepted cannot cancel", models.SwapAccepted, requester, models.SwapCancelled, ErrInvalidTransition},

		{"rejected is terminal for accept", models.SwapRejected, recipient, models.SwapAccepted, ErrInvalidTransition},
		{"rejected is terminal for complete", models.SwapRejected, requester, models.SwapCompleted, ErrInvalidTransition},
		{"completed is terminal", models.SwapCompleted, recipient, models.SwapCompleted, ErrInvalidTransition},
		{"cancelled is terminal", models.SwapCancelled, requester, models.SwapAccepted, ErrInvalidTransition},

		{"stranger cannot act", models.SwapPending, stranger, models.SwapAccepted, ErrNotParticipant},
		{"unknown target", models.SwapPending, recipient, "archived", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSwapTransition(testSwap(tt.status), tt.actor, tt.target)
			if !errors.Is(err, tt.want) {
				t.Errorf("status=%s actor=%d target=%s: got %v, want %v", tt.status, tt.actor, tt.target, err, tt.want)
			}
		})
	}
}

func TestCheckFeedback(t *testing.T) {
	completed := testSwap(models.SwapCompleted)

	if err := CheckFeedback(completed, 1, 5, "great swap", false); err != nil {
		t.Fatalf("valid feedback rejected: %v", err)
	}
	if err := CheckFeedback(completed, 9, 5, "", false); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("stranger: got %v, want ErrNotParticipant", err)
	}
	if err := CheckFeedback(testSwap(models.SwapAccepted), 1, 5, "", false); !errors.Is(err, ErrSwapNotCompleted) {
		t.Errorf("uncompleted swap: got %v, want ErrSwapNotCompleted", err)
	}
	if err := CheckFeedback(completed, 1, 0, "", false); !errors.Is(err, ErrRatingOutOfRange) {
		t.Errorf("rating 0: got %v, want ErrRatingOutOfRange", err)
	}
	if err := CheckFeedback(completed, 1, 6, "", false); !errors.Is(err, ErrRatingOutOfRange) {
		t.Errorf("rating 6: got %v, want ErrRatingOutOfRange", err)
	}
	if err := CheckFeedback(completed, 1, 4, strings.Repeat("x", models.MaxFeedbackComment+1), false); !errors.Is(err, ErrCommentTooLong) {
		t.Errorf("long comment: got %v, want ErrCommentTooLong", err)
	}
	if err := CheckFeedback(completed, 2, 4, "", true); !errors.Is(err, ErrFeedbackExists) {
		t.Errorf("duplicate: got %v, want ErrFeedbackExists", err)
	}
}
