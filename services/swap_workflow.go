package services

import (
	"strings"

	"skillswap-server/models"
)

// Swap status rules. Acceptance and rejection belong to the recipient,
// cancellation to the requester, completion to either participant once the
// swap was accepted. There is no automatic path into completed; it is always
// an explicit action.

// CheckSwapCreation validates the preconditions for a new swap request:
// distinct parties, the requester actually offers skillOffered, and the
// recipient actually offers skillRequested.
func CheckSwapCreation(requester, recipient *models.User, skillOffered, skillRequested string) error {
	if requester.ID == recipient.ID {
		return ErrSelfSwap
	}
	if !requester.OffersSkill(skillOffered) {
		return ErrSkillNotOffered
	}
	if !recipient.OffersSkill(skillRequested) {
		return ErrSkillNotOffered
	}
	return nil
}

// CheckSwapTransition validates a status change requested by userID. Only
// pending swaps may be accepted, rejected or cancelled; only accepted swaps
// may be completed.
func CheckSwapTransition(swap *models.Swap, userID uint, target string) error {
	if !swap.Participant(userID) {
		return ErrNotParticipant
	}

	switch target {
	case models.SwapAccepted, models.SwapRejected:
		if swap.Status != models.SwapPending {
			return ErrInvalidTransition
		}
		if userID != swap.RecipientID {
			return ErrWrongActor
		}
	case models.SwapCancelled:
		if swap.Status != models.SwapPending {
			return ErrInvalidTransition
		}
		if userID != swap.RequesterID {
			return ErrWrongActor
		}
	case models.SwapCompleted:
		if swap.Status != models.SwapAccepted {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	return nil
}

// CheckFeedback validates a feedback submission: the author must be part of
// the swap, the swap must be completed, the rating bounded and the comment
// within limits. alreadyLeft covers the one-feedback-per-author rule; the
// unique index backs it up under races.
func CheckFeedback(swap *models.Swap, fromID uint, rating int, comment string, alreadyLeft bool) error {
	if !swap.Participant(fromID) {
		return ErrNotParticipant
	}
	if swap.Status != models.SwapCompleted {
		return ErrSwapNotCompleted
	}
	if rating < 1 || rating > 5 {
		return ErrRatingOutOfRange
	}
	if len(strings.TrimSpace(comment)) > models.MaxFeedbackComment {
		return ErrCommentTooLong
	}
	if alreadyLeft {
		return ErrFeedbackExists
	}
	return nil
}
