package services

import "errors"

var (
	// Skill registry errors
	ErrSkillNotFound = errors.New("skill not found")
	ErrSkillExists   = errors.New("skill with this name already exists")
	ErrBadCategory   = errors.New("unknown skill category")
	ErrBadLevel      = errors.New("unknown skill level")

	// Swap workflow errors
	ErrSelfSwap          = errors.New("cannot swap with yourself")
	ErrSkillNotOffered   = errors.New("skill is not in the user's offered list")
	ErrNotParticipant    = errors.New("user is not part of this swap")
	ErrWrongActor        = errors.New("this action belongs to the other party")
	ErrInvalidTransition = errors.New("swap status does not allow this transition")

	// Feedback errors
	ErrSwapNotCompleted = errors.New("feedback is only allowed on completed swaps")
	ErrFeedbackExists   = errors.New("feedback already left for this swap")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong   = errors.New("comment exceeds the maximum length")
)
