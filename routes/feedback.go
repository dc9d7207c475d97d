package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"skillswap-server/models"
	"skillswap-server/services"
	"skillswap-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// FeedbackHandler serves feedback on completed swaps.
type FeedbackHandler struct {
	db *gorm.DB
}

func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{db: db}
}

type CreateFeedbackInput struct {
	SwapID  uint   `json:"swapID" validate:"required"`
	Rating  int    `json:"rating" validate:"required"`
	Comment string `json:"comment"`
}

// CreateFeedback records a rating for the other participant of a completed
// swap. The recipient is always derived from the swap, never taken from the
// payload. One feedback per author per swap.
func (h *FeedbackHandler) CreateFeedback(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	var input CreateFeedbackInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}
	if input.SwapID == 0 || input.Rating == 0 {
		utils.JSONError(ctx, http.StatusBadRequest, "Missing required fields", "SwapID and rating are required")
		return
	}

	var swap models.Swap
	if err := h.db.First(&swap, input.SwapID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx, "Swap")
		} else {
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	var existing int64
	if err := h.db.Model(&models.Feedback{}).
		Where("swap_id = ? AND from_id = ?", swap.ID, userID).
		Count(&existing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := services.CheckFeedback(&swap, userID, input.Rating, input.Comment, existing > 0); err != nil {
		switch {
		case errors.Is(err, services.ErrNotParticipant):
			utils.JSONError(ctx, http.StatusForbidden, "Forbidden", "You are not part of this swap")
		case errors.Is(err, services.ErrSwapNotCompleted):
			utils.JSONError(ctx, http.StatusBadRequest, "Swap not completed", "Feedback can only be left on completed swaps")
		case errors.Is(err, services.ErrRatingOutOfRange):
			utils.JSONError(ctx, http.StatusBadRequest, "Invalid rating", "Rating must be between 1 and 5")
		case errors.Is(err, services.ErrCommentTooLong):
			utils.JSONError(ctx, http.StatusBadRequest, "Comment too long", "Comment cannot exceed 500 characters")
		case errors.Is(err, services.ErrFeedbackExists):
			utils.JSONError(ctx, http.StatusConflict, "Feedback already exists", "You have already left feedback for this swap")
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	feedback := models.Feedback{
		SwapID:  swap.ID,
		FromID:  userID,
		ToID:    swap.OtherParty(userID),
		Rating:  input.Rating,
		Comment: strings.TrimSpace(input.Comment),
	}
	if err := h.db.Create(&feedback).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.JSONError(ctx, http.StatusConflict, "Feedback already exists", "You have already left feedback for this swap")
			return
		}
		log.Printf("feedback creation failed: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "message": "Feedback submitted", "feedback": &feedback})
}

// ListFeedback returns feedback received by a user, newest first, with the
// user's average rating. Defaults to the caller when no user is given.
func (h *FeedbackHandler) ListFeedback(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)
	if target, err := ctx.URLParamInt("user"); err == nil && target > 0 {
		userID = uint(target)
	}

	limit := ctx.URLParamIntDefault("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := ctx.URLParamIntDefault("page", 1)
	if page <= 0 {
		page = 1
	}

	q := h.db.Model(&models.Feedback{}).Where("to_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var feedback []models.Feedback
	err := q.Preload("From").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&feedback).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var average float64
	if total > 0 {
		row := h.db.Model(&models.Feedback{}).
			Where("to_id = ?", userID).
			Select("AVG(rating)").
			Row()
		if err := row.Scan(&average); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"feedback":      feedback,
			"averageRating": average,
			"pagination":    utils.NewPagination(page, limit, len(feedback), total),
		},
	})
}

// ListSwapFeedback returns the feedback on one swap; participants only.
func (h *FeedbackHandler) ListSwapFeedback(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid swap ID", "The provided swap ID is not valid")
		return
	}

	var swap models.Swap
	if err := h.db.First(&swap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx, "Swap")
		} else {
			utils.CreateInternalServerError(ctx)
		}
		return
	}
	if !swap.Participant(userID) {
		utils.JSONError(ctx, http.StatusForbidden, "Forbidden", "You are not part of this swap")
		return
	}

	var feedback []models.Feedback
	if err := h.db.Preload("From").Where("swap_id = ?", swap.ID).Order("created_at ASC").Find(&feedback).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "feedback": feedback})
}
