package routes

import (
	"errors"
	"log"
	"net/http"

	"skillswap-server/models"
	"skillswap-server/services"
	"skillswap-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// SwapHandler serves the swap request workflow. All routes require auth.
type SwapHandler struct {
	db *gorm.DB
}

func NewSwapHandler(db *gorm.DB) *SwapHandler {
	return &SwapHandler{db: db}
}

type CreateSwapInput struct {
	RecipientID    uint   `json:"recipientID" validate:"required"`
	SkillOffered   string `json:"skillOffered" validate:"required"`
	SkillRequested string `json:"skillRequested" validate:"required"`
	Message        string `json:"message"`
}

// CreateSwap opens a new pending swap request. The requester must offer
// skillOffered and the recipient must offer skillRequested; a request to
// yourself is rejected.
func (h *SwapHandler) CreateSwap(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	var input CreateSwapInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}
	if input.RecipientID == 0 || input.SkillOffered == "" || input.SkillRequested == "" {
		utils.JSONError(ctx, http.StatusBadRequest, "Missing required fields", "Recipient, skillOffered, and skillRequested are required")
		return
	}
	if input.RecipientID == userID {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid recipient", "You cannot send a swap request to yourself")
		return
	}

	var requester models.User
	if err := h.db.First(&requester, userID).Error; err != nil {
		utils.CreateNotFound(ctx, "User")
		return
	}

	var recipient models.User
	if err := h.db.First(&recipient, input.RecipientID).Error; err != nil {
		utils.CreateNotFound(ctx, "Recipient")
		return
	}
	if recipient.IsBanned || !recipient.Public() {
		utils.CreateNotFound(ctx, "Recipient")
		return
	}

	if err := services.CheckSwapCreation(&requester, &recipient, input.SkillOffered, input.SkillRequested); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfSwap):
			utils.JSONError(ctx, http.StatusBadRequest, "Invalid recipient", "You cannot send a swap request to yourself")
		case errors.Is(err, services.ErrSkillNotOffered):
			utils.JSONError(ctx, http.StatusBadRequest, "Skill not offered", "Both sides must actually offer the listed skills")
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	swap := models.Swap{
		RequesterID:    requester.ID,
		RecipientID:    recipient.ID,
		RequesterName:  requester.Name,
		RecipientName:  recipient.Name,
		SkillOffered:   input.SkillOffered,
		SkillRequested: input.SkillRequested,
		Message:        input.Message,
		Status:         models.SwapPending,
	}
	if err := h.db.Create(&swap).Error; err != nil {
		log.Printf("swap creation failed: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "message": "Swap request sent", "swap": &swap})
}

// ListSwaps returns the caller's swaps, as requester or recipient, optionally
// filtered by status and role.
func (h *SwapHandler) ListSwaps(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)
	limit := ctx.URLParamIntDefault("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := ctx.URLParamIntDefault("page", 1)
	if page <= 0 {
		page = 1
	}

	q := h.db.Model(&models.Swap{})
	switch ctx.URLParam("role") {
	case "requester":
		q = q.Where("requester_id = ?", userID)
	case "recipient":
		q = q.Where("recipient_id = ?", userID)
	default:
		q = q.Where("requester_id = ? OR recipient_id = ?", userID, userID)
	}
	if status := ctx.URLParam("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var swaps []models.Swap
	err := q.Preload("Requester").Preload("Recipient").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&swaps).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"swaps":      swaps,
			"pagination": utils.NewPagination(page, limit, len(swaps), total),
		},
	})
}

// GetSwap returns one swap; participants only.
func (h *SwapHandler) GetSwap(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	swap, ok := h.loadSwap(ctx)
	if !ok {
		return
	}
	if !swap.Participant(userID) {
		utils.JSONError(ctx, http.StatusForbidden, "Forbidden", "You are not part of this swap")
		return
	}
	ctx.JSON(iris.Map{"success": true, "swap": swap})
}

// AcceptSwap moves a pending swap to accepted. Recipient only.
func (h *SwapHandler) AcceptSwap(ctx iris.Context) {
	h.transition(ctx, models.SwapAccepted, "Swap request accepted")
}

// RejectSwap moves a pending swap to rejected. Recipient only.
func (h *SwapHandler) RejectSwap(ctx iris.Context) {
	h.transition(ctx, models.SwapRejected, "Swap request rejected")
}

// CompleteSwap marks an accepted swap completed. Either participant.
func (h *SwapHandler) CompleteSwap(ctx iris.Context) {
	h.transition(ctx, models.SwapCompleted, "Swap marked as completed")
}

// DeleteSwap cancels a pending swap. Requester only; the row is soft-deleted
// after its status moves to cancelled so history survives.
func (h *SwapHandler) DeleteSwap(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	swap, ok := h.loadSwap(ctx)
	if !ok {
		return
	}
	if err := services.CheckSwapTransition(swap, userID, models.SwapCancelled); err != nil {
		h.respondTransitionError(ctx, err)
		return
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(swap).Update("status", models.SwapCancelled).Error; err != nil {
			return err
		}
		return tx.Delete(swap).Error
	})
	if txErr != nil {
		log.Printf("swap cancellation failed: %v", txErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Swap request cancelled"})
}

func (h *SwapHandler) transition(ctx iris.Context, target, message string) {
	userID := utils.ContextUserID(ctx)

	swap, ok := h.loadSwap(ctx)
	if !ok {
		return
	}
	if err := services.CheckSwapTransition(swap, userID, target); err != nil {
		h.respondTransitionError(ctx, err)
		return
	}

	if err := h.db.Model(swap).Update("status", target).Error; err != nil {
		log.Printf("swap transition to %s failed: %v", target, err)
		utils.CreateInternalServerError(ctx)
		return
	}
	swap.Status = target

	ctx.JSON(iris.Map{"success": true, "message": message, "swap": swap})
}

func (h *SwapHandler) loadSwap(ctx iris.Context) (*models.Swap, bool) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid swap ID", "The provided swap ID is not valid")
		return nil, false
	}

	var swap models.Swap
	if err := h.db.Preload("Requester").Preload("Recipient").First(&swap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx, "Swap")
		} else {
			utils.CreateInternalServerError(ctx)
		}
		return nil, false
	}
	return &swap, true
}

func (h *SwapHandler) respondTransitionError(ctx iris.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotParticipant):
		utils.JSONError(ctx, http.StatusForbidden, "Forbidden", "You are not part of this swap")
	case errors.Is(err, services.ErrWrongActor):
		utils.JSONError(ctx, http.StatusForbidden, "Forbidden", "You are not allowed to perform this action on the swap")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.JSONError(ctx, http.StatusConflict, "Invalid status transition", "The swap is not in a state that allows this action")
	default:
		utils.CreateInternalServerError(ctx)
	}
}
