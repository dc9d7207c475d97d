package routes

import (
	"net/http"

	"skillswap-server/models"
	"skillswap-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// LoginLogHandler exposes login history. Users see their own attempts; admins
// may query anyone's.
type LoginLogHandler struct {
	db *gorm.DB
}

func NewLoginLogHandler(db *gorm.DB) *LoginLogHandler {
	return &LoginLogHandler{db: db}
}

// ListLoginLogs pages login attempts, newest first, optionally filtered by
// outcome.
func (h *LoginLogHandler) ListLoginLogs(ctx iris.Context) {
	claims := utils.ContextClaims(ctx)
	if claims == nil {
		utils.JSONError(ctx, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	userID := claims.ID
	if target, err := ctx.URLParamInt("user"); err == nil && target > 0 && uint(target) != claims.ID {
		if claims.Role != "admin" {
			utils.JSONError(ctx, http.StatusForbidden, "Forbidden", "You may only view your own login history")
			return
		}
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

	q := h.db.Model(&models.LoginLog{}).Where("user_id = ?", userID)
	if success := ctx.URLParam("success"); success != "" {
		q = q.Where("success = ?", success == "true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var logs []models.LoginLog
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"logs":       logs,
			"pagination": utils.NewPagination(page, limit, len(logs), total),
		},
	})
}
