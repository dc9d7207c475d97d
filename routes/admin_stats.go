package routes

import (
	"time"

	"skillswap-server/models"
	"skillswap-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// AdminStatsHandler serves the moderation dashboard numbers.
type AdminStatsHandler struct {
	db *gorm.DB
}

func NewAdminStatsHandler(db *gorm.DB) *AdminStatsHandler {
	return &AdminStatsHandler{db: db}
}

// GET /admin/stats
func (h *AdminStatsHandler) Stats(ctx iris.Context) {
	var totalUsers, bannedUsers int64
	h.db.Model(&models.User{}).Count(&totalUsers)
	h.db.Model(&models.User{}).Where("is_banned = ?", true).Count(&bannedUsers)

	var verifiedSkills, pendingSkills int64
	h.db.Model(&models.Skill{}).Where("is_verified = ? AND is_active = ?", true, true).Count(&verifiedSkills)
	h.db.Model(&models.Skill{}).Where("is_verified = ? AND is_active = ?", false, true).Count(&pendingSkills)

	// Cancelled swaps are soft-deleted, so status counts read past the
	// default scope.
	swapsByStatus := iris.Map{}
	for _, status := range []string{models.SwapPending, models.SwapAccepted, models.SwapRejected, models.SwapCancelled, models.SwapCompleted} {
		var n int64
		h.db.Unscoped().Model(&models.Swap{}).Where("status = ?", status).Count(&n)
		swapsByStatus[status] = n
	}

	var totalFeedback int64
	h.db.Model(&models.Feedback{}).Count(&totalFeedback)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newUsers7, newUsers30, newSwaps7, newSwaps30 int64
	h.db.Model(&models.User{}).Where("created_at >= ?", since7).Count(&newUsers7)
	h.db.Model(&models.User{}).Where("created_at >= ?", since30).Count(&newUsers30)
	h.db.Unscoped().Model(&models.Swap{}).Where("created_at >= ?", since7).Count(&newSwaps7)
	h.db.Unscoped().Model(&models.Swap{}).Where("created_at >= ?", since30).Count(&newSwaps30)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"total_users":     totalUsers,
			"banned_users":    bannedUsers,
			"verified_skills": verifiedSkills,
			"pending_skills":  pendingSkills,
			"swaps_by_status": swapsByStatus,
			"total_feedback":  totalFeedback,
			"new_users_7d":    newUsers7,
			"new_users_30d":   newUsers30,
			"new_swaps_7d":    newSwaps7,
			"new_swaps_30d":   newSwaps30,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// GET /admin/activity
func (h *AdminStatsHandler) Activity(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 100)
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	q := h.db.Model(&models.AuditLog{})
	if action := ctx.URLParam("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if admin, err := ctx.URLParamInt("admin"); err == nil && admin > 0 {
		q = q.Where("admin_user_id = ?", admin)
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}
