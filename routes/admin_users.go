package routes

import (
	"net/http"
	"strings"

	"skillswap-server/models"
	"skillswap-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// AdminUserHandler is the user moderation surface.
type AdminUserHandler struct {
	db *gorm.DB
}

func NewAdminUserHandler(db *gorm.DB) *AdminUserHandler {
	return &AdminUserHandler{db: db}
}

// GET /admin/users?role=&banned=&q=&page=&per_page=
func (h *AdminUserHandler) ListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}
	if page <= 0 {
		page = 1
	}

	query := h.db.Model(&models.User{})
	if role := strings.TrimSpace(ctx.URLParam("role")); role != "" {
		query = query.Where("role = ?", role)
	}
	if banned := ctx.URLParam("banned"); banned != "" {
		query = query.Where("is_banned = ?", banned == "true")
	}
	if q := strings.TrimSpace(ctx.URLParamDefault("q", "")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(email) LIKE ? OR lower(location) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(iris.Map{
		"data":  users,
		"meta":  iris.Map{"page": page, "per_page": perPage, "total": total},
		"links": iris.Map{},
	})
}

// GET /admin/users/:id — full record plus recent login attempts and swaps.
func (h *AdminUserHandler) GetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	var logins []models.LoginLog
	h.db.Where("user_id = ?", id).Order("created_at DESC").Limit(20).Find(&logins)

	// Unscoped so cancelled (soft-deleted) swaps stay part of the history.
	var swaps []models.Swap
	h.db.Unscoped().Where("requester_id = ? OR recipient_id = ?", id, id).Order("created_at DESC").Limit(20).Find(&swaps)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"user":         user,
			"recentLogins": logins,
			"recentSwaps":  swaps,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// POST /admin/users/:id/ban { reason }
func (h *AdminUserHandler) BanUser(ctx iris.Context) {
	h.setBanned(ctx, true, "user.ban")
}

// POST /admin/users/:id/unban
func (h *AdminUserHandler) UnbanUser(ctx iris.Context) {
	h.setBanned(ctx, false, "user.unban")
}

func (h *AdminUserHandler) setBanned(ctx iris.Context, banned bool, action string) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if user.Role == "admin" && banned {
		utils.JSONError(ctx, http.StatusForbidden, "forbidden", "admins cannot be banned")
		return
	}
	if user.IsBanned == banned {
		ctx.JSON(iris.Map{"data": user})
		return
	}

	before := user
	user.IsBanned = banned
	if err := h.db.Model(&user).Update("is_banned", banned).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(h.db, ctx, action, "user", user.ID, before, user)
	ctx.JSON(iris.Map{"data": user})
}
