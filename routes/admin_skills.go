package routes

import (
	"errors"
	"log"
	"net/http"

	"skillswap-server/services"
	"skillswap-server/storage"
	"skillswap-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// AdminSkillHandler is the skill moderation surface.
type AdminSkillHandler struct {
	db       *gorm.DB
	registry *services.SkillRegistry
}

func NewAdminSkillHandler(db *gorm.DB, registry *services.SkillRegistry) *AdminSkillHandler {
	return &AdminSkillHandler{db: db, registry: registry}
}

// GET /admin/skills?status=pending|verified&page=&per_page=
func (h *AdminSkillHandler) ListSkills(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)

	skills, total, err := h.registry.AdminList(ctx.URLParam("status"), perPage, page)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(iris.Map{
		"data":  skills,
		"meta":  iris.Map{"page": page, "per_page": perPage, "total": total},
		"links": iris.Map{},
	})
}

// PUT /admin/skills/:id — edit fields and/or verify. Verification stamps the
// acting admin and the timestamp; the timestamp is written once.
func (h *AdminSkillHandler) UpdateSkill(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input services.AdminSkillUpdate
	if err := ctx.ReadJSON(&input); err != nil {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", err.Error())
		return
	}

	before, err := h.registry.FindByID(id)
	if err != nil {
		if errors.Is(err, services.ErrSkillNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, "not_found", "skill not found")
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	adminID := utils.ContextUserID(ctx)
	skill, err := h.registry.Update(id, input, adminID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSkillNotFound):
			utils.JSONError(ctx, http.StatusNotFound, "not_found", "skill not found")
		case errors.Is(err, services.ErrBadCategory):
			utils.JSONError(ctx, http.StatusBadRequest, "invalid_category", "unknown skill category")
		case errors.Is(err, services.ErrBadLevel):
			utils.JSONError(ctx, http.StatusBadRequest, "invalid_level", "unknown skill level")
		case errors.Is(err, services.ErrSkillExists):
			utils.JSONError(ctx, http.StatusConflict, "skill_exists", "a skill with this name already exists")
		default:
			utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	utils.Audit(h.db, ctx, "skill.update", "skill", skill.ID, before, skill)
	ctx.JSON(iris.Map{"data": skill})
}

// DELETE /admin/skills/:id — soft-deactivates; never hard-deletes.
func (h *AdminSkillHandler) DeleteSkill(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	before, err := h.registry.FindByID(id)
	if err != nil {
		if errors.Is(err, services.ErrSkillNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, "not_found", "skill not found")
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	skill, err := h.registry.Deactivate(id)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(h.db, ctx, "skill.deactivate", "skill", skill.ID, before, skill)
	ctx.JSON(iris.Map{"data": iris.Map{"id": skill.ID, "isActive": skill.IsActive}})
}

// POST /admin/skills/seed — loads the initial verified catalog. Idempotent:
// names already present are skipped.
func (h *AdminSkillHandler) SeedSkills(ctx iris.Context) {
	created, err := storage.SeedSkills(h.db)
	if err != nil {
		log.Printf("skill seed failed: %v", err)
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "seeding failed")
		return
	}

	utils.Audit(h.db, ctx, "skill.seed", "skill", 0, nil, iris.Map{"created": created})
	ctx.JSON(iris.Map{"data": iris.Map{"created": created}})
}
