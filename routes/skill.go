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

// SkillHandler serves the public skill catalog endpoints.
type SkillHandler struct {
	db       *gorm.DB
	registry *services.SkillRegistry
}

func NewSkillHandler(db *gorm.DB, registry *services.SkillRegistry) *SkillHandler {
	return &SkillHandler{db: db, registry: registry}
}

// ListSkills returns the verified catalog by default. Filters: category,
// search, verified, popular, limit, page.
func (h *SkillHandler) ListSkills(ctx iris.Context) {
	opts := services.ListSkillsOptions{
		Category: ctx.URLParam("category"),
		Search:   ctx.URLParam("search"),
		Limit:    ctx.URLParamIntDefault("limit", 50),
		Page:     ctx.URLParamIntDefault("page", 1),
	}
	if verified := ctx.URLParam("verified"); verified != "" {
		v := verified == "true"
		opts.Verified = &v
	}
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 50
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}

	// Popularity queries only return skills somebody actually lists.
	if ctx.URLParam("popular") == "true" {
		skills, err := h.registry.Popular(opts.Limit)
		if err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		ctx.JSON(iris.Map{
			"success": true,
			"data":    iris.Map{"skills": skills},
		})
		return
	}

	skills, total, err := h.registry.List(opts)
	if err != nil {
		log.Printf("skill listing failed: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	categories, err := h.registry.Categories()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"skills":     skills,
			"categories": categories,
			"pagination": utils.NewPagination(opts.Page, opts.Limit, len(skills), total),
		},
	})
}

// GetSkill returns a single skill by ID. Unverified skills are visible only
// to admins; everyone else gets a 404 so pending submissions do not leak.
func (h *SkillHandler) GetSkill(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid skill ID", "The provided skill ID is not valid")
		return
	}

	skill, err := h.registry.FindByID(id)
	if err != nil {
		if errors.Is(err, services.ErrSkillNotFound) {
			utils.CreateNotFound(ctx, "Skill")
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if !skill.IsVerified || !skill.IsActive {
		claims := utils.ContextClaims(ctx)
		if claims == nil || claims.Role != "admin" {
			utils.CreateNotFound(ctx, "Skill")
			return
		}
	}

	ctx.JSON(iris.Map{"success": true, "skill": skill})
}

// SubmitSkill accepts a new skill suggestion and stores it unverified. On the
// authenticated route the submission is attributed to the caller. A duplicate
// name answers 409, telling the caller whether the existing skill is already
// verified or still pending.
func (h *SkillHandler) SubmitSkill(ctx iris.Context) {
	var input services.SubmitSkillInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}
	if input.Name == "" || input.Category == "" {
		utils.JSONError(ctx, http.StatusBadRequest, "Missing required fields", "Name and category are required")
		return
	}

	var submittedBy *uint
	if claims := utils.ContextClaims(ctx); claims != nil {
		submittedBy = &claims.ID
	}

	skill, err := h.registry.Submit(input, submittedBy)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadCategory):
			utils.JSONError(ctx, http.StatusBadRequest, "Invalid category", "Unknown skill category")
		case errors.Is(err, services.ErrBadLevel):
			utils.JSONError(ctx, http.StatusBadRequest, "Invalid level", "Unknown skill level")
		case errors.Is(err, services.ErrSkillExists):
			h.respondDuplicate(ctx, input.Name)
		default:
			log.Printf("skill submission failed: %v", err)
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Skill submitted for verification",
		"skill":   skill,
	})
}

func (h *SkillHandler) respondDuplicate(ctx iris.Context, name string) {
	existing, err := h.registry.FindActiveByName(name)
	if err != nil || existing == nil {
		utils.JSONError(ctx, http.StatusConflict, "Skill already exists", "A skill with this name already exists")
		return
	}
	message := "This skill is already pending verification"
	if existing.IsVerified {
		message = "This skill is already verified and available"
	}
	ctx.StatusCode(http.StatusConflict)
	ctx.JSON(iris.Map{
		"error":   "Skill already exists",
		"message": message,
		"skill":   iris.Map{"id": existing.ID, "name": existing.Name, "isVerified": existing.IsVerified},
	})
}

// Autocomplete matches verified skills by name or alias substring.
func (h *SkillHandler) Autocomplete(ctx iris.Context) {
	query := ctx.URLParam("q")
	limit := ctx.URLParamIntDefault("limit", 10)

	skills, err := h.registry.Autocomplete(query, limit)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	out := make([]iris.Map, 0, len(skills))
	for i := range skills {
		out = append(out, iris.Map{
			"id":         skills[i].ID,
			"name":       skills[i].Name,
			"category":   skills[i].Category,
			"usageCount": skills[i].UsageCount,
		})
	}
	ctx.JSON(iris.Map{"success": true, "suggestions": out})
}

// Categories lists the distinct categories present among verified skills.
func (h *SkillHandler) Categories(ctx iris.Context) {
	categories, err := h.registry.Categories()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "categories": categories})
}

// Status summarizes catalog health: verified and pending counts.
func (h *SkillHandler) Status(ctx iris.Context) {
	verified, pending, err := h.registry.CountByStatus()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{
		"success": true,
		"status": iris.Map{
			"verified": verified,
			"pending":  pending,
			"total":    verified + pending,
		},
	})
}

// MySkills returns the caller's own submissions, pending and verified.
func (h *SkillHandler) MySkills(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	var skills []models.Skill
	err := h.db.
		Where("submitted_by_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&skills).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	pending := 0
	for i := range skills {
		if !skills[i].IsVerified {
			pending++
		}
	}

	ctx.JSON(iris.Map{
		"success": true,
		"skills":  skills,
		"summary": iris.Map{"total": len(skills), "pending": pending, "verified": len(skills) - pending},
	})
}
