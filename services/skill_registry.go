package services

import (
	"errors"
	"strings"
	"time"

	"skillswap-server/models"

	"gorm.io/gorm"
)

// SkillRegistry is the canonical store and query surface for skills.
type SkillRegistry struct {
	db *gorm.DB
}

func NewSkillRegistry(db *gorm.DB) *SkillRegistry {
	return &SkillRegistry{db: db}
}

// WithTx returns a registry bound to the given transaction.
func (r *SkillRegistry) WithTx(tx *gorm.DB) *SkillRegistry {
	return &SkillRegistry{db: tx}
}

// VerifiedActiveSkills returns every verified, active skill with the fields
// the validator needs for name, alias and tag matching.
func (r *SkillRegistry) VerifiedActiveSkills() ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.
		Select("id, name, category, aliases, tags, usage_count").
		Where("is_verified = ? AND is_active = ?", true, true).
		Find(&skills).Error
	return skills, err
}

// FindActiveByName looks up an active skill by exact case-insensitive name.
// Returns (nil, nil) when no such skill exists.
func (r *SkillRegistry) FindActiveByName(name string) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.
		Where("lower(name) = lower(?) AND is_active = ?", strings.TrimSpace(name), true).
		First(&skill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *SkillRegistry) FindByID(id uint) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.Preload("SubmittedBy").Preload("VerifiedBy").First(&skill, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSkillNotFound
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// SubmitSkillInput is a user-facing skill submission.
type SubmitSkillInput struct {
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description"`
	Aliases     []string `json:"aliases"`
	Tags        []string `json:"tags"`
	Level       string   `json:"level"`
}

// Submit creates a new unverified, active skill. The name is normalized to
// title case first; the unique index is the final arbiter for duplicates.
func (r *SkillRegistry) Submit(in SubmitSkillInput, submittedBy *uint) (*models.Skill, error) {
	if !models.ValidSkillCategory(in.Category) {
		return nil, ErrBadCategory
	}
	if !models.ValidSkillLevel(in.Level) {
		return nil, ErrBadLevel
	}

	skill := models.Skill{
		Name:          models.NormalizeSkillName(in.Name),
		Category:      in.Category,
		Description:   in.Description,
		Aliases:       models.ToStringList(in.Aliases),
		Tags:          models.ToStringList(in.Tags),
		Level:         in.Level,
		IsVerified:    false,
		IsActive:      true,
		UsageCount:    0,
		SubmittedByID: submittedBy,
		RelatedSkills: models.ToUintList(nil),
	}
	if err := r.db.Create(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSkillExists
		}
		return nil, err
	}
	return &skill, nil
}

// ListSkillsOptions mirrors the public listing endpoint's query parameters.
type ListSkillsOptions struct {
	Category string
	Search   string
	Verified *bool
	Limit    int
	Page     int
}

// List queries active skills. Defaults to verified ones; sorted by usage then
// name.
func (r *SkillRegistry) List(opts ListSkillsOptions) ([]models.Skill, int64, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 50
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}

	q := r.db.Model(&models.Skill{}).Where("is_active = ?", true)
	if opts.Verified != nil {
		q = q.Where("is_verified = ?", *opts.Verified)
	} else {
		q = q.Where("is_verified = ?", true)
	}

	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.Where(
			"name ILIKE ? OR description ILIKE ? OR aliases::text ILIKE ? OR tags::text ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if opts.Category != "" {
		q = q.Where("category = ?", opts.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var skills []models.Skill
	err := q.Order("usage_count DESC, name ASC").
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&skills).Error
	return skills, total, err
}

// AdminList pages skills by verification status for the moderation panel.
func (r *SkillRegistry) AdminList(status string, limit, page int) ([]models.Skill, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}

	q := r.db.Model(&models.Skill{}).Where("is_active = ?", true)
	switch status {
	case "pending":
		q = q.Where("is_verified = ?", false)
	case "verified":
		q = q.Where("is_verified = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var skills []models.Skill
	err := q.Preload("SubmittedBy").Preload("VerifiedBy").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&skills).Error
	return skills, total, err
}

// Categories returns the distinct categories present among verified skills.
func (r *SkillRegistry) Categories() ([]string, error) {
	var categories []string
	err := r.db.Model(&models.Skill{}).
		Where("is_verified = ? AND is_active = ?", true, true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

// Popular returns verified skills with at least one user, most used first.
func (r *SkillRegistry) Popular(limit int) ([]models.Skill, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var skills []models.Skill
	err := r.db.
		Where("is_verified = ? AND is_active = ? AND usage_count > ?", true, true, 0).
		Order("usage_count DESC").
		Limit(limit).
		Find(&skills).Error
	return skills, err
}

// Autocomplete matches verified skills by name or alias substring. Queries
// shorter than two characters return nothing.
func (r *SkillRegistry) Autocomplete(query string, limit int) ([]models.Skill, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []models.Skill{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	pattern := "%" + query + "%"
	var skills []models.Skill
	err := r.db.
		Select("id, name, category, usage_count").
		Where("is_verified = ? AND is_active = ?", true, true).
		Where("name ILIKE ? OR aliases::text ILIKE ?", pattern, pattern).
		Order("usage_count DESC, name ASC").
		Limit(limit).
		Find(&skills).Error
	return skills, err
}

// AdminSkillUpdate carries the fields an admin may change. Nil means "leave
// as is".
type AdminSkillUpdate struct {
	Name          *string   `json:"name"`
	Category      *string   `json:"category"`
	Description   *string   `json:"description"`
	Aliases       *[]string `json:"aliases"`
	Tags          *[]string `json:"tags"`
	Level         *string   `json:"level"`
	IsVerified    *bool     `json:"isVerified"`
	IsActive      *bool     `json:"isActive"`
	RelatedSkills *[]uint   `json:"relatedSkills"`
}

// Update applies an admin edit. Verifying a previously unverified skill stamps
// verifiedBy and verifiedAt; verifiedAt is never overwritten once set.
func (r *SkillRegistry) Update(id uint, in AdminSkillUpdate, adminID uint) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		skill.Name = models.NormalizeSkillName(*in.Name)
	}
	if in.Category != nil {
		if !models.ValidSkillCategory(*in.Category) {
			return nil, ErrBadCategory
		}
		skill.Category = *in.Category
	}
	if in.Description != nil {
		skill.Description = *in.Description
	}
	if in.Aliases != nil {
		skill.Aliases = models.ToStringList(*in.Aliases)
	}
	if in.Tags != nil {
		skill.Tags = models.ToStringList(*in.Tags)
	}
	if in.Level != nil {
		if !models.ValidSkillLevel(*in.Level) {
			return nil, ErrBadLevel
		}
		skill.Level = *in.Level
	}
	if in.RelatedSkills != nil {
		skill.RelatedSkills = models.ToUintList(*in.RelatedSkills)
	}
	if in.IsActive != nil {
		skill.IsActive = *in.IsActive
	}
	if in.IsVerified != nil {
		if *in.IsVerified && !skill.IsVerified {
			skill.IsVerified = true
			skill.VerifiedByID = &adminID
			if skill.VerifiedAt == nil {
				now := time.Now()
				skill.VerifiedAt = &now
			}
		} else if !*in.IsVerified {
			skill.IsVerified = false
		}
	}

	if err := r.db.Save(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSkillExists
		}
		return nil, err
	}
	return &skill, nil
}

// Deactivate soft-deletes a skill. Rows are never hard-deleted.
func (r *SkillRegistry) Deactivate(id uint) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	if err := r.db.Model(&skill).Update("is_active", false).Error; err != nil {
		return nil, err
	}
	skill.IsActive = false
	return &skill, nil
}

// AdjustUsage shifts usageCount by delta for the named verified, active
// skills. Decrements only apply to rows with a positive count, so the counter
// can never go negative.
func (r *SkillRegistry) AdjustUsage(names []string, delta int) error {
	if len(names) == 0 || delta == 0 {
		return nil
	}
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}

	q := r.db.Model(&models.Skill{}).
		Where("lower(name) IN ? AND is_verified = ? AND is_active = ?", lowered, true, true)
	if delta < 0 {
		q = q.Where("usage_count > ?", 0)
	}
	return q.UpdateColumn("usage_count", gorm.Expr("usage_count + ?", delta)).Error
}

// CountByStatus returns verified and pending counts for the status endpoint.
func (r *SkillRegistry) CountByStatus() (verified, pending int64, err error) {
	if err = r.db.Model(&models.Skill{}).
		Where("is_verified = ? AND is_active = ?", true, true).
		Count(&verified).Error; err != nil {
		return
	}
	err = r.db.Model(&models.Skill{}).
		Where("is_verified = ? AND is_active = ?", false, true).
		Count(&pending).Error
	return
}
