package routes

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"

	"skillswap-server/models"
	"skillswap-server/services"
	"skillswap-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	letterClass  = regexp.MustCompile(`[A-Za-z]`)
	digitClass   = regexp.MustCompile(`\d`)
)

// UserHandler serves registration, login, profile and browsing.
type UserHandler struct {
	db       *gorm.DB
	registry *services.SkillRegistry
	tokens   *utils.TokenManager
}

func NewUserHandler(db *gorm.DB, registry *services.SkillRegistry, tokens *utils.TokenManager) *UserHandler {
	return &UserHandler{db: db, registry: registry, tokens: tokens}
}

type RegisterInput struct {
	Name                string                 `json:"name"`
	Email               string                 `json:"email"`
	Password            string                 `json:"password"`
	Location            string                 `json:"location"`
	ProfilePhoto        string                 `json:"profilePhoto"`
	SkillsOffered       []string               `json:"skillsOffered"`
	SkillsWanted        []string               `json:"skillsWanted"`
	CustomSkillsOffered []services.CustomSkill `json:"customSkillsOffered"`
	CustomSkillsWanted  []services.CustomSkill `json:"customSkillsWanted"`
	Availability        []string               `json:"availability"`
	IsPublic            *bool                  `json:"isPublic"`
}

// Register creates a user after resolving the supplied skill lists against
// the registry. Custom skills become unverified registry rows inside the same
// transaction as the user; usage counters adjust best-effort after commit.
func (h *UserHandler) Register(ctx iris.Context) {
	var input RegisterInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" || input.Location == "" {
		utils.JSONError(ctx, http.StatusBadRequest, "Missing required fields", "Name, email, password, and location are required")
		return
	}
	if !emailPattern.MatchString(input.Email) {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid email format", "Please provide a valid email address")
		return
	}
	if len(input.Password) < 8 {
		utils.JSONError(ctx, http.StatusBadRequest, "Weak password", "Password must be at least 8 characters long")
		return
	}
	if !containsLetterAndDigit(input.Password) {
		utils.JSONError(ctx, http.StatusBadRequest, "Weak password", "Password must contain at least one letter and one number")
		return
	}
	if !models.ValidAvailability(input.Availability) {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid availability", "Unknown availability option")
		return
	}

	offered := models.NormalizeSkillList(input.SkillsOffered)
	wanted := models.NormalizeSkillList(input.SkillsWanted)
	if len(offered) > models.MaxSkillsPerList || len(wanted) > models.MaxSkillsPerList {
		utils.JSONError(ctx, http.StatusBadRequest, "Too many skills", "Cannot list more than 20 skills")
		return
	}

	email := strings.ToLower(input.Email)
	var existing models.User
	err := h.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		utils.JSONError(ctx, http.StatusConflict, "User already exists", "An account with this email already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	validator := services.NewSkillValidator(h.registry)
	validation := validator.ValidateUserSkills(offered, wanted)
	if !validation.Valid {
		respondSkillValidation(ctx, validation)
		return
	}

	hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	user := models.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hash),
		Location:     input.Location,
		ProfilePhoto: input.ProfilePhoto,
		IsPublic:     input.IsPublic,
		Role:         "user",
	}
	user.SetAvailability(input.Availability)

	var customResult services.CustomSkillResult
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		user.SetSkillsOffered(validation.ValidatedSkillsOffered)
		user.SetSkillsWanted(validation.ValidatedSkillsWanted)
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		txValidator := services.NewSkillValidator(h.registry.WithTx(tx))
		var err error
		customResult, err = txValidator.ProcessCustomSkills(input.CustomSkillsOffered, input.CustomSkillsWanted, user.ID)
		if err != nil {
			return err
		}

		finalOffered := models.NormalizeSkillList(append(validation.ValidatedSkillsOffered, services.RefNames(customResult.OfferedRefs)...))
		finalWanted := models.NormalizeSkillList(append(validation.ValidatedSkillsWanted, services.RefNames(customResult.WantedRefs)...))
		if len(finalOffered) > models.MaxSkillsPerList || len(finalWanted) > models.MaxSkillsPerList {
			return errors.New("skill list limit exceeded")
		}
		user.SetSkillsOffered(finalOffered)
		user.SetSkillsWanted(finalWanted)
		return tx.Model(&user).Updates(map[string]interface{}{
			"skills_offered": user.SkillsOffered,
			"skills_wanted":  user.SkillsWanted,
		}).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			utils.JSONError(ctx, http.StatusConflict, "User already exists", "An account with this email already exists")
			return
		}
		if errors.Is(txErr, services.ErrBadCategory) {
			utils.JSONError(ctx, http.StatusBadRequest, "Invalid category", "Unknown skill category")
			return
		}
		log.Printf("registration failed: %v", txErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	// Usage counters only track verified skills and are not part of the
	// transaction; a failure here is logged, not surfaced.
	verifiedNames := append(append([]string{}, validation.ValidatedSkillsOffered...), validation.ValidatedSkillsWanted...)
	validator.UpdateSkillUsageCounts(nil, verifiedNames)

	pair, tokenErr := h.tokens.CreateTokenPair(user.ID)
	if tokenErr != nil {
		log.Printf("token pair after registration failed: %v", tokenErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	customInfo := make([]iris.Map, 0, len(customResult.Created))
	for _, skill := range customResult.Created {
		customInfo = append(customInfo, iris.Map{
			"name":     skill.Name,
			"category": skill.Category,
			"status":   "pending_verification",
		})
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{
		"success":      true,
		"message":      "User registered successfully",
		"accessToken":  string(pair.AccessToken),
		"refreshToken": string(pair.RefreshToken),
		"user":         &user,
		"customSkillsInfo": iris.Map{
			"submittedForVerification": len(customResult.Created),
			"customSkills":             customInfo,
		},
	})
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and records the attempt in the login log.
func (h *UserHandler) Login(ctx iris.Context) {
	var input LoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		h.logAttempt(ctx, nil, input.Email, false, "Missing credentials")
		utils.JSONError(ctx, http.StatusBadRequest, "Missing credentials", "Email and password are required")
		return
	}
	if !emailPattern.MatchString(input.Email) {
		h.logAttempt(ctx, nil, input.Email, false, "Invalid email format")
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid email format", "Please provide a valid email address")
		return
	}

	var user models.User
	err := h.db.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error
	if err != nil {
		h.logAttempt(ctx, nil, input.Email, false, "User not found")
		utils.JSONError(ctx, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
		return
	}

	if user.IsBanned {
		h.logAttempt(ctx, &user.ID, input.Email, false, "Account banned")
		utils.JSONError(ctx, http.StatusUnauthorized, "Account banned", "Your account has been banned. Please contact support.")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		h.logAttempt(ctx, &user.ID, input.Email, false, "Invalid password")
		utils.JSONError(ctx, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
		return
	}

	pair, tokenErr := h.tokens.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	h.logAttempt(ctx, &user.ID, input.Email, true, "")

	ctx.JSON(iris.Map{
		"success":      true,
		"message":      "Login successful",
		"accessToken":  string(pair.AccessToken),
		"refreshToken": string(pair.RefreshToken),
		"user":         &user,
	})
}

func (h *UserHandler) logAttempt(ctx iris.Context, userID *uint, email string, success bool, reason string) {
	info := utils.ExtractRequestInfo(ctx)
	if email == "" {
		email = "unknown"
	}
	entry := models.LoginLog{
		UserID:        userID,
		Email:         strings.ToLower(email),
		IPAddress:     info.IPAddress,
		UserAgent:     info.UserAgent,
		Browser:       info.Browser,
		OS:            info.OS,
		Device:        info.Device,
		Success:       success,
		FailureReason: reason,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		log.Printf("login log write failed: %v", err)
	}
}

// GetProfile returns the authenticated user's own record.
func (h *UserHandler) GetProfile(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx, "User")
		return
	}
	ctx.JSON(iris.Map{"success": true, "user": &user})
}

type UpdateProfileInput struct {
	Name                *string                `json:"name"`
	Location            *string                `json:"location"`
	ProfilePhoto        *string                `json:"profilePhoto"`
	SkillsOffered       *[]string              `json:"skillsOffered"`
	SkillsWanted        *[]string              `json:"skillsWanted"`
	CustomSkillsOffered []services.CustomSkill `json:"customSkillsOffered"`
	CustomSkillsWanted  []services.CustomSkill `json:"customSkillsWanted"`
	Availability        *[]string              `json:"availability"`
	IsPublic            *bool                  `json:"isPublic"`
}

// UpdateProfile mutates the caller's record. Skill list changes go through
// the same validation pipeline as registration, and usage counters are
// adjusted by the old/new delta after commit.
func (h *UserHandler) UpdateProfile(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx, "User")
		return
	}

	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}

	oldSkills := models.NormalizeSkillList(append(user.SkillsOfferedList(), user.SkillsWantedList()...))

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}
	if input.Location != nil && *input.Location != "" {
		user.Location = *input.Location
	}
	if input.ProfilePhoto != nil {
		user.ProfilePhoto = *input.ProfilePhoto
	}
	if input.IsPublic != nil {
		user.IsPublic = input.IsPublic
	}
	if input.Availability != nil {
		if !models.ValidAvailability(*input.Availability) {
			utils.JSONError(ctx, http.StatusBadRequest, "Invalid availability", "Unknown availability option")
			return
		}
		user.SetAvailability(*input.Availability)
	}

	offered := user.SkillsOfferedList()
	wanted := user.SkillsWantedList()
	skillsChanged := input.SkillsOffered != nil || input.SkillsWanted != nil ||
		len(input.CustomSkillsOffered) > 0 || len(input.CustomSkillsWanted) > 0
	if input.SkillsOffered != nil {
		offered = models.NormalizeSkillList(*input.SkillsOffered)
	}
	if input.SkillsWanted != nil {
		wanted = models.NormalizeSkillList(*input.SkillsWanted)
	}
	if len(offered) > models.MaxSkillsPerList || len(wanted) > models.MaxSkillsPerList {
		utils.JSONError(ctx, http.StatusBadRequest, "Too many skills", "Cannot list more than 20 skills")
		return
	}

	validator := services.NewSkillValidator(h.registry)
	if skillsChanged {
		validation := validator.ValidateUserSkills(offered, wanted)
		if !validation.Valid {
			// No invalid names means the registry lookup itself failed.
			if len(validation.InvalidSkills) == 0 {
				respondSkillValidation(ctx, validation)
				return
			}
			// Unverified names already on the profile stay valid: only names
			// that are neither verified nor known custom entries fail.
			known := append(user.SkillsOfferedList(), user.SkillsWantedList()...)
			stillInvalid := []string{}
			for _, name := range validation.InvalidSkills {
				if !containsFold(known, name) && !customListed(input.CustomSkillsOffered, input.CustomSkillsWanted, name) {
					stillInvalid = append(stillInvalid, name)
				}
			}
			if len(stillInvalid) > 0 {
				validation.InvalidSkills = stillInvalid
				respondSkillValidation(ctx, validation)
				return
			}
		}

		// Stored lists carry canonical registry names, so an alias like "JS"
		// becomes "JavaScript" on write and usage counters can match by name.
		offered = canonicalSkillNames(offered, validation.Canonical)
		wanted = canonicalSkillNames(wanted, validation.Canonical)

		txErr := h.db.Transaction(func(tx *gorm.DB) error {
			txValidator := services.NewSkillValidator(h.registry.WithTx(tx))
			customResult, err := txValidator.ProcessCustomSkills(input.CustomSkillsOffered, input.CustomSkillsWanted, user.ID)
			if err != nil {
				return err
			}
			offered = mergeSkillRefs(offered, customResult.OfferedRefs)
			wanted = mergeSkillRefs(wanted, customResult.WantedRefs)
			user.SetSkillsOffered(offered)
			user.SetSkillsWanted(wanted)
			return tx.Save(&user).Error
		})
		if txErr != nil {
			if errors.Is(txErr, services.ErrBadCategory) {
				utils.JSONError(ctx, http.StatusBadRequest, "Invalid category", "Unknown skill category")
				return
			}
			log.Printf("profile update failed: %v", txErr)
			utils.CreateInternalServerError(ctx)
			return
		}

		newSkills := models.NormalizeSkillList(append(user.SkillsOfferedList(), user.SkillsWantedList()...))
		validator.UpdateSkillUsageCounts(oldSkills, newSkills)
	} else {
		if err := h.db.Save(&user).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(iris.Map{"success": true, "message": "Profile updated successfully", "user": &user})
}

// ListUsers is the public browse endpoint: public, non-banned profiles with
// search, skill and location filters.
func (h *UserHandler) ListUsers(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := ctx.URLParamIntDefault("page", 1)
	if page <= 0 {
		page = 1
	}

	q := h.db.Model(&models.User{}).
		Where("is_banned = ?", false).
		Where("is_public IS NULL OR is_public = ?", true)

	if search := ctx.URLParam("search"); search != "" {
		pattern := "%" + search + "%"
		q = q.Where("name ILIKE ? OR location ILIKE ?", pattern, pattern)
	}
	if skill := ctx.URLParam("skill"); skill != "" {
		pattern := "%" + skill + "%"
		q = q.Where("skills_offered::text ILIKE ? OR skills_wanted::text ILIKE ?", pattern, pattern)
	}
	if location := ctx.URLParam("location"); location != "" {
		q = q.Where("location ILIKE ?", "%"+location+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var users []models.User
	if err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	out := make([]iris.Map, 0, len(users))
	for i := range users {
		out = append(out, publicUserView(&users[i]))
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"users":      out,
			"pagination": utils.NewPagination(page, limit, len(out), total),
		},
	})
}

// GetUser returns one public profile.
func (h *UserHandler) GetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid user ID", "The provided user ID is not valid")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx, "User")
		return
	}
	if user.IsBanned {
		utils.CreateNotFound(ctx, "User")
		return
	}
	if !user.Public() {
		utils.JSONError(ctx, http.StatusForbidden, "Profile is private", "This user's profile is set to private")
		return
	}

	ctx.JSON(iris.Map{"success": true, "user": publicUserView(&user)})
}

// publicUserView strips fields that must not leak on public endpoints.
func publicUserView(u *models.User) iris.Map {
	visibility := "private"
	if u.Public() {
		visibility = "public"
	}
	return iris.Map{
		"id":                u.ID,
		"name":              u.Name,
		"location":          u.Location,
		"profilePhoto":      u.ProfilePhoto,
		"skillsOffered":     u.SkillsOfferedList(),
		"skillsWanted":      u.SkillsWantedList(),
		"availability":      u.AvailabilityList(),
		"profileVisibility": visibility,
		"createdAt":         u.CreatedAt,
	}
}

func respondSkillValidation(ctx iris.Context, v services.ValidationResult) {
	ctx.StatusCode(http.StatusBadRequest)
	ctx.JSON(iris.Map{
		"error":         "Invalid skills",
		"message":       v.Message,
		"invalidSkills": v.InvalidSkills,
		"suggestions":   v.Suggestions,
	})
}

func containsLetterAndDigit(s string) bool {
	return letterClass.MatchString(s) && digitClass.MatchString(s)
}

// canonicalSkillNames rewrites each supplied name to its canonical registry
// form. Names the registry does not know pass through unchanged; those are
// carried-over unverified entries or custom submissions resolved later.
func canonicalSkillNames(names []string, canonical map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if resolved, ok := canonical[name]; ok {
			name = resolved
		}
		out = append(out, name)
	}
	return models.NormalizeSkillList(out)
}

// mergeSkillRefs folds resolved custom-skill refs into a name list. A supplied
// name matching a ref case-insensitively is replaced by the ref's canonical
// form, so one skill cannot appear under two casings.
func mergeSkillRefs(names []string, refs []services.SkillRef) []string {
	for i, name := range names {
		for _, ref := range refs {
			if strings.EqualFold(name, ref.Name) {
				names[i] = ref.Name
				break
			}
		}
	}
	return models.NormalizeSkillList(append(names, services.RefNames(refs)...))
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func customListed(offered, wanted []services.CustomSkill, name string) bool {
	for _, c := range append(append([]services.CustomSkill{}, offered...), wanted...) {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return true
		}
	}
	return false
}
