package routes

import (
	"net/http"
	"os"
	"testing"

	"skillswap-server/models"
	"skillswap-server/services"
	"skillswap-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

func buildProfileApp(db *gorm.DB) *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	userHandler := NewUserHandler(db, services.NewSkillRegistry(db), nil)
	user := app.Party("/api/user", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		user.Put("/profile", userHandler.UpdateProfile)
	}
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

// A profile update that lists a skill by alias must store the canonical
// registry name and move its usage counter, both on add and on removal.
func TestUpdateProfileCanonicalizesAliases(t *testing.T) {
	db := openTestDB(t)
	app := buildProfileApp(db)

	skill := models.Skill{
		Name:          "JavaScript",
		Category:      "Programming Languages",
		Aliases:       models.ToStringList([]string{"JS"}),
		Tags:          models.ToStringList(nil),
		RelatedSkills: models.ToUintList(nil),
		IsVerified:    true,
		IsActive:      true,
	}
	if err := db.Create(&skill).Error; err != nil {
		t.Fatalf("seed skill: %v", err)
	}
	user := models.User{Name: "Dana", Email: "dana@example.com", PasswordHash: "x", Location: "Lagos", Role: "user"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token := signTestToken(user.ID, "user")

	resp := doJSON(t, app, http.MethodPut, "/api/user/profile", token, `{"skillsOffered":["JS"]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got := stored.SkillsOfferedList(); len(got) != 1 || got[0] != "JavaScript" {
		t.Fatalf("stored skillsOffered = %v, want [JavaScript]", got)
	}
	if err := db.First(&skill, skill.ID).Error; err != nil {
		t.Fatalf("reload skill: %v", err)
	}
	if skill.UsageCount != 1 {
		t.Fatalf("usage count after add = %d, want 1", skill.UsageCount)
	}

	// Dropping the skill walks the counter back down.
	resp = doJSON(t, app, http.MethodPut, "/api/user/profile", token, `{"skillsOffered":[]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if err := db.First(&skill, skill.ID).Error; err != nil {
		t.Fatalf("reload skill: %v", err)
	}
	if skill.UsageCount != 0 {
		t.Fatalf("usage count after removal = %d, want 0", skill.UsageCount)
	}
}

// A name listed both raw and as a custom submission must end up on the
// profile exactly once, under the custom skill's canonical casing.
func TestUpdateProfileMergesCustomSkillRefs(t *testing.T) {
	db := openTestDB(t)
	app := buildProfileApp(db)

	user := models.User{Name: "Femi", Email: "femi@example.com", PasswordHash: "x", Location: "Abuja", Role: "user"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	body := `{"skillsOffered":["quantum basket weaving"],"customSkillsOffered":[{"name":"quantum basket weaving","category":"Other"}]}`
	resp := doJSON(t, app, http.MethodPut, "/api/user/profile", signTestToken(user.ID, "user"), body)
	if resp.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got := stored.SkillsOfferedList(); len(got) != 1 || got[0] != "Quantum Basket Weaving" {
		t.Fatalf("stored skillsOffered = %v, want exactly [Quantum Basket Weaving]", got)
	}

	var created models.Skill
	if err := db.Where("name = ?", "Quantum Basket Weaving").First(&created).Error; err != nil {
		t.Fatalf("custom skill row: %v", err)
	}
	if created.IsVerified {
		t.Fatal("custom skill must start unverified")
	}
	if created.UsageCount != 0 {
		t.Fatalf("unverified skill usage count = %d, want 0", created.UsageCount)
	}
}
