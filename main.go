package main

import (
	"fmt"
	"log"
	"os"

	"skillswap-server/routes"
	"skillswap-server/services"
	"skillswap-server/storage"
	"skillswap-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()

	db, err := storage.Connect(os.Getenv("DB_CONNECTION_STRING"))
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	redisClient := storage.NewRedis(os.Getenv("REDIS_URL"))

	registry := services.NewSkillRegistry(db)
	tokens := utils.NewTokenManager(db, redisClient)

	userHandler := routes.NewUserHandler(db, registry, tokens)
	skillHandler := routes.NewSkillHandler(db, registry)
	swapHandler := routes.NewSwapHandler(db)
	feedbackHandler := routes.NewFeedbackHandler(db)
	loginLogHandler := routes.NewLoginLogHandler(db)
	adminSkillHandler := routes.NewAdminSkillHandler(db, registry)
	adminUserHandler := routes.NewAdminUserHandler(db)
	adminStatsHandler := routes.NewAdminStatsHandler(db)
	adminExportHandler := routes.NewAdminExportHandler(db)

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Runs the access-token verifier only when a credential is supplied, so
	// public endpoints can attribute requests from logged-in callers.
	optionalAccessMiddleware := func(ctx iris.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()
			return
		}
		accessTokenVerifierMiddleware(ctx)
	}

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", userHandler.Register)
		user.Post("/login", userHandler.Login)
		user.Get("/profile", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, userHandler.GetProfile)
		user.Put("/profile", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, userHandler.UpdateProfile)
	}

	users := app.Party("/api/users")
	{
		users.Get("/", userHandler.ListUsers)
		users.Get("/{id:uint}", userHandler.GetUser)
	}

	skills := app.Party("/api/skills")
	{
		skills.Get("/", skillHandler.ListSkills)
		skills.Get("/autocomplete", skillHandler.Autocomplete)
		skills.Get("/categories", skillHandler.Categories)
		skills.Get("/status", skillHandler.Status)
		skills.Get("/my-skills", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, skillHandler.MySkills)
		skills.Get("/{id:uint}", optionalAccessMiddleware, skillHandler.GetSkill)
		skills.Post("/", optionalAccessMiddleware, skillHandler.SubmitSkill)
		skills.Post("/suggest", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, skillHandler.SubmitSkill)
	}

	swaps := app.Party("/api/swaps", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		swaps.Post("/", swapHandler.CreateSwap)
		swaps.Get("/", swapHandler.ListSwaps)
		swaps.Get("/{id:uint}", swapHandler.GetSwap)
		swaps.Post("/{id:uint}/accept", swapHandler.AcceptSwap)
		swaps.Post("/{id:uint}/reject", swapHandler.RejectSwap)
		swaps.Post("/{id:uint}/complete", swapHandler.CompleteSwap)
		swaps.Delete("/{id:uint}", swapHandler.DeleteSwap)
	}

	feedback := app.Party("/api/feedback", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		feedback.Post("/", feedbackHandler.CreateFeedback)
		feedback.Get("/", feedbackHandler.ListFeedback)
		feedback.Get("/swap/{id:uint}", feedbackHandler.ListSwapFeedback)
	}

	app.Get("/api/login-logs", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, loginLogHandler.ListLoginLogs)

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/skills", adminSkillHandler.ListSkills)
		admin.Put("/skills/{id:uint}", adminSkillHandler.UpdateSkill)
		admin.Delete("/skills/{id:uint}", adminSkillHandler.DeleteSkill)
		admin.Post("/skills/seed", adminSkillHandler.SeedSkills)
		admin.Get("/users", adminUserHandler.ListUsers)
		admin.Get("/users/{id:uint}", adminUserHandler.GetUser)
		admin.Post("/users/{id:uint}/ban", adminUserHandler.BanUser)
		admin.Post("/users/{id:uint}/unban", adminUserHandler.UnbanUser)
		admin.Get("/stats", adminStatsHandler.Stats)
		admin.Get("/activity", adminStatsHandler.Activity)
		admin.Post("/export", adminExportHandler.CreateExport)
		admin.Get("/export/{id:string}", adminExportHandler.GetExport)
		admin.Get("/export/{id:string}/download", adminExportHandler.DownloadExport)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, tokens.Refresh)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
