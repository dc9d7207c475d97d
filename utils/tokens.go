package utils

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"skillswap-server/models"

	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

var bgContext = context.Background()

// AccessToken is the claim set embedded in access tokens.
type AccessToken struct {
	ID   uint   `json:"ID"`
	Role string `json:"role"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenManager signs access/refresh token pairs and tracks refresh tokens in
// Redis so they can be revoked and rotated.
type TokenManager struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewTokenManager(db *gorm.DB, redis *redis.Client) *TokenManager {
	return &TokenManager{db: db, redis: redis}
}

func (t *TokenManager) CreateTokenPair(id uint) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 24*time.Hour)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"), 365*24*time.Hour)

	// Embed the role so admin checks don't need a query per request
	role := "user"
	var u models.User
	if err := t.db.Select("id, role").First(&u, id).Error; err == nil && u.Role != "" {
		role = u.Role
	}

	accessToken, err := accessTokenSigner.Sign(AccessToken{ID: id, Role: role})
	if err != nil {
		return nil, err
	}

	userID := strconv.FormatUint(uint64(id), 10)
	refreshToken, err := refreshTokenSigner.Sign(jwt.Claims{Subject: userID})
	if err != nil {
		return nil, err
	}

	var pair jwt.TokenPair
	pair.AccessToken = accessToken
	pair.RefreshToken = refreshToken

	t.redis.Set(bgContext, string(refreshToken), "true", 365*24*time.Hour+5*time.Minute)

	return &pair, nil
}

// Refresh rotates a verified refresh token for a new pair. Used tokens are
// deleted so each refresh token works exactly once.
func (t *TokenManager) Refresh(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)

	valid, err := t.redis.Get(bgContext, tokenStr).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			JSONError(ctx, iris.StatusUnauthorized, "Invalid token", "Refresh token is unknown or already used")
			return
		}
		CreateInternalServerError(ctx)
		return
	}
	if valid != "true" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	t.redis.Del(bgContext, tokenStr)
	userID, parseErr := strconv.ParseUint(token.StandardClaims.Subject, 10, 32)
	if parseErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	pair, pairErr := t.CreateTokenPair(uint(userID))
	if pairErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"accessToken":  string(pair.AccessToken),
		"refreshToken": string(pair.RefreshToken),
	})
}
