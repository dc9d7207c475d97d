package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts the user ID from the JWT and stores it in
// the request values for downstream handlers.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// AdminOnlyMiddleware ensures the requester has the admin role.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// ContextUserID returns the authenticated user id stored by the middleware.
func ContextUserID(ctx iris.Context) uint {
	if v, err := ctx.Values().GetUint("userID"); err == nil {
		return uint(v)
	}
	return 0
}

// ContextClaims returns the verified access-token claims, or nil when the
// route ran without the verifier.
func ContextClaims(ctx iris.Context) *AccessToken {
	tok := jwt.Get(ctx)
	if tok == nil {
		return nil
	}
	claims, ok := tok.(*AccessToken)
	if !ok {
		return nil
	}
	return claims
}
