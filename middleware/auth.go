package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moringadesk/moringadesk/models"
	"github.com/moringadesk/moringadesk/utils"
)

const (
	// ContextActorKey is the key used to store the resolved Actor in Gin context.
	ContextActorKey = "actor"
)

// Actor is the authenticated identity performing a request, resolved from a
// verified bearer credential before any handler runs.
type Actor struct {
	ID       uint
	Username string
	Role     string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// AuthRequired ensures the request is authenticated via JWT and attaches the
// Actor to the request context. Handlers declare the capability they need by
// stacking AuthRequired (member) or AuthRequired+AdminRequired (admin).
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			code, msg := credentialErrorResponse(err)
			utils.Error(ctx, http.StatusUnauthorized, code, msg)
			ctx.Abort()
			return
		}

		ctx.Set(ContextActorKey, Actor{
			ID:       claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		ctx.Next()
	}
}

// AdminRequired gates a route to admin actors. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor, ok := GetActor(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
			ctx.Abort()
			return
		}
		if !actor.IsAdmin() {
			utils.Error(ctx, http.StatusForbidden, 40310, "admin access required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// GetActor returns the Actor attached by AuthRequired.
func GetActor(ctx *gin.Context) (Actor, bool) {
	value, exists := ctx.Get(ContextActorKey)
	if !exists {
		return Actor{}, false
	}
	actor, ok := value.(Actor)
	return actor, ok
}

func credentialErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, utils.ErrCredentialMissing):
		return 40103, "empty bearer token"
	case errors.Is(err, utils.ErrCredentialExpired):
		return 40106, "token expired"
	case errors.Is(err, utils.ErrCredentialInvalidSignature):
		return 40107, "invalid token signature"
	default:
		return 40105, "invalid token"
	}
}
