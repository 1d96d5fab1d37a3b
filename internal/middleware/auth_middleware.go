package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel_platform_backend/internal/models"
	"hotel_platform_backend/pkg/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID    = "userID"
	ContextUsername  = "username"
	ContextUserRole  = "userRole"
	ContextBranchID  = "branchID"
	ContextActorName = "actorName"
)

// ErrBranchOutOfScope is returned by ScopedBranch when a branch-bound user names another branch.
var ErrBranchOutOfScope = errors.New("branch is outside the caller's scope")

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			return
		}

		// Set user information in the context for downstream handlers
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextBranchID, claims.BranchID)
		c.Set(ContextActorName, claims.ActorName())

		c.Next()
	}
}

// RoleAuthMiddleware creates a Gin middleware for role-based authorization.
// It checks if the user role (from JWT claims) is one of the allowed roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleStr := c.GetString(ContextUserRole)
		if roleStr == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "User role not found in token claims", ""))
			return
		}

		for _, r := range allowedRoles {
			if strings.EqualFold(roleStr, r) {
				c.Next()
				return
			}
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
			"You do not have permission to access this resource. Required roles: "+strings.Join(allowedRoles, ", "), ""))
	}
}

// BranchScopeMiddleware rejects branch-bound users whose token carries no branch.
// Admins are unrestricted.
func BranchScopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c) {
			c.Next()
			return
		}
		if c.GetString(ContextBranchID) == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Account is not assigned to a branch", ""))
			return
		}
		c.Next()
	}
}

// IsAdmin reports whether the authenticated user has the Admin role.
func IsAdmin(c *gin.Context) bool {
	return strings.EqualFold(c.GetString(ContextUserRole), models.RoleAdmin)
}

// ScopedBranch resolves the branch a request may act on. Admins get requested unchanged;
// branch-bound users get their own branch, and naming any other branch is an error.
func ScopedBranch(c *gin.Context, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if IsAdmin(c) {
		return requested, nil
	}
	own := c.GetString(ContextBranchID)
	if requested != "" && requested != own {
		return "", ErrBranchOutOfScope
	}
	return own, nil
}

// RestrictedBranch is the branch a non-admin caller is bound to, or empty for admins.
func RestrictedBranch(c *gin.Context) string {
	if IsAdmin(c) {
		return ""
	}
	return c.GetString(ContextBranchID)
}

// ActorName is the display name of the authenticated user.
func ActorName(c *gin.Context) string {
	if name := c.GetString(ContextActorName); name != "" {
		return name
	}
	return c.GetString(ContextUsername)
}
