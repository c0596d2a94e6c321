package middleware

import (
	"net/http"
	"strings"
	"time"

	"ticketflow/internal/shared/config"
	"ticketflow/internal/shared/utils/response"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// JWTAuthWithConfig validates the bearer access token and stores the
// caller identity in the gin context.
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		claims, err := parseAccessToken(parts[1], cfg.JWT.Secret)
		if err != nil {
			logger.GetDefault().LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims["user_id"])
		c.Set(ContextUserEmail, claims["email"])
		c.Set(ContextUserRole, claims["role"])
		c.Next()
	}
}

func parseAccessToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrInvalidKeyType
	}
	if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
		return nil, jwt.NewValidationError("invalid token type", jwt.ValidationErrorClaimsInvalid)
	}
	if role, _ := claims["role"].(string); !users.IsValidRole(role) {
		return nil, jwt.NewValidationError("unknown role", jwt.ValidationErrorClaimsInvalid)
	}
	return claims, nil
}

// RequireRoles checks that the caller holds any of the given roles
func RequireRoles(requiredRoles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextUserRole)
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		for _, r := range requiredRoles {
			if role == string(r) {
				c.Next()
				return
			}
		}

		response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		c.Abort()
	}
}

// RequireAdmin middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(users.RoleAdmin)
}

// CurrentIdentity returns the caller identity set by JWTAuthWithConfig.
func CurrentIdentity(c *gin.Context) (users.Identity, bool) {
	rawID, ok := c.Get(ContextUserID)
	if !ok {
		return users.Identity{}, false
	}
	idStr, _ := rawID.(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return users.Identity{}, false
	}

	rawRole, _ := c.Get(ContextUserRole)
	role, _ := rawRole.(string)
	return users.Identity{UserID: id, Role: users.Role(role)}, true
}

// MustIdentity writes a 401 and returns false when no identity is present.
func MustIdentity(c *gin.Context) (users.Identity, bool) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return users.Identity{}, false
	}
	return identity, true
}

// GenerateAccessToken signs an access token carrying the claims read by
// JWTAuthWithConfig. Login lives outside this service; the seed command
// uses this to hand out development tokens.
func GenerateAccessToken(secret string, user *users.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    string(user.Role),
		"type":    "access",
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
