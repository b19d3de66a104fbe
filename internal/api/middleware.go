package api

import (
	"errors"
	"fmt"
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/repository"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserKey     = "currentUser"
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
)

// jwtClaims mirrors the payload produced by authService.generateJWT.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// parseBearerToken extracts and validates the JWT from the Authorization
// header. It returns the claims or a message suitable for a 401 response.
func parseBearerToken(c *gin.Context, jwtSecret string) (*jwtClaims, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "Access token is required"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, "Authorization header format must be Bearer {token}"
	}

	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, "Token has expired"
		}
		return nil, "Invalid token"
	}
	if !token.Valid || claims.UserID == "" {
		return nil, "Invalid token"
	}

	return claims, ""
}

// AuthMiddleware creates a Gin middleware for JWT authentication. The user is
// loaded from the database so downstream handlers see current role and ban
// state rather than stale token claims; banned accounts are rejected.
func AuthMiddleware(jwtSecret string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, failMsg := parseBearerToken(c, jwtSecret)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, failMsg)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abortWithError(c, http.StatusUnauthorized, "User not found")
				return
			}
			abortWithError(c, http.StatusInternalServerError, "Authentication error")
			return
		}

		if user.IsBanned {
			abortWithError(c, http.StatusForbidden, "Account is banned")
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID.Hex())
		c.Set(ContextUserRoleKey, user.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves an identity when a valid token is supplied
// but treats an absent or invalid token as an anonymous request. A valid
// token for a banned account is still rejected so bans cover the
// anonymous-allowed mutation endpoints too.
func OptionalAuthMiddleware(jwtSecret string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := parseBearerToken(c, jwtSecret)
		if claims == nil {
			c.Next()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			// A deleted account falls back to anonymous; an infrastructure
			// failure must not.
			if errors.Is(err, repository.ErrNotFound) {
				c.Next()
				return
			}
			abortWithError(c, http.StatusInternalServerError, "Authentication error")
			return
		}

		if user.IsBanned {
			abortWithError(c, http.StatusForbidden, "Account is banned")
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID.Hex())
		c.Set(ContextUserRoleKey, user.Role)
		c.Next()
	}
}

// RoleMiddleware creates middleware to check if user has the required role(s).
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleRaw, exists := c.Get(ContextUserRoleKey)
		if !exists {
			abortWithError(c, http.StatusInternalServerError, "User role not found in context")
			return
		}

		userRole, ok := roleRaw.(domain.Role)
		if !ok {
			abortWithError(c, http.StatusInternalServerError, "Invalid user role type in context")
			return
		}

		for _, allowed := range allowedRoles {
			if userRole == allowed {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", userRole))
	}
}

// getCurrentUser returns the authenticated user set by AuthMiddleware or
// OptionalAuthMiddleware. ok is false on anonymous requests.
func getCurrentUser(c *gin.Context) (*domain.User, bool) {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*domain.User)
	return user, ok
}

// getCurrentUserID returns the authenticated user's id, if any.
func getCurrentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	user, ok := getCurrentUser(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	return user.ID, true
}
