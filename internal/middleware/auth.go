// Package middleware provides authentication, logging, and rate limiting
// middleware for the application.
package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"bookclub/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var (
	cfg *config.Config
	rdb *redis.Client
)

// InitMiddleware initializes authentication middleware with the given config
// and an optional Redis client used for the token denylist.
func InitMiddleware(c *config.Config, r *redis.Client) {
	cfg = c
	rdb = r
}

// DenylistKey is the Redis key holding a revoked token ID.
func DenylistKey(jti string) string {
	return "jwt:denylist:" + jti
}

// DenyToken revokes a token ID until its expiry.
func DenyToken(ctx context.Context, r *redis.Client, jti string, until time.Time) error {
	if r == nil || jti == "" {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.Set(ctx, DenylistKey(jti), "1", ttl).Err()
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
		"code":  "UNAUTHORIZED",
	})
}

// parseBearer validates the Authorization header and returns the verified claims.
func parseBearer(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	if rdb != nil {
		if jti, _ := claims["jti"].(string); jti != "" {
			if n, derr := rdb.Exists(c.Context(), DenylistKey(jti)).Result(); derr == nil && n > 0 {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Token has been revoked")
			}
		}
	}

	return claims, nil
}

func userIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	subClaim, ok := claims["sub"]
	if !ok {
		return 0, false
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return 0, false
	}
	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(userIDVal), true
}

// AuthRequired is a middleware that enforces authentication for protected routes.
// A missing or invalid credential is 401; capability and ownership checks happen
// later and report 403.
func AuthRequired(c *fiber.Ctx) error {
	claims, err := parseBearer(c)
	if err != nil {
		msg := "Invalid or expired token"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			msg = fe.Message
		}
		return unauthorized(c, msg)
	}

	userID, ok := userIDFromClaims(claims)
	if !ok {
		return unauthorized(c, "Invalid token subject")
	}

	c.Locals("userID", userID)
	// Sync to the request context so the context-aware logger sees it.
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
	if jti, _ := claims["jti"].(string); jti != "" {
		c.Locals("jti", jti)
	}
	if exp, eerr := claims.GetExpirationTime(); eerr == nil && exp != nil {
		c.Locals("tokenExp", exp.Time)
	}

	return c.Next()
}

// OptionalAuth populates the principal when a valid bearer token is presented
// and passes the request through anonymously otherwise. Read endpoints use it
// so anonymous callers still get 200.
func OptionalAuth(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	claims, err := parseBearer(c)
	if err != nil {
		return c.Next()
	}
	if userID, ok := userIDFromClaims(claims); ok {
		c.Locals("userID", userID)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
	}
	return c.Next()
}
