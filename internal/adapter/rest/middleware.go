package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/staybooking/listing-service/internal/platform/logger"
)

// userIDContextKey is where the auth middleware stores the authenticated user
// id on the echo context.
const userIDContextKey = "authenticatedUserID"

// Claims is the token payload minted by the user service.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTAuth verifies the bearer token and stores the caller's user id on the
// request context. Identity issuance lives in the user service; this only
// checks the shared-secret signature.
func JWTAuth(jwtSecret string, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization token is not provided")
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization token format is invalid, expected 'Bearer <token>'")
			}
			tokenString := parts[1]

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				log.Warn("JWTAuth: token validation failed", "path", c.Path(), "error", errString(err))
				return echo.NewHTTPError(http.StatusUnauthorized, "token is invalid")
			}
			if claims.UserID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "user id not found in token claims")
			}

			c.Set(userIDContextKey, claims.UserID)
			return next(c)
		}
	}
}

// RequestLogger logs every request with its duration and outcome.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			if err != nil {
				log.Error("HTTP request failed",
					"method", c.Request().Method, "path", c.Path(), "duration", duration.String(), "error", err.Error())
			} else {
				log.Info("HTTP request completed",
					"method", c.Request().Method, "path", c.Path(), "status", c.Response().Status, "duration", duration.String())
			}
			return err
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// callerID returns the authenticated user id the middleware stored earlier.
func callerID(c echo.Context) (string, error) {
	id, ok := c.Get(userIDContextKey).(string)
	if !ok || id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "user authentication required")
	}
	return id, nil
}
