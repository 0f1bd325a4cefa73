package middleware

import (
	"net/http"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"
	"fincore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// Header carrying the caller's device fingerprint, fed to the
	// device-trust risk check.
	HeaderDeviceID = "X-Device-ID"

	// Header echoing the request correlation ID.
	HeaderRequestID = "X-Request-ID"

	// Context keys
	CtxActor     = "actor"
	CtxRequestID = "request_id"
)

// Actor returns the authenticated actor set by JWTAuth.
func Actor(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(CtxActor)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

// JWTAuth validates bearer tokens and stores the resulting actor in the
// request context. When sessionIPs is non-nil the client IP is recorded
// into the actor's session ring after the handler ran, so the
// suspicious-IP check always sees the ring as it was before this
// request.
func JWTAuth(tokenSvc ports.TokenService, sessionIPs ports.SessionIPStore, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		tokenStr := authHeader[7:]
		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		actor := domain.Actor{ID: claims.ProfileID, Role: claims.Role}
		c.Set(CtxActor, actor)
		c.Next()

		if sessionIPs != nil && c.Writer.Status() < http.StatusBadRequest {
			if err := sessionIPs.Record(c.Request.Context(), actor.ID, c.ClientIP()); err != nil {
				log.Debug().Err(err).Msg("session ip record failed")
			}
		}
	}
}

// RequireRole rejects authenticated actors whose role differs from role.
// It must run after JWTAuth.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := Actor(c)
		if !ok {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}
		if actor.Role != role {
			response.Error(c, apperror.ErrForbidden())
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestID assigns each request a correlation ID, honouring one the
// client already sent, and echoes it back in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(CtxRequestID)).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
