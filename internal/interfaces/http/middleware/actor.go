package middleware

import (
	"net/http"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/logger"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ActorHeader names the user acting on the request
	ActorHeader = "X-User-ID"
	// ActorIDKey is the gin context key holding the resolved actor
	ActorIDKey = "actor_id"
)

// Actor resolves who performs the request. Authentication is handled
// upstream; the gateway forwards the user in X-User-ID. Requests without
// one act as the system user.
func Actor(systemUser uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := systemUser
		if raw := c.GetHeader(ActorHeader); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
					dto.ErrCodeBadRequest,
					ActorHeader+" must be a UUID",
					c.GetString(logger.RequestIDKey),
				))
				return
			}
			actor = parsed
		}

		c.Set(ActorIDKey, actor)
		ctx, _ := logger.WithActorID(c.Request.Context(), logger.FromContext(c.Request.Context()), actor.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetActorID returns the actor resolved by Actor, or uuid.Nil
func GetActorID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ActorIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
