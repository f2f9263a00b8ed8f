package middleware

import (
	"bytes"         // Response capture buffer
	"context"       // Redis call deadlines
	"encoding/json" // Stored response encoding
	"errors"        // redis.Nil matching
	"fmt"           // Key formatting
	"net/http"      // HTTP status codes
	"time"          // TTLs and timeouts

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Idempotency headers and storage layout
const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"
	idempotencyPrefix    = "idempotency:v1:"
	inProgressMarker     = "__in_progress__"
	redisTimeout         = 2 * time.Second
)

type storedResponse struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
}

// captureWriter tees the response body so it can be stored after the handler ran
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency makes unsafe requests replayable. The first request with a given
// Idempotency-Key runs the handler and its response is stored in Redis for ttl;
// later requests with the same key from the same user get the stored response
// back, and a request arriving while the first is still running gets 409.
// Server errors and conflicts are not stored so the client may retry them.
func Idempotency(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next() // Safe methods are naturally idempotent
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing Idempotency-Key header"})
			return
		}
		cacheKey := fmt.Sprintf("%s%d:%s", idempotencyPrefix, c.GetUint(UserIDKey), key) // Scoped per user
		log := logrus.WithFields(logrus.Fields{"idempotency_key": key, "request_id": c.GetString(RequestIDKey)})

		ctx, cancel := context.WithTimeout(c.Request.Context(), redisTimeout)
		defer cancel()

		reserved, err := rdb.SetNX(ctx, cacheKey, inProgressMarker, ttl).Result() // Claim the key atomically
		if err != nil {
			log.WithError(err).Error("Idempotency reservation failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Idempotency store failure"})
			return
		}
		if !reserved {
			replay(c, rdb, cacheKey, log)
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next() // Run the handler

		persistCtx, persistCancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), redisTimeout)
		defer persistCancel()

		status := writer.Status()
		if retryable(status) {
			rdb.Del(persistCtx, cacheKey) // Release the key so the client can retry
			return
		}
		payload, err := json.Marshal(storedResponse{
			Status:      status,
			Body:        writer.body.String(),
			ContentType: writer.Header().Get("Content-Type"),
		})
		if err == nil {
			err = rdb.Set(persistCtx, cacheKey, payload, ttl).Err()
		}
		if err != nil {
			log.WithError(err).Error("Failed to persist idempotent response")
			rdb.Del(persistCtx, cacheKey) // Best effort cleanup
		}
	}
}

// retryable reports outcomes the client is expected to retry with the same key:
// server errors and 409 conflicts from concurrent updates
func retryable(status int) bool {
	return status == http.StatusConflict || status >= http.StatusInternalServerError
}

// replay answers a repeated request from the stored response
func replay(c *gin.Context, rdb *redis.Client, cacheKey string, log *logrus.Entry) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), redisTimeout)
	defer cancel()

	cached, err := rdb.Get(ctx, cacheKey).Result()
	if errors.Is(err, redis.Nil) || cached == inProgressMarker {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Duplicate request currently processing"})
		return
	}
	if err != nil {
		log.WithError(err).Error("Idempotency lookup failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Idempotency store failure"})
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(cached), &stored); err != nil {
		log.WithError(err).Warn("Failed to decode stored idempotent response")
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Duplicate request"})
		return
	}
	c.Header(ReplayedHeader, "true")
	c.Data(stored.Status, stored.ContentType, []byte(stored.Body))
	c.Abort()
}
