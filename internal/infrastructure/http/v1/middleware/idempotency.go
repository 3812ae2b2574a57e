package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/infrastructure/idempotency"
	"repairdesk/pkg/logger"
)

const HeaderIdempotencyKey = "X-Idempotency-Key"
const maxIdempotencyBodyBytes = 1 << 20 // 1 MiB

// HeaderIdempotentReplay marks a response served from the idempotency store.
const HeaderIdempotentReplay = "Idempotent-Replayed"

// captureWriter tees the response body so it can be stored for replay.
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

// Idempotency middleware protects against duplicate requests.
// Applies to POST/PUT/PATCH requests carrying X-Idempotency-Key. Must run
// outside ErrorHandler so rendered errors are captured too.
//
// 2xx and 4xx responses are stored and replayed; 5xx responses and panics
// release the key so the client can retry.
func Idempotency(store idempotency.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}

		limited := io.LimitReader(c.Request.Body, maxIdempotencyBodyBytes+1)
		body, _ := io.ReadAll(limited)
		if len(body) > maxIdempotencyBodyBytes {
			appErr := apperror.NewValidation("request body too large for idempotency")
			appErr.HTTPStatus = http.StatusRequestEntityTooLarge
			abortWithError(c, appErr.WithDetail("max_bytes", maxIdempotencyBodyBytes))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		hash := sha256.Sum256(body)
		requestHash := hex.EncodeToString(hash[:])

		// Operation name from route
		operation := c.Request.Method + " " + c.FullPath()
		ctx := c.Request.Context()

		replay, err := store.Acquire(ctx, key, operation, requestHash)
		if err != nil {
			if _, ok := apperror.AsAppError(err); !ok {
				err = apperror.NewInternal(err).WithDetail("component", "idempotency")
			}
			abortWithError(c, err)
			return
		}

		if replay != nil {
			c.Header(HeaderIdempotentReplay, "true")
			c.Data(replay.StatusCode, replay.ContentType, replay.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w

		completed := false
		defer func() {
			if completed {
				return
			}
			if err := store.Release(ctx, key); err != nil {
				logger.Warn(ctx, "failed to release idempotency key", "key", key, "error", err)
			}
		}()

		c.Next()

		status := w.Status()
		if status >= http.StatusInternalServerError {
			return
		}

		result := idempotency.StatusSuccess
		if status >= http.StatusBadRequest {
			result = idempotency.StatusFailed
		}
		resp := idempotency.Replay{
			StatusCode:  status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		}
		if err := store.Complete(ctx, key, result, resp); err != nil {
			logger.Warn(ctx, "failed to complete idempotency key", "key", key, "error", err)
			return
		}
		completed = true
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(apperror.GetHTTPStatus(err), errorBodyFor(c, err))
}

func errorBodyFor(c *gin.Context, err error) gin.H {
	if appErr, ok := apperror.AsAppError(err); ok {
		return errorBody(appErr)
	}
	return gin.H{
		"code":    apperror.CodeInternal,
		"message": "Internal server error",
		"details": map[string]any{"request_id": c.GetString("request_id")},
	}
}
