package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/aiwonderland/imagecode/internal/utils/errors"
	"github.com/aiwonderland/imagecode/internal/utils/logger"
)

const (
	// IdempotencyKeyHeader lets clients retry a POST without repeating its work.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayedHeader marks a response served from the store.
	IdempotentReplayedHeader = "Idempotent-Replayed"

	idempotencyKeyPrefix  = "idempotency:"
	defaultIdempotencyTTL = 24 * time.Hour
	idempotencyLockTTL    = 3 * time.Minute
	maxIdempotencyKeyLen  = 255
)

// IdempotencyConfig holds idempotency middleware configuration.
type IdempotencyConfig struct {
	TTL time.Duration
	// Paths limits replay to these route patterns. Empty means all POSTs.
	Paths  []string
	Logger *logger.Logger
}

type storedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	// Headers holds the response headers worth replaying.
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

var replayHeaders = []string{"Content-Disposition", ExportKeyHeader, ExportURLHeader}

// Idempotency replays the stored response of a POST that carried the
// same Idempotency-Key. Only successful responses are stored. A nil
// client disables the middleware.
func Idempotency(client goredis.UniversalClient, cfg IdempotencyConfig) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultIdempotencyTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.New(nil)
	}
	paths := make(map[string]bool, len(cfg.Paths))
	for _, p := range cfg.Paths {
		paths[p] = true
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		if len(paths) > 0 && !paths[c.FullPath()] {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			appErr := apperrors.BadRequest("Idempotency-Key is too long")
			c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
			return
		}

		ctx := c.Request.Context()
		log := cfg.Logger.WithRequest(ctx)
		storeKey := idempotencyStoreKey(c.FullPath(), key)

		stored, err := loadResponse(ctx, client, storeKey)
		if err != nil {
			log.Warn("idempotency lookup failed", logger.Err(err))
		}
		if stored != nil {
			for k, v := range stored.Headers {
				c.Header(k, v)
			}
			c.Header(IdempotentReplayedHeader, "true")
			c.Data(stored.StatusCode, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		lockKey := storeKey + ":lock"
		locked, err := client.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed", logger.Err(err))
			c.Next()
			return
		}
		if !locked {
			appErr := apperrors.NewAppError("REQUEST_IN_PROGRESS",
				"a request with this idempotency key is already being processed", http.StatusConflict, nil)
			c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
			return
		}
		// Unlock with a fresh context so a canceled request still releases it.
		defer client.Del(context.WithoutCancel(ctx), lockKey)

		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		resp := &storedResponse{
			StatusCode:  status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		}
		for _, h := range replayHeaders {
			if v := c.Writer.Header().Get(h); v != "" {
				if resp.Headers == nil {
					resp.Headers = make(map[string]string)
				}
				resp.Headers[h] = v
			}
		}
		if err := storeResponse(context.WithoutCancel(ctx), client, storeKey, resp, cfg.TTL); err != nil {
			log.Warn("idempotency store failed", logger.Err(err))
		}
	}
}

func idempotencyStoreKey(route, key string) string {
	sum := sha256.Sum256([]byte(http.MethodPost + ":" + route + ":" + key))
	return idempotencyKeyPrefix + hex.EncodeToString(sum[:])
}

func loadResponse(ctx context.Context, client goredis.UniversalClient, key string) (*storedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var resp storedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func storeResponse(ctx context.Context, client goredis.UniversalClient, key string, resp *storedResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, ttl).Err()
}
