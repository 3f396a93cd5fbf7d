package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/clinic-appointments/internal/config"
)

// captureWriter tees the response body into buf (up to limit bytes) while
// forwarding everything to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int64
	over   bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.over {
		if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
			// too large to cache; stop buffering
			cw.over = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// cacheKey derives the key from the matched route and the raw query.
func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte("route:" + c.Path() + ":q:" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// ResponseCache caches successful GET responses in Redis so repeated reads
// of read-only collections skip the storage round trip. Cached entries may
// be up to cfg.TTL stale. Hits replay the stored
// status, headers and body and are marked with X-Cache: HIT. The middleware
// is a no-op when caching is disabled or no Redis client is available.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			bs, err := rdb.Get(ctx, key).Bytes()
			if err != nil && !errors.Is(err, redis.Nil) {
				c.Logger().Warnf("cache: get %s: %v", key, err)
			}
			if status, hdr, body, ok := decodePayload(bs); err == nil && ok {
				for k, vals := range hdr {
					if strings.EqualFold(k, echo.HeaderContentLength) {
						continue
					}
					for _, v := range vals {
						c.Response().Header().Add(k, v)
					}
				}
				c.Response().Header().Set("X-Cache", "HIT")
				c.Response().WriteHeader(status)
				_, err := c.Response().Write(body)
				return err
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.over {
				return nil
			}

			// request-scoped headers (request id, CORS) are set again on every hit
			hdr := http.Header{}
			if ct := c.Response().Header().Get(echo.HeaderContentType); ct != "" {
				hdr.Set(echo.HeaderContentType, ct)
			}
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			// request context may already be cancelled once the client is served
			if err := rdb.SetEx(context.Background(), key, payload, ttl).Err(); err != nil {
				c.Logger().Warnf("cache: set %s: %v", key, err)
			}
			return nil
		}
	}
}
