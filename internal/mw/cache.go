package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// CacheHeader reports whether a response was served from the cache.
const CacheHeader = "X-Cache"

// cachedHeaders describe the body. Per-request headers such as the request
// id or CORS headers are set by earlier middleware on every request.
var cachedHeaders = []string{"Content-Type", "Content-Length"}

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeated GET requests for the same URI from memory. Only 2xx
// responses are stored.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if v, found := store.Get(key); found {
			cached := v.(cachedResponse)
			for k, vals := range cached.headers {
				c.Writer.Header()[k] = append([]string(nil), vals...)
			}
			c.Writer.Header().Set(CacheHeader, "HIT")
			c.Writer.WriteHeader(cached.status)
			_, _ = c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		c.Writer.Header().Set(CacheHeader, "MISS")
		w := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if status := w.Status(); status >= 200 && status < 300 {
			headers := http.Header{}
			for _, k := range cachedHeaders {
				if vals := w.Header().Values(k); len(vals) > 0 {
					headers[k] = append([]string(nil), vals...)
				}
			}
			store.Set(key, cachedResponse{
				status:  status,
				headers: headers,
				body:    bytes.Clone(w.body.Bytes()),
			}, ttl)
		}
	}
}
