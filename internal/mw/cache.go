package mw

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

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

// Cache serves repeated GET requests from memory. Any successful request with
// another method flushes the whole cache, since a single write can change
// several listings at once. A GET that overlapped a flush is not stored. A
// non-positive duration disables caching.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	var (
		mu         sync.Mutex
		generation uint64
	)
	currentGeneration := func() uint64 {
		mu.Lock()
		defer mu.Unlock()
		return generation
	}

	return func(c *gin.Context) {
		if duration <= 0 {
			c.Next()
			return
		}

		if c.Request.Method != http.MethodGet {
			c.Next()
			if status := c.Writer.Status(); status >= 200 && status < 300 {
				mu.Lock()
				generation++
				store.Flush()
				mu.Unlock()
			}
			return
		}

		key := c.Request.RequestURI
		if resp, found := store.Get(key); found {
			cached := resp.(cachedResponse)
			for k, v := range cached.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		started := currentGeneration()
		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only cache successful responses
		if blw.Status() >= 200 && blw.Status() < 300 {
			response := cachedResponse{
				status:  blw.Status(),
				headers: blw.Header().Clone(),
				body:    blw.body.Bytes(),
			}
			mu.Lock()
			if generation == started {
				store.Set(key, response, duration)
			}
			mu.Unlock()
		}
	}
}
