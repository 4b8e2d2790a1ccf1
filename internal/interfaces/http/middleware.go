package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/victorwamb/IA-PF/internal/usecases"
	"golang.org/x/time/rate"
)

// MaxRequestSize bounds every request body; uploads get 1MB on top of the file limit for multipart framing.
const MaxRequestSize = usecases.MaxUploadSize + 1<<20

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Middleware struct {
	auth           *usecases.AuthUsecase
	allowedOrigins map[string]bool
	allowAll       bool

	rate  rate.Limit
	burst int

	rateLimiters map[string]*clientLimiter
	mu           sync.Mutex
}

func NewMiddleware(auth *usecases.AuthUsecase, allowedOrigins []string, perSecond float64, burst int) *Middleware {
	m := &Middleware{
		auth:           auth,
		allowedOrigins: make(map[string]bool),
		rate:           rate.Limit(perSecond),
		burst:          burst,
		rateLimiters:   make(map[string]*clientLimiter),
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			m.allowAll = true
			continue
		}
		m.allowedOrigins[strings.TrimRight(origin, "/")] = true
	}
	return m
}

// AdminRequired accepts "Bearer <admin api key>" or "Bearer <admin JWT>".
func (m *Middleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if err := m.auth.Authorize(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Set("role", "admin")
		c.Next()
	}
}

// RateLimitPerClient limits requests per client IP with a token bucket.
func (m *Middleware) RateLimitPerClient() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		m.mu.Lock()
		entry, exists := m.rateLimiters[key]
		if !exists {
			entry = &clientLimiter{limiter: rate.NewLimiter(m.rate, m.burst)}
			m.rateLimiters[key] = entry
		}
		entry.lastSeen = time.Now()
		m.mu.Unlock()

		if !entry.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// CleanupLimiters forgets clients not seen for maxIdle.
func (m *Middleware) CleanupLimiters(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.rateLimiters {
		if time.Since(entry.lastSeen) > maxIdle {
			delete(m.rateLimiters, key)
			removed++
		}
	}
	return removed
}

// CORSMiddleware allows Cross-Origin requests from the configured origins only.
// Credentials are allowed for explicitly listed origins, never for the wildcard.
func (m *Middleware) CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		switch {
		case origin != "" && m.allowedOrigins[origin]:
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
		case m.allowAll:
			h.Set("Access-Control-Allow-Origin", "*")
		}
		h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, Authorization, Origin, Cache-Control, X-Requested-With")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SecurityHeaders adds security headers to prevent common attacks
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		// Prevent clickjacking
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Writer.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'")

		c.Next()
	}
}

// RequestSizeLimiter limits request body size to prevent DoS
func RequestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
