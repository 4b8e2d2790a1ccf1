package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/victorwamb/IA-PF/internal/entities"
	"github.com/victorwamb/IA-PF/internal/interfaces"
	"github.com/victorwamb/IA-PF/internal/usecases"
)

type Handler struct {
	chat     *usecases.ChatUsecase
	projects *usecases.ProjectUsecase
	sessions *usecases.SessionManager
	catalog  *usecases.Catalog
	usage    interfaces.UsageRecorder
	auth     *usecases.AuthUsecase
	logger   *slog.Logger

	// TypingInterval paces streamed answers.
	TypingInterval time.Duration
	// TelegramStats is set when the Telegram binding runs.
	TelegramStats func() map[string]interface{}
}

func NewHandler(chat *usecases.ChatUsecase, projects *usecases.ProjectUsecase, sessions *usecases.SessionManager, catalog *usecases.Catalog, usage interfaces.UsageRecorder, auth *usecases.AuthUsecase, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		chat:           chat,
		projects:       projects,
		sessions:       sessions,
		catalog:        catalog,
		usage:          usage,
		auth:           auth,
		logger:         logger,
		TypingInterval: usecases.DefaultTypingInterval,
	}
}

func SetupRoutes(r *gin.Engine, h *Handler, middleware *Middleware, uploadsDir string) {
	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(MaxRequestSize))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", h.Health)
	r.GET("/cron/ping", h.CronPing)
	r.Static("/uploads", uploadsDir)

	api := r.Group("/api")
	{
		api.GET("/projects", h.ListProjects)
		api.GET("/projects/:id", h.GetProject)
		api.POST("/auth/login", h.Login)
	}

	// Chat Routes
	chat := api.Group("")
	chat.Use(middleware.RateLimitPerClient())
	{
		chat.POST("/chat", h.Chat)
		chat.POST("/conversations", h.CreateConversation)
		chat.GET("/conversations/:id", h.GetConversation)
		chat.POST("/conversations/:id/messages", h.PostConversationMessage)
		chat.DELETE("/conversations/:id", h.DeleteConversation)
	}

	// Admin-only Routes
	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.POST("/projects", h.CreateProject)
		admin.PUT("/projects/:id", h.UpdateProject)
		admin.DELETE("/projects/:id", h.DeleteProject)
		admin.POST("/upload", h.UploadFile)
		admin.GET("/stats", h.GetStats)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "API is running"})
}

func (h *Handler) CronPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.projects.ListProjects(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list projects", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	project, err := h.projects.GetProject(c.Request.Context(), id)
	if errors.Is(err, entities.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to get project", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load project"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) Login(c *gin.Context) {
	var loginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	token, err := h.auth.Login(loginReq.Username, loginReq.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Chat is the completion endpoint the remote responder talks to.
func (h *Handler) Chat(c *gin.Context) {
	var req struct {
		Message string              `json:"message"`
		History []entities.ChatTurn `json:"history"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request"})
		return
	}
	if len(req.Message) > MaxMessageLength || len(req.History) > MaxHistoryTurns {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Message or history too long"})
		return
	}

	text, err := h.chat.Reply(c.Request.Context(), SanitizeString(req.Message), req.History)
	switch {
	case errors.Is(err, usecases.ErrCompletionUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "OpenAI service not available. Please configure OPENAI_API_KEY."})
	case errors.Is(err, usecases.ErrEmptyMessage), errors.Is(err, usecases.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case err != nil:
		h.logger.Error("chat completion failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"response": text})
	}
}
