package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/victorwamb/IA-PF/internal/entities"
	"github.com/victorwamb/IA-PF/internal/usecases"
)

// CreateConversation opens a chat hosted by the server-side engine.
func (h *Handler) CreateConversation(c *gin.Context) {
	var req struct {
		Lang string `json:"lang"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	lang, ok := h.language(c, req.Lang)
	if !ok {
		return
	}

	id := uuid.NewString()
	conv := h.sessions.GetOrCreate(id, lang)
	strs := h.catalog.Lookup(conv.Language())
	c.JSON(http.StatusCreated, gin.H{
		"id":          id,
		"lang":        conv.Language(),
		"placeholder": strs.Placeholder,
		"tryAsking":   strs.TryAsking,
		"suggestions": strs.Suggestions,
	})
}

func (h *Handler) GetConversation(c *gin.Context) {
	conv, ok := h.conversation(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       conv.ID,
		"lang":     conv.Language(),
		"pending":  conv.Pending(),
		"messages": conv.Messages(),
	})
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	id := c.Param("id")
	if !ValidConversationID(id) || !h.sessions.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": usecases.ErrConversationNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// PostConversationMessage resolves one user message. With ?stream=true or an
// event-stream Accept header the answer is revealed as SSE "typing" events
// followed by a single "done" event.
func (h *Handler) PostConversationMessage(c *gin.Context) {
	conv, ok := h.conversation(c)
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message"`
		Lang    string `json:"lang"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if len(req.Message) > MaxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message too long"})
		return
	}
	if req.Lang != "" {
		lang, ok := h.language(c, req.Lang)
		if !ok {
			return
		}
		conv.SetLanguage(lang)
	}

	result, err := h.sessions.Submit(c.Request.Context(), conv.ID, conv.Language(), SanitizeString(req.Message))
	switch {
	case errors.Is(err, usecases.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, usecases.ErrResolutionPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "thinking": h.catalog.Lookup(conv.Language()).Thinking})
		return
	case err != nil:
		h.logger.Error("failed to resolve message", "conversation", conv.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": h.catalog.Lookup(conv.Language()).Error})
		return
	}

	if wantsStream(c) {
		h.streamResult(c, conv, result)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "messages": conv.Messages()})
}

func (h *Handler) streamResult(c *gin.Context, conv *usecases.Conversation, result entities.ResolutionResult) {
	presenter := usecases.NewTypingPresenter(h.TypingInterval)
	defer presenter.Stop()

	// Sized so callbacks never block the presenter.
	partials := make(chan string, len([]rune(result.Text))+1)
	done := make(chan struct{})
	presenter.Present(result.Text,
		func(partial string) { partials <- partial },
		func() { close(done) },
	)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case partial := <-partials:
			c.SSEvent("typing", gin.H{"text": partial})
			return true
		case <-done:
			for {
				select {
				case partial := <-partials:
					c.SSEvent("typing", gin.H{"text": partial})
				default:
					c.SSEvent("done", gin.H{"result": result, "messages": conv.Messages()})
					return false
				}
			}
		}
	})
}

func (h *Handler) conversation(c *gin.Context) (*usecases.Conversation, bool) {
	id := c.Param("id")
	if !ValidConversationID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": usecases.ErrConversationNotFound.Error()})
		return nil, false
	}
	conv, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": usecases.ErrConversationNotFound.Error()})
		return nil, false
	}
	return conv, true
}

// language validates a requested language; empty means the engine default.
func (h *Handler) language(c *gin.Context, lang string) (string, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return "", true
	}
	if !h.catalog.Supports(lang) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported language"})
		return "", false
	}
	return lang, true
}

func wantsStream(c *gin.Context) bool {
	return c.Query("stream") == "true" || strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}
