package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/victorwamb/IA-PF/internal/entities"
	"github.com/victorwamb/IA-PF/internal/usecases"
)

type createProjectRequest struct {
	Title        string   `json:"title" binding:"required"`
	TitleSimple  string   `json:"titleSimple" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Description2 string   `json:"description2"`
	Description3 string   `json:"description3"`
	Details      string   `json:"details"`
	Technologies []string `json:"technologies" binding:"required"`
	Date         string   `json:"date" binding:"required"`
	Categorie    []string `json:"categorie" binding:"required"`
	Image        string   `json:"image"`
	ImageSimple  string   `json:"imageSimple"`
	Images       []string `json:"images"`
	Type         string   `json:"type"`
	Vue          string   `json:"vue"`
}

func (r createProjectRequest) project() *entities.Project {
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return &entities.Project{
		Title:        SanitizeString(r.Title),
		TitleSimple:  SanitizeString(r.TitleSimple),
		Description:  SanitizeString(r.Description),
		Description2: SanitizeString(r.Description2),
		Description3: SanitizeString(r.Description3),
		Details:      SanitizeString(r.Details),
		Technologies: r.Technologies,
		Date:         r.Date,
		Categorie:    r.Categorie,
		Image:        r.Image,
		ImageSimple:  r.ImageSimple,
		Images:       images,
		Type:         r.Type,
		Vue:          r.Vue,
	}
}

// CreateProject adds a project; the id is always assigned by the store.
func (h *Handler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ValidateLength(req.Title, 1, MaxTitleLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid title"})
		return
	}

	project := req.project()
	if err := h.projects.CreateProject(c.Request.Context(), project); err != nil {
		h.logger.Error("failed to create project", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save project"})
		return
	}
	h.logger.Info("project created", "id", project.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Project created successfully", "project": project})
}

// UpdateProject applies only the fields present in the body.
func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var upd entities.ProjectUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if upd.Title != nil && !ValidateLength(*upd.Title, 1, MaxTitleLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid title"})
		return
	}

	project, err := h.projects.UpdateProject(c.Request.Context(), id, upd)
	if errors.Is(err, entities.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to update project", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project updated successfully", "project": project})
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	err := h.projects.DeleteProject(c.Request.Context(), id)
	if errors.Is(err, entities.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to delete project", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// UploadFile stores one image from the multipart field "file".
func (h *Handler) UploadFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file"})
		return
	}
	defer f.Close()

	name, err := h.projects.SaveUpload(fh.Filename, f)
	switch {
	case errors.Is(err, usecases.ErrUnsupportedFileType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecases.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Error("upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message":  "File uploaded successfully",
			"filename": name,
			"path":     "uploads/" + name,
		})
	}
}

// GetStats returns answered messages per source and day, plus live counters.
func (h *Handler) GetStats(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
		return
	}

	history, err := h.usage.History(c.Request.Context(), days)
	if err != nil {
		h.logger.Error("failed to fetch usage", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	if history == nil {
		history = []entities.DailyUsage{}
	}
	total := 0
	for _, d := range history {
		total += d.Total()
	}

	projects, err := h.projects.ListProjects(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list projects", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	stats := gin.H{
		"usage":                history,
		"total_answered":       total,
		"active_conversations": h.sessions.Len(),
		"projects":             len(projects),
		"completion_available": h.chat.Available(),
	}
	if h.TelegramStats != nil {
		stats["telegram"] = h.TelegramStats()
	}
	c.JSON(http.StatusOK, stats)
}

func projectID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return 0, false
	}
	return id, true
}
