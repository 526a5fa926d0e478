package importer

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/imaging"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// --------------------------------------------------
// Open session
// --------------------------------------------------
func (h *Handler) OpenSession(c *gin.Context) {
	session, err := h.manager.Open(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session_id": session.ID})
}

// --------------------------------------------------
// Upload photos + preview matches
// --------------------------------------------------
func (h *Handler) Upload(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photos are required"})
		return
	}

	staged := make([]PreviewFile, 0, len(files))
	for _, header := range files {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("unsupported file type: %s", header.Filename),
			})
			return
		}

		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		body, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		key := fmt.Sprintf("imports/%s/%s%s", session.ID, uuid.New().String(), ext)
		if _, err := session.deps.Storage.UploadBytes(
			c.Request.Context(), key, body, header.Header.Get("Content-Type"),
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		staged = append(staged, PreviewFile{Filename: header.Filename, ImageKey: key})
	}

	rows := session.Preview(staged)
	c.JSON(http.StatusCreated, gin.H{
		"rows":      rows,
		"conflicts": session.ConflictGroups(),
	})
}

// --------------------------------------------------
// Review state
// --------------------------------------------------
func (h *Handler) State(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":       session.Rows(),
		"conflicts":  session.ConflictGroups(),
		"unresolved": session.UnresolvedCount(),
	})
}

type rowActionRequest struct {
	Filename string `json:"filename" binding:"required"`
	Code     string `json:"code"`
}

// --------------------------------------------------
// Row transitions: select / discard / reset / confirm
// --------------------------------------------------
func (h *Handler) RowAction(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req rowActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename is required"})
		return
	}

	var row Row
	switch action := c.Param("action"); action {
	case "select":
		row, err = session.Select(req.Filename, req.Code)
	case "discard":
		row, err = session.Discard(req.Filename)
	case "reset":
		row, err = session.Reset(req.Filename)
	case "confirm":
		row, err = session.Confirm(req.Filename)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown action: " + action})
		return
	}
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"row":       row,
		"conflicts": session.ConflictGroups(),
	})
}

type cropRequest struct {
	Filename string          `json:"filename" binding:"required"`
	Aspect   string          `json:"aspect" binding:"required"`
	Crop     imaging.CropBox `json:"crop"`
}

// --------------------------------------------------
// Manual crop override
// --------------------------------------------------
func (h *Handler) SetCrop(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req cropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename and aspect are required"})
		return
	}

	row, err := session.SetManualCrop(req.Filename, req.Aspect, req.Crop)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"row": row})
}

type applyRequest struct {
	Filename string `json:"filename"`
	Force    bool   `json:"force"`
}

// --------------------------------------------------
// Apply one row or the whole batch
// --------------------------------------------------
func (h *Handler) Apply(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Filename != "" {
		result := session.Apply(c.Request.Context(), req.Filename)
		c.JSON(http.StatusOK, gin.H{"results": []ApplyResult{result}})
		return
	}

	results, err := session.ApplyAll(c.Request.Context(), req.Force)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":      err.Error(),
			"unresolved": session.UnresolvedCount(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// --------------------------------------------------
// Close session
// --------------------------------------------------
func (h *Handler) CloseSession(c *gin.Context) {
	h.manager.Close(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}
