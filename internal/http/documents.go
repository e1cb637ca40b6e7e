package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/rental-desk/internal/document"
	"github.com/nurpe/rental-desk/internal/service"
)

// renderDocument returns the PDF inline for preview, or as an attachment
// when download=1.
func (h *Handler) renderDocument(c *gin.Context) {
	kind, err := document.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind"})
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	file, err := h.svc.Documents.Render(c.Request.Context(), service.DocumentRequest{
		Kind:      kind,
		ID:        id,
		Download:  queryBool(c, "download"),
		Principal: principal(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, file)
}

func (h *Handler) listExports(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	exports, err := h.svc.Documents.Exports(c.Request.Context(), service.ExportQuery{
		Kind:   c.Query("kind"),
		Number: c.Query("number"),
		Limit:  limit,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exports": exports})
}
