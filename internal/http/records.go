package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/rental-desk/internal/service"
)

func (h *Handler) listWriteOffs(c *gin.Context) {
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	page, err := h.svc.WriteOffs.List(c.Request.Context(), service.WriteOffFilter{
		Query:  c.Query("q"),
		Reason: c.Query("reason"),
		From:   from,
		To:     to,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getWriteOff(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.svc.WriteOffs.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"write_off": record})
}

func (h *Handler) deleteWriteOff(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.WriteOffs.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listInventoryChecks(c *gin.Context) {
	page, err := h.svc.Inventory.List(c.Request.Context(), service.InventoryCheckFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getInventoryCheck(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Inventory.Detail(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) completeInventoryCheck(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	check, err := h.svc.Inventory.Complete(c.Request.Context(), principal(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory_check": check})
}

func (h *Handler) cancelInventoryCheck(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	check, err := h.svc.Inventory.Cancel(c.Request.Context(), principal(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory_check": check})
}
