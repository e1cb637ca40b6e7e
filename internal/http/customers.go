package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/rental-desk/internal/service"
)

func (h *Handler) listCustomers(c *gin.Context) {
	page, err := h.svc.Customers.List(c.Request.Context(), service.CustomerFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Customers.Detail(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) createCustomer(c *gin.Context) {
	h.saveCustomer(c, 0)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	h.saveCustomer(c, id)
}

func (h *Handler) saveCustomer(c *gin.Context, id int64) {
	form, err := h.svc.Customers.Form(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !h.bind(c, &form) {
		return
	}
	customer, err := h.svc.Customers.Save(c.Request.Context(), principal(c), id, form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondSaved(c, id, gin.H{"customer": customer})
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Customers.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondSaved(c *gin.Context, id int64, body gin.H) {
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, body)
}
