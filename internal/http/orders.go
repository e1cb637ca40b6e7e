package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/rental-desk/internal/billing"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
	"github.com/nurpe/rental-desk/internal/service"
)

func (h *Handler) listOrders(c *gin.Context) {
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	page, err := h.svc.Orders.List(c.Request.Context(), service.OrderFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
		From:   from,
		To:     to,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Orders.Detail(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) createOrder(c *gin.Context) {
	h.saveOrder(c, 0)
}

func (h *Handler) updateOrder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	h.saveOrder(c, id)
}

func (h *Handler) saveOrder(c *gin.Context, id int64) {
	form, err := h.svc.Orders.Form(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !h.bind(c, &form) {
		return
	}
	order, err := h.svc.Orders.Save(c.Request.Context(), principal(c), id, form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondSaved(c, id, gin.H{"order": order})
}

func (h *Handler) deleteOrder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Orders.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type orderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req orderStatusRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.svc.Orders.UpdateStatus(c.Request.Context(), principal(c), id, req.Status); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *Handler) billingDefaults(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	defaults, err := h.svc.Billing.Defaults(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, defaults)
}

func (h *Handler) generateBilling(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var cfg billing.Config
	if !h.bind(c, &cfg) {
		return
	}
	result, err := h.svc.Billing.Generate(c.Request.Context(), service.GenerateBillingInput{
		OrderID:   id,
		Config:    cfg,
		Principal: principal(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// billingWorkbook serves /orders/:id/billing/:billing_id, with or without an
// .xlsx suffix on the billing id.
func (h *Handler) billingWorkbook(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	billingID, err := resource.ParseID(strings.TrimSuffix(c.Param("billing_id"), ".xlsx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid billing_id"})
		return
	}
	file, err := h.svc.Billing.Workbook(c.Request.Context(), orderID, billingID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, file)
}
