package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/rental-desk/internal/service"
)

func (h *Handler) listWarehouses(c *gin.Context) {
	page, err := h.svc.Warehouses.List(c.Request.Context(), service.WarehouseFilter{
		Query:    c.Query("q"),
		External: c.Query("external"),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getWarehouse(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Warehouses.Detail(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) createWarehouse(c *gin.Context) {
	h.saveWarehouse(c, 0)
}

func (h *Handler) updateWarehouse(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	h.saveWarehouse(c, id)
}

func (h *Handler) saveWarehouse(c *gin.Context, id int64) {
	form, err := h.svc.Warehouses.Form(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !h.bind(c, &form) {
		return
	}
	warehouse, err := h.svc.Warehouses.Save(c.Request.Context(), principal(c), id, form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondSaved(c, id, gin.H{"warehouse": warehouse})
}

func (h *Handler) deleteWarehouse(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Warehouses.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listSuppliers(c *gin.Context) {
	page, err := h.svc.Suppliers.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getSupplier(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.svc.Suppliers.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

func (h *Handler) createSupplier(c *gin.Context) {
	h.saveSupplier(c, 0)
}

func (h *Handler) updateSupplier(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	h.saveSupplier(c, id)
}

func (h *Handler) saveSupplier(c *gin.Context, id int64) {
	form, err := h.svc.Suppliers.Form(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !h.bind(c, &form) {
		return
	}
	supplier, err := h.svc.Suppliers.Save(c.Request.Context(), principal(c), id, form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondSaved(c, id, gin.H{"supplier": supplier})
}

func (h *Handler) deleteSupplier(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Suppliers.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listSales(c *gin.Context) {
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	page, err := h.svc.Sales.List(c.Request.Context(), service.SaleFilter{Query: c.Query("q"), From: from, To: to})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) listUsers(c *gin.Context) {
	page, err := h.svc.Users.List(c.Request.Context(), principal(c), c.Query("q"), c.Query("role"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) createUser(c *gin.Context) {
	h.saveUser(c, 0)
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	h.saveUser(c, id)
}

func (h *Handler) saveUser(c *gin.Context, id int64) {
	form, err := h.svc.Users.Form(c.Request.Context(), principal(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !h.bind(c, &form) {
		return
	}
	user, err := h.svc.Users.Save(c.Request.Context(), principal(c), id, form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondSaved(c, id, gin.H{"user": user})
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Users.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
