package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/rental-desk/internal/service"
)

const maxUploadSize = 16 << 20

func (h *Handler) listEquipment(c *gin.Context) {
	warehouses, ok := queryIDs(c, "warehouse_id")
	if !ok {
		return
	}
	page, err := h.svc.Equipment.List(c.Request.Context(), service.EquipmentFilter{
		Query:        c.Query("q"),
		Status:       c.Query("status"),
		WarehouseIDs: warehouses,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getEquipment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Equipment.Detail(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type deriveEquipmentRequest struct {
	Form   service.EquipmentForm   `json:"form"`
	Change service.EquipmentChange `json:"change"`
}

// deriveEquipment recomputes the derived form fields after one field edit.
func (h *Handler) deriveEquipment(c *gin.Context) {
	req := deriveEquipmentRequest{Form: service.NewEquipmentForm()}
	if !h.bind(c, &req) {
		return
	}
	req.Form.Apply(req.Change)
	c.JSON(http.StatusOK, gin.H{"form": req.Form})
}

func (h *Handler) createEquipment(c *gin.Context) {
	h.saveEquipment(c, 0)
}

func (h *Handler) updateEquipment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	h.saveEquipment(c, id)
}

func (h *Handler) saveEquipment(c *gin.Context, id int64) {
	form, err := h.svc.Equipment.Form(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	stored := form
	if !h.bind(c, &form) {
		return
	}
	form.Rebase(stored)
	item, err := h.svc.Equipment.Save(c.Request.Context(), principal(c), id, form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondSaved(c, id, gin.H{"equipment": item})
}

func (h *Handler) deleteEquipment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Equipment.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) sellEquipment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input service.SellInput
	if !h.bind(c, &input) {
		return
	}
	item, err := h.svc.Equipment.Sell(c.Request.Context(), principal(c), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": item})
}

func (h *Handler) writeOffEquipment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input service.WriteOffInput
	if !h.bind(c, &input) {
		return
	}
	item, err := h.svc.Equipment.WriteOff(c.Request.Context(), principal(c), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": item})
}

func (h *Handler) transferEquipment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input service.TransferInput
	if !h.bind(c, &input) {
		return
	}
	item, err := h.svc.Equipment.Transfer(c.Request.Context(), principal(c), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": item})
}

func (h *Handler) uploadEquipmentPhoto(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	name, content, ok := h.formFile(c, "photo")
	if !ok {
		return
	}
	item, err := h.svc.Equipment.UploadPhoto(c.Request.Context(), principal(c), id, name, content)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": item})
}

func (h *Handler) equipmentImportTemplate(c *gin.Context) {
	file, err := h.svc.Equipment.ImportTemplate()
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, file)
}

func (h *Handler) importEquipment(c *gin.Context) {
	name, content, ok := h.formFile(c, "file")
	if !ok {
		return
	}
	outcome, err := h.svc.Equipment.Import(c.Request.Context(), principal(c), name, content)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *Handler) formFile(c *gin.Context, field string) (string, []byte, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " file is required"})
		return "", nil, false
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": field + " file is too large"})
		return "", nil, false
	}
	f, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Str("field", field).Msg("open uploaded file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read " + field})
		return "", nil, false
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		h.log.Error().Err(err).Str("field", field).Msg("read uploaded file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read " + field})
		return "", nil, false
	}
	return header.Filename, content, true
}
