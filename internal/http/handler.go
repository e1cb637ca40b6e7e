package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/rental-desk/internal/apiclient"
	"github.com/nurpe/rental-desk/internal/billing"
	"github.com/nurpe/rental-desk/internal/config"
	"github.com/nurpe/rental-desk/internal/http/middleware"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
	"github.com/nurpe/rental-desk/internal/service"
)

type Services struct {
	Customers  *service.CustomerService
	Equipment  *service.EquipmentService
	Orders     *service.OrderService
	Billing    *service.BillingService
	Warehouses *service.WarehouseService
	Suppliers  *service.SupplierService
	Sales      *service.SaleService
	Users      *service.UserService
	WriteOffs  *service.WriteOffService
	Inventory  *service.InventoryCheckService
	Documents  *service.DocumentService
}

type Handler struct {
	svc          Services
	session      config.SessionConfig
	secureCookie bool
	log          zerolog.Logger
}

func NewHandler(svc Services, session config.SessionConfig, secureCookie bool, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, session: session, secureCookie: secureCookie, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.POST("/auth/login", h.login)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	admin := protected.Group("/")
	admin.Use(middleware.RequireAdmin())

	protected.POST("/auth/logout", h.logout)
	protected.GET("/auth/me", h.me)

	protected.GET("/customers", h.listCustomers)
	protected.GET("/customers/:id", h.getCustomer)
	admin.POST("/customers", h.createCustomer)
	admin.PUT("/customers/:id", h.updateCustomer)
	admin.DELETE("/customers/:id", h.deleteCustomer)

	protected.GET("/equipment", h.listEquipment)
	protected.GET("/equipment/:id", h.getEquipment)
	protected.POST("/equipment/derive", h.deriveEquipment)
	protected.GET("/equipment/import/template", h.equipmentImportTemplate)
	admin.POST("/equipment", h.createEquipment)
	admin.PUT("/equipment/:id", h.updateEquipment)
	admin.DELETE("/equipment/:id", h.deleteEquipment)
	admin.POST("/equipment/:id/sell", h.sellEquipment)
	admin.POST("/equipment/:id/write-off", h.writeOffEquipment)
	admin.POST("/equipment/:id/transfer", h.transferEquipment)
	admin.POST("/equipment/:id/photo", h.uploadEquipmentPhoto)
	admin.POST("/equipment/import", h.importEquipment)

	protected.GET("/orders", h.listOrders)
	protected.GET("/orders/:id", h.getOrder)
	protected.GET("/orders/:id/billing", h.billingDefaults)
	protected.GET("/orders/:id/billing/:billing_id", h.billingWorkbook)
	admin.POST("/orders", h.createOrder)
	admin.PUT("/orders/:id", h.updateOrder)
	admin.DELETE("/orders/:id", h.deleteOrder)
	admin.PUT("/orders/:id/status", h.updateOrderStatus)
	admin.POST("/orders/:id/billing", h.generateBilling)

	protected.GET("/warehouses", h.listWarehouses)
	protected.GET("/warehouses/:id", h.getWarehouse)
	admin.POST("/warehouses", h.createWarehouse)
	admin.PUT("/warehouses/:id", h.updateWarehouse)
	admin.DELETE("/warehouses/:id", h.deleteWarehouse)

	protected.GET("/suppliers", h.listSuppliers)
	protected.GET("/suppliers/:id", h.getSupplier)
	admin.POST("/suppliers", h.createSupplier)
	admin.PUT("/suppliers/:id", h.updateSupplier)
	admin.DELETE("/suppliers/:id", h.deleteSupplier)

	protected.GET("/sales", h.listSales)

	protected.GET("/write-offs", h.listWriteOffs)
	protected.GET("/write-offs/:id", h.getWriteOff)
	admin.DELETE("/write-offs/:id", h.deleteWriteOff)

	protected.GET("/inventory-checks", h.listInventoryChecks)
	protected.GET("/inventory-checks/:id", h.getInventoryCheck)
	admin.POST("/inventory-checks/:id/complete", h.completeInventoryCheck)
	admin.POST("/inventory-checks/:id/cancel", h.cancelInventoryCheck)

	admin.GET("/users", h.listUsers)
	admin.POST("/users", h.createUser)
	admin.PUT("/users/:id", h.updateUser)
	admin.DELETE("/users/:id", h.deleteUser)

	protected.GET("/documents/exports", h.listExports)
	protected.GET("/documents/:kind/:id", h.renderDocument)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var (
		formErr   *service.FormError
		periodErr *billing.ValidationError
		overlap   *billing.OverlapRejection
		empty     *billing.EmptyPeriodRejection
	)

	switch {
	case errors.Is(err, context.Canceled):
		h.log.Debug().Err(err).Str("path", c.FullPath()).Msg("request cancelled by client")
		c.Abort()
	case errors.As(err, &overlap):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            overlap.Explain(),
			"code":             billing.CodeOverlap,
			"existing_billing": overlap.Existing,
			"requested_period": overlap.Requested,
		})
	case errors.As(err, &empty):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            empty.Explain(),
			"code":             billing.CodeEmptyPeriod,
			"requested_period": empty.Requested,
		})
	case errors.As(err, &periodErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": periodErr.Error()})
	case errors.As(err, &formErr):
		fields := make([]gin.H, 0, len(formErr.Fields))
		for _, f := range formErr.Fields {
			fields = append(fields, gin.H{"field": f.Field, "message": f.Message()})
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": formErr.Error(), "fields": fields})
	case errors.Is(err, billing.ErrGenerationInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, resource.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrJournalDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.handleBackendError(c, err)
	}
}

func (h *Handler) handleBackendError(c *gin.Context, err error) {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	msg := apiclient.Describe(err)
	switch {
	case errors.Is(apiErr, apiclient.ErrUnauthorized):
		body := gin.H{"error": msg}
		if nav := middleware.Redirect(c); nav != nil {
			if target := nav.Target(); target != "" {
				body["redirect"] = target
				body["redirect_after_ms"] = nav.Delay().Milliseconds()
			}
		} else {
			body["redirect"] = h.session.LoginRoute
			body["redirect_after_ms"] = h.session.RedirectDelay.Milliseconds()
		}
		c.JSON(http.StatusUnauthorized, body)
	case errors.Is(apiErr, apiclient.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": msg})
	case errors.Is(apiErr, apiclient.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	case errors.Is(apiErr, apiclient.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": apiErr.Code})
	case errors.Is(apiErr, apiclient.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Int("status", apiErr.StatusCode).Msg("backend call failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	}
}

func principal(c *gin.Context) model.Principal {
	p, _ := middleware.MustPrincipal(c)
	return p
}

// pathID validates the numeric id route parameter before any request.
func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := resource.ParseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *Handler) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func queryDate(c *gin.Context, key string) (model.Date, bool) {
	d, err := model.ParseDate(c.Query(key))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return model.Date{}, false
	}
	return d, true
}

func queryIDs(c *gin.Context, key string) ([]int64, bool) {
	var ids []int64
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := resource.ParseID(part)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
				return nil, false
			}
			ids = append(ids, id)
		}
	}
	return ids, true
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

func sendFile(c *gin.Context, file *service.FileResult) {
	disposition := file.Disposition
	if disposition == "" {
		disposition = service.DispositionAttachment
	}
	c.Header("Content-Disposition", disposition+"; filename=\""+file.FileName+"\"")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
