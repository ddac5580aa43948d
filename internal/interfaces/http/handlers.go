package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/invstore/inventory-approval/internal/application/service"
	"github.com/invstore/inventory-approval/internal/domain/apperror"
	"github.com/invstore/inventory-approval/internal/domain/entity"
	"github.com/invstore/inventory-approval/internal/invoice"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	authService      service.AuthService
	inventoryService service.InventoryService
	stockService     service.StockService
	invoiceService   service.InvoiceService
	exporter         *invoice.Exporter
	logger           *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	authService service.AuthService,
	inventoryService service.InventoryService,
	stockService service.StockService,
	invoiceService service.InvoiceService,
	exporter *invoice.Exporter,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		authService:      authService,
		inventoryService: inventoryService,
		stockService:     stockService,
		invoiceService:   invoiceService,
		exporter:         exporter,
		logger:           logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Retry   bool        `json:"retry,omitempty"`
}

// AuthResponse carries a user plus their freshly issued token
type AuthResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// PageResponse wraps a paged listing
type PageResponse struct {
	Content []*entity.Invoice `json:"content"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// Signup handles POST /api/auth/signup
func (h *Handlers) Signup(c *gin.Context) {
	var input service.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	user, token, err := h.authService.Signup(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: AuthResponse{Token: token, User: user}})
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: AuthResponse{Token: token, User: user}})
}

// CreateItem handles POST /api/inventory
func (h *Handlers) CreateItem(c *gin.Context) {
	var input service.CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), input, callerIdentity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/inventory/%d", item.ID))
	c.JSON(http.StatusCreated, Response{Success: true, Data: item})
}

// ApproveItem handles POST /api/inventory/:id/approve
func (h *Handlers) ApproveItem(c *gin.Context) {
	h.decide(c, h.inventoryService.Approve)
}

// RejectItem handles POST /api/inventory/:id/reject
func (h *Handlers) RejectItem(c *gin.Context) {
	h.decide(c, h.inventoryService.Reject)
}

func (h *Handlers) decide(c *gin.Context, op func(ctx context.Context, id int64, decidedBy string) (*entity.InventoryItem, error)) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	item, err := op(c.Request.Context(), id, callerIdentity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: item})
}

// GetItem handles GET /api/inventory/:id
func (h *Handlers) GetItem(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: item})
}

// ListPending handles GET /api/inventory/pending
func (h *Handlers) ListPending(c *gin.Context) {
	items, err := h.inventoryService.ListPending(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: items})
}

// ListRecent handles GET /api/inventory/recent
func (h *Handlers) ListRecent(c *gin.Context) {
	items, err := h.inventoryService.ListRecent(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: items})
}

// ListRecentMine handles GET /api/inventory/recent/me
func (h *Handlers) ListRecentMine(c *gin.Context) {
	items, err := h.inventoryService.ListRecentByCreator(c.Request.Context(), callerIdentity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: items})
}

// ListAllMine handles GET /api/inventory/me
func (h *Handlers) ListAllMine(c *gin.Context) {
	items, err := h.inventoryService.ListAllByCreator(c.Request.Context(), callerIdentity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: items})
}

// StockSummary handles GET /api/stock/summary
func (h *Handlers) StockSummary(c *gin.Context) {
	summary, err := h.stockService.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: summary})
}

// AdjustWarehouse handles POST /api/stock/warehouse/adjust
func (h *Handlers) AdjustWarehouse(c *gin.Context) {
	h.adjustStock(c, h.stockService.AdjustWarehouse)
}

// AdjustShelf handles POST /api/stock/shelf/adjust
func (h *Handlers) AdjustShelf(c *gin.Context) {
	h.adjustStock(c, h.stockService.AdjustShelf)
}

// ListInvoices handles GET /api/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	invoices, total, err := h.invoiceService.List(c.Request.Context(), c.Query("type"), c.Query("status"), page, size)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: PageResponse{
		Content: invoices,
		Total:   total,
		Page:    page,
		Size:    size,
	}})
}

// GetInvoice handles GET /api/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: inv})
}

// ExportInvoices handles GET /api/invoices/export
func (h *Handlers) ExportInvoices(c *gin.Context) {
	invoices, _, err := h.invoiceService.List(c.Request.Context(), "incoming", c.Query("status"), 0, 1000)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.exporter.Export(invoices, c.Writer); err != nil {
		h.logger.Error("Failed to export invoices", zap.Error(err))
	}
}

func (h *Handlers) adjustStock(c *gin.Context, op func(ctx context.Context, input service.AdjustStockInput) error) {
	var input service.AdjustStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	if err := op(c.Request.Context(), input); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

func (h *Handlers) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// respondError maps the error taxonomy to HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, apperror.ErrConcurrentModification):
		// Transient: the caller lost the optimistic-lock race and may retry.
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error(), Retry: true})
	case errors.Is(err, apperror.ErrConflict):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, apperror.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}

func callerIdentity(c *gin.Context) string {
	if user := currentUser(c); user != nil {
		return user.Username
	}
	return ""
}
