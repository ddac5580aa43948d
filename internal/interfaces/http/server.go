// Package http is the HTTP adapter: it resolves the caller's identity and
// role, enforces per-route role requirements, and translates requests into
// application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/invstore/inventory-approval/internal/application/service"
	"github.com/invstore/inventory-approval/internal/domain/entity"
	"github.com/invstore/inventory-approval/internal/invoice"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter
type Server struct {
	config           ServerConfig
	httpServer       *http.Server
	router           *gin.Engine
	authService      service.AuthService
	inventoryService service.InventoryService
	stockService     service.StockService
	invoiceService   service.InvoiceService
	exporter         *invoice.Exporter
	logger           *zap.Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	authService service.AuthService,
	inventoryService service.InventoryService,
	stockService service.StockService,
	invoiceService service.InvoiceService,
	exporter *invoice.Exporter,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:           config,
		router:           gin.New(),
		authService:      authService,
		inventoryService: inventoryService,
		stockService:     stockService,
		invoiceService:   invoiceService,
		exporter:         exporter,
		logger:           logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("latency", time.Since(start).String()),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.authService, s.inventoryService, s.stockService, s.invoiceService, s.exporter, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	auth := s.router.Group("/api/auth")
	{
		auth.POST("/signup", handlers.Signup)
		auth.POST("/login", handlers.Login)
	}

	api := s.router.Group("/api")
	api.Use(s.authRequired())
	{
		inv := api.Group("/inventory")
		{
			inv.POST("", s.requireRole(entity.RoleMaker), handlers.CreateItem)
			inv.GET("/pending", s.requireRole(entity.RoleChecker), handlers.ListPending)
			inv.GET("/recent", s.requireRole(entity.RoleMaker, entity.RoleChecker), handlers.ListRecent)
			inv.GET("/recent/me", s.requireRole(entity.RoleMaker), handlers.ListRecentMine)
			inv.GET("/me", s.requireRole(entity.RoleMaker), handlers.ListAllMine)
			inv.GET("/:id", s.requireRole(entity.RoleChecker), handlers.GetItem)
			inv.POST("/:id/approve", s.requireRole(entity.RoleChecker), handlers.ApproveItem)
			inv.POST("/:id/reject", s.requireRole(entity.RoleChecker), handlers.RejectItem)
		}

		stock := api.Group("/stock")
		{
			stock.GET("/summary", s.requireRole(entity.RoleMaker, entity.RoleChecker), handlers.StockSummary)
			stock.POST("/warehouse/adjust", s.requireRole(entity.RoleManager), handlers.AdjustWarehouse)
			stock.POST("/shelf/adjust", s.requireRole(entity.RoleManager), handlers.AdjustShelf)
		}

		invoices := api.Group("/invoices")
		{
			invoices.GET("", s.requireRole(entity.RoleChecker), handlers.ListInvoices)
			invoices.GET("/export", s.requireRole(entity.RoleChecker), handlers.ExportInvoices)
			invoices.GET("/:id", s.requireRole(entity.RoleChecker), handlers.GetInvoice)
		}
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
