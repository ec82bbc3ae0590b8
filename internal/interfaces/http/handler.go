package http

import (
	"net/http"

	"craftsmen_marketplace/internal/config"
	"craftsmen_marketplace/internal/infrastructure"
	"craftsmen_marketplace/internal/repository"
	"craftsmen_marketplace/internal/usecases"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	automation  *usecases.AutomationService
	productRepo *repository.ProductRepository
	orderRepo   *repository.OrderRepository
	socialRepo  *repository.SocialPostRepository
	imageStore  *infrastructure.ImageStore
	waClient    *infrastructure.WhatsAppClient
	cfg         *config.Settings
}

func NewHandler(automation *usecases.AutomationService, products *repository.ProductRepository, orders *repository.OrderRepository, social *repository.SocialPostRepository, images *infrastructure.ImageStore, wa *infrastructure.WhatsAppClient, cfg *config.Settings) *Handler {
	return &Handler{
		automation:  automation,
		productRepo: products,
		orderRepo:   orders,
		socialRepo:  social,
		imageStore:  images,
		waClient:    wa,
		cfg:         cfg,
	}
}

func SetupRoutes(r *gin.Engine, h *Handler, auth *usecases.AuthUsecase, userRepo *repository.UserRepository, middleware *Middleware) {
	adminHandler := NewAdminHandler(userRepo, h.socialRepo)

	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(h.cfg.MaxFileSize + 1<<20))
	r.Use(middleware.CORSMiddleware())

	// Public Routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static("/uploads", h.cfg.UploadDir)
	r.POST("/webhook/message", h.HandleInboundMessage)
	r.GET("/api/products/:id/share-qr", h.GetProductShareQR)

	// Public Auth Routes
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", func(c *gin.Context) {
			var loginReq struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&loginReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			token, user, err := auth.Login(c.Request.Context(), loginReq.Username, loginReq.Password)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
		})

		authGroup.POST("/register", func(c *gin.Context) {
			var regReq usecases.RegisterInput
			if err := c.ShouldBindJSON(&regReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			if !ValidSlug(regReq.Username) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username"})
				return
			}
			user, err := auth.Register(c.Request.Context(), regReq)
			if err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"status": "registered", "user": user})
		})
	}

	// Protected Routes
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		// Product Routes
		api.GET("/products", h.GetAllProducts)
		api.GET("/products/:id", h.GetProduct)
		api.POST("/products", h.CreateProduct)
		api.PUT("/products/:id", h.UpdateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)
		api.POST("/products/:id/image", h.UploadProductImage)

		// Order Routes
		api.GET("/orders", h.GetAllOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.POST("/orders", h.CreateOrder)
		api.PUT("/orders/:id/status", h.UpdateOrderStatus)

		// Social Automation Routes
		api.POST("/automation/publish/:id", h.PublishProduct)
		api.POST("/automation/monitor/:id", h.MonitorProduct)
		api.POST("/automation/comment-response", h.GenerateCommentResponse)
		api.GET("/automation/business-status", h.GetBusinessStatus)
		api.PUT("/automation/business-hours", h.UpdateBusinessHours)
		api.GET("/automation/engagement/:id", h.GetEngagementStats)

		// WhatsApp Management Routes
		api.GET("/whatsapp/qr", h.GetWhatsAppQR)
		api.GET("/whatsapp/status", h.GetWhatsAppStatus)
		api.POST("/whatsapp/logout", h.LogoutWhatsApp)
	}

	// Admin-only Routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired())
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/users", adminHandler.GetAllUsers)
		admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
	}
}

// getUserID extracts user_id from JWT context
func getUserID(c *gin.Context) int {
	v, _ := c.Get("user_id")
	if uid, ok := v.(float64); ok {
		return int(uid)
	}
	return 0
}
