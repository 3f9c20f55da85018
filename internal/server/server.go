package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/auth"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/availability"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/booking"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/config"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/handover"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/payment"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/review"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/user"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Users        *user.Handler
	Cars         *car.Handler
	Availability *availability.Handler
	Bookings     *booking.Handler
	Handover     *handover.Handler
	Payments     *payment.Handler
	Reviews      *review.Handler
	Wallet       *wallet.Handler
	Health       *HealthHandler
}

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

func New(cfg *config.Config, h Handlers) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	public := router.Group("/auth")
	{
		public.POST("/register", h.Users.Register)
		public.POST("/login", h.Users.Login)
		public.POST("/refresh", h.Users.RefreshToken)
	}

	router.POST("/payments/callback", h.Payments.Callback)
	router.GET("/cars", h.Cars.List)
	router.GET("/cars/:carID", h.Cars.Get)
	router.GET("/cars/:carID/availability", h.Availability.Get)
	router.GET("/cars/:carID/reviews", h.Reviews.ListForCar)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.Users.GetMe)

		owners := auth.RequireRole(user.RoleHost, user.RoleShowroom)
		protected.POST("/cars", owners, h.Cars.Create)
		protected.GET("/cars/mine", owners, h.Cars.Mine)
		protected.PUT("/cars/:carID/availability", owners, h.Cars.UpdateAvailability)

		customers := auth.RequireRole(user.RoleCustomer)
		protected.POST("/bookings", customers, h.Bookings.Create)
		protected.GET("/bookings", h.Bookings.ListMine)
		protected.GET("/bookings/owner", owners, h.Bookings.ListOwner)
		protected.GET("/bookings/:bookingID", h.Bookings.Get)
		protected.PATCH("/bookings/:bookingID/status", owners, h.Bookings.UpdateStatus)
		protected.POST("/bookings/:bookingID/extend", customers, h.Bookings.Extend)
		protected.POST("/bookings/:bookingID/cancel", customers, h.Bookings.Cancel)
		protected.POST("/bookings/:bookingID/pay", customers, h.Payments.Init)
		protected.POST("/reviews", customers, h.Reviews.Create)

		protected.POST("/handover/scan", owners, h.Handover.Scan)
		protected.POST("/handover/pickup", owners, h.Handover.Pickup)
		protected.POST("/handover/return", owners, h.Handover.Return)

		protected.GET("/wallet", h.Wallet.GetWallet)
		protected.GET("/wallet/transactions", h.Wallet.ListTransactions)
		protected.GET("/wallet/ledger", h.Wallet.VerifyLedger)
		protected.POST("/wallet/withdrawals", h.Wallet.RequestWithdrawal)
		protected.GET("/wallet/withdrawals", h.Wallet.ListMyWithdrawals)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(user.RoleAdmin))
	{
		admin.PATCH("/users/:userID/kyc", h.Users.SetKYC)
		admin.GET("/users/:userID/pending-earnings", h.Wallet.PendingEarnings)
		admin.PATCH("/cars/:carID/approval", h.Cars.SetApproval)
		admin.GET("/withdrawals", h.Wallet.ListWithdrawals)
		admin.POST("/withdrawals/:requestID/approve", h.Wallet.ApproveWithdrawal)
		admin.POST("/withdrawals/:requestID/reject", h.Wallet.RejectWithdrawal)
	}

	return &Server{
		router: router,
		config: cfg,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
