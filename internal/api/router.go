package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cmcs/claims-api/internal/api/handler"
	"github.com/cmcs/claims-api/internal/api/middleware"
	"github.com/cmcs/claims-api/internal/core/domain"
	"github.com/cmcs/claims-api/internal/core/ports"
)

// RouterDeps carries everything the router needs; services are constructed
// by the caller so the same instances can feed the approval dispatcher.
type RouterDeps struct {
	DB        *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Logger    zerolog.Logger
	Clock     ports.Clock

	AuthService     ports.AuthService
	ClaimService    ports.ClaimService
	ApprovalService ports.ApprovalService
	ReportService   ports.ReportService
	InvoiceService  ports.InvoiceService
	ApprovalQueue   handler.AutoApprovalQueue
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("claims"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	claimHandler := handler.NewClaimHandler(deps.ClaimService, deps.ApprovalQueue)
	approvalHandler := handler.NewApprovalHandler(deps.ApprovalService)
	reportHandler := handler.NewReportHandler(deps.ReportService, deps.Clock)
	invoiceHandler := handler.NewInvoiceHandler(deps.InvoiceService)

	auth := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Claims ---
	claims := e.Group("/v1/claims", auth)
	claims.POST("", claimHandler.Submit, middleware.RBAC(domain.RoleLecturer))
	claims.GET("", claimHandler.List)
	claims.GET("/:id", claimHandler.Get)
	claims.POST("/:id/approve", approvalHandler.Approve, middleware.RBAC(domain.RoleCoordinator, domain.RoleManager))
	claims.POST("/:id/reject", approvalHandler.Reject, middleware.RBAC(domain.RoleCoordinator, domain.RoleManager))
	claims.GET("/:id/invoice", invoiceHandler.Generate, middleware.RBAC(domain.RoleHR))

	// --- Reports ---
	reports := e.Group("/v1/reports", auth, middleware.RBAC(domain.RoleHR, domain.RoleManager))
	reports.POST("/monthly", reportHandler.GenerateMonthly)
	reports.GET("", reportHandler.List)

	// --- Dashboard ---
	e.GET("/v1/dashboard/lecturer", claimHandler.Dashboard, auth, middleware.RBAC(domain.RoleLecturer))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
