// Package server wires the gin engine: middleware stack, route table and
// the HTTP listener lifecycle.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/config"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	authhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/handler"
	authservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/token"
	budgethandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/handler"
	txhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/handler"
	categoryhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/handler"
	notificationhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/handler"
	projectionhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/handler"
	savingshandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/handler"
	userdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/domain"
	userhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/handler"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/middleware"
)

// Handlers bundles every route handler for the router.
type Handlers struct {
	Auth         *authhandler.Handler
	Category     *categoryhandler.Handler
	Transaction  *txhandler.Handler
	Budget       *budgethandler.Handler
	Savings      *savingshandler.Handler
	Projection   *projectionhandler.Handler
	Notification *notificationhandler.Handler
	User         *userhandler.Handler
}

// NewRouter builds the gin engine with the full route table.
func NewRouter(
	cfg *config.Config,
	db *database.DB,
	verifier *token.Verifier,
	auth authservice.Service,
	handlers Handlers,
	logger *zap.Logger,
) *gin.Engine {
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.Recovery(logger),
	)

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})
	engine.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))

	api := engine.Group(cfg.Server.BasePath)

	// Public surface: legacy auth plus the predefined category catalog.
	public := api.Group("")
	public.Use(middleware.RateLimit(cfg.RateLimit))
	{
		public.POST("/auth/register", handlers.Auth.Register)
		public.POST("/auth/login", handlers.Auth.Login)
	}
	api.GET("/categories", handlers.Category.List)
	api.GET("/categories/type/:type", handlers.Category.ListByType)
	api.GET("/categories/:id", handlers.Category.Get)

	authed := api.Group("")
	authed.Use(middleware.Auth(verifier, auth))
	{
		authed.GET("/auth/me", handlers.Auth.Me)

		authed.POST("/transactions", handlers.Transaction.Create)
		authed.GET("/transactions", handlers.Transaction.List)
		authed.GET("/transactions/summary", handlers.Transaction.Summary)
		authed.GET("/transactions/balance", handlers.Transaction.Balance)
		authed.GET("/transactions/type/:type", handlers.Transaction.ListByType)
		authed.GET("/transactions/category/:categoryId", handlers.Transaction.ListByCategory)
		authed.GET("/transactions/range", handlers.Transaction.ListByRange)
		authed.GET("/transactions/:id", handlers.Transaction.Get)
		authed.PUT("/transactions/:id", handlers.Transaction.Update)
		authed.DELETE("/transactions/:id", handlers.Transaction.Delete)

		authed.POST("/budgets", handlers.Budget.Create)
		authed.GET("/budgets", handlers.Budget.List)
		authed.GET("/budgets/active", handlers.Budget.ListCurrent)
		authed.GET("/budgets/current", handlers.Budget.ListCurrent)
		authed.GET("/budgets/near-limit", handlers.Budget.ListNearLimit)
		authed.POST("/budgets/sync-consumption", handlers.Budget.SyncConsumption)
		authed.GET("/budgets/:publicId", handlers.Budget.Get)
		authed.PUT("/budgets/:publicId", handlers.Budget.Update)
		authed.DELETE("/budgets/:publicId", handlers.Budget.Delete)
		authed.PUT("/budgets/:publicId/deactivate", handlers.Budget.Deactivate)

		authed.POST("/savings/goals", handlers.Savings.CreateGoal)
		authed.GET("/savings/goals", handlers.Savings.ListGoals)
		authed.GET("/savings/goals/:id", handlers.Savings.GetGoal)
		authed.PUT("/savings/goals/:id", handlers.Savings.UpdateGoal)
		authed.DELETE("/savings/goals/:id", handlers.Savings.DeleteGoal)
		authed.GET("/savings/goals/:id/installments", handlers.Savings.ListInstallments)
		authed.GET("/savings/goals/:id/contributions", handlers.Savings.ListContributions)
		authed.POST("/savings/contributions", handlers.Savings.Contribute)
		authed.PUT("/savings/contributions/:id", handlers.Savings.UpdateContribution)
		authed.DELETE("/savings/contributions/:id", handlers.Savings.DeleteContribution)

		authed.POST("/projections", handlers.Projection.Create)
		authed.GET("/projections", handlers.Projection.List)
		authed.GET("/projections/:id", handlers.Projection.Get)
		authed.PUT("/projections/:id", handlers.Projection.Update)
		authed.DELETE("/projections/:id", handlers.Projection.Delete)
		authed.POST("/projections/:id/execute", handlers.Projection.Execute)

		authed.GET("/notifications", handlers.Notification.List)
		authed.PUT("/notifications/:id/read", handlers.Notification.MarkRead)
		authed.GET("/ws/notifications", handlers.Notification.Subscribe)

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireRole(userdomain.RoleAdmin))
		{
			admin.POST("/users", handlers.User.Create)
			admin.GET("/users", handlers.User.List)
			admin.PUT("/users/:publicId/deactivate", handlers.User.Deactivate)
		}
	}

	return engine
}
