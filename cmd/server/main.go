// Server entrypoint. Dependency wiring lives here; everything else is
// constructor injection.
package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	_ "github.com/1Zamuken1/gastuapp-backend-sub000/docs"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/config"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/cache"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/logger"
	authhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/handler"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/jwks"
	authservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/token"
	budgethandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/handler"
	budgetrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/repository"
	budgetservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/service"
	txhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/handler"
	txrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/repository"
	txservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/service"
	categoryhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/handler"
	categoryrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/repository"
	categoryservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification"
	notificationhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/handler"
	notificationrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/repository"
	notificationservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/service"
	projectionhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/handler"
	projectionrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/repository"
	projectionservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/service"
	savingshandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/handler"
	savingsrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/repository"
	savingsservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/service"
	userhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/handler"
	userrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/repository"
	userservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server"
)

// @title           Gastuapp API
// @version         1.0
// @description     Personal finance backend: ledger, budgets, savings goals and projections.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	fx.New(
		fx.Provide(
			config.Load,
			func(cfg *config.Config) (*zap.Logger, error) { return logger.New(cfg.Log) },
			func(cfg *config.Config, log *zap.Logger) (*database.DB, error) {
				return database.New(cfg.Database, log)
			},
			func(cfg *config.Config, log *zap.Logger) *cache.Cache {
				return cache.New(cfg.Redis, log)
			},
			func(cfg *config.Config, log *zap.Logger) *jwks.Cache {
				return jwks.New(cfg.Auth.JWKSURL, cfg.Auth.FetchTimeout, log)
			},
			func(cfg *config.Config, keys *jwks.Cache) *token.Verifier {
				return token.NewVerifier(keys, cfg.Auth.Issuer, cfg.Auth.Legacy.Enabled, cfg.Auth.Legacy.Secret)
			},

			userrepository.NewGormRepository,
			categoryrepository.NewGormRepository,
			txrepository.NewGormRepository,
			budgetrepository.NewGormRepository,
			savingsrepository.NewGormRepository,
			projectionrepository.NewGormRepository,
			notificationrepository.NewGormRepository,

			notification.NewHub,
			notificationservice.New,
			func(s notificationservice.Service) notificationservice.Publisher { return s },

			categoryservice.New,
			budgetservice.New,
			func(
				repo txrepository.Repository,
				categoryRepo categoryrepository.Repository,
				budgets budgetservice.Service,
				db *database.DB,
				c *cache.Cache,
				cfg *config.Config,
				publisher notificationservice.Publisher,
				log *zap.Logger,
			) txservice.Service {
				return txservice.New(repo, categoryRepo, budgets, db, c, cfg.Redis.SummaryTTL, publisher, log)
			},
			savingsservice.New,
			projectionservice.New,
			func(users userrepository.Repository, verifier *token.Verifier, cfg *config.Config, log *zap.Logger) authservice.Service {
				return authservice.New(users, verifier, cfg.Auth.Legacy, log)
			},
			userservice.New,
			func(budgets budgetservice.Service, cfg *config.Config, log *zap.Logger) *budgetservice.RenewalScheduler {
				return budgetservice.NewRenewalScheduler(budgets, cfg.Scheduler, log)
			},

			authhandler.New,
			categoryhandler.New,
			txhandler.New,
			budgethandler.New,
			savingshandler.New,
			projectionhandler.New,
			notificationhandler.New,
			userhandler.New,
			func(
				auth *authhandler.Handler,
				category *categoryhandler.Handler,
				transaction *txhandler.Handler,
				budget *budgethandler.Handler,
				savings *savingshandler.Handler,
				projection *projectionhandler.Handler,
				notif *notificationhandler.Handler,
				user *userhandler.Handler,
			) server.Handlers {
				return server.Handlers{
					Auth:         auth,
					Category:     category,
					Transaction:  transaction,
					Budget:       budget,
					Savings:      savings,
					Projection:   projection,
					Notification: notif,
					User:         user,
				}
			},
			server.NewRouter,
			func(cfg *config.Config, engine *gin.Engine, log *zap.Logger) *server.Server {
				return server.New(cfg, engine, log)
			},
		),
		fx.Invoke(run),
	).Run()
}

func run(
	lc fx.Lifecycle,
	db *database.DB,
	c *cache.Cache,
	srv *server.Server,
	scheduler *budgetservice.RenewalScheduler,
	log *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := db.SeedCategories(); err != nil {
				return err
			}
			if err := scheduler.Start(); err != nil {
				return err
			}
			srv.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil {
				log.Warn("http shutdown failed", zap.Error(err))
			}
			scheduler.Stop()
			if err := c.Close(); err != nil {
				log.Warn("redis close failed", zap.Error(err))
			}
			return db.Close()
		},
	})
}
