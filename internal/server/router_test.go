package server_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/config"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	authhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/handler"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/jwks"
	authservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/token"
	budgethandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/handler"
	txhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/handler"
	categoryhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/handler"
	categoryrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/repository"
	categoryservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification"
	notificationhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/handler"
	projectionhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/handler"
	savingshandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/handler"
	userhandler "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/handler"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server"
)

func newTestRouter(t *testing.T) (*database.DB, *server.Handlers, *config.Config) {
	t.Helper()
	gdb, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)

	db := database.NewWithGorm(gdb)
	require.NoError(t, db.Migrate())
	require.NoError(t, db.SeedCategories())

	categories := categoryservice.New(categoryrepository.NewGormRepository(db))
	handlers := &server.Handlers{
		Auth:         authhandler.New(nil),
		Category:     categoryhandler.New(categories),
		Transaction:  txhandler.New(nil),
		Budget:       budgethandler.New(nil),
		Savings:      savingshandler.New(nil),
		Projection:   projectionhandler.New(nil),
		Notification: notificationhandler.New(nil, notification.NewHub(zap.NewNop()), zap.NewNop()),
		User:         userhandler.New(nil),
	}
	cfg := &config.Config{}
	cfg.Server.BasePath = "/api/v1"
	return db, handlers, cfg
}

func TestRouteTable(t *testing.T) {
	db, handlers, cfg := newTestRouter(t)

	verifier := token.NewVerifier(jwks.New("", time.Second, zap.NewNop()), "", false, "")
	auth := authservice.New(nil, verifier, config.LegacyAuth{}, zap.NewNop())
	engine := server.NewRouter(cfg, db, verifier, auth, *handlers, zap.NewNop())

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /api/v1/budgets/active",
		"GET /api/v1/budgets/current",
		"GET /api/v1/budgets/:publicId",
		"GET /api/v1/categories/type/:type",
		"GET /api/v1/categories/:id",
		"GET /api/v1/transactions/type/:type",
		"GET /api/v1/transactions/category/:categoryId",
		"GET /api/v1/transactions/range",
		"GET /api/v1/transactions/:id",
		"POST /api/v1/auth/register",
		"GET /api/v1/auth/me",
		"POST /api/v1/admin/users",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestStaticPathsWinOverParamSiblings(t *testing.T) {
	db, handlers, cfg := newTestRouter(t)

	verifier := token.NewVerifier(jwks.New("", time.Second, zap.NewNop()), "", false, "")
	auth := authservice.New(nil, verifier, config.LegacyAuth{}, zap.NewNop())
	engine := server.NewRouter(cfg, db, verifier, auth, *handlers, zap.NewNop())

	// The public type path resolves to the type handler, not to
	// /categories/:id with id="type".
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/v1/categories/type/INCOME", nil)
	engine.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/api/v1/categories/type/SIDEWAYS", nil)
	engine.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
