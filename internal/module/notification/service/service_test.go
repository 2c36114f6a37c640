package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
)

func setup(t *testing.T) service.Service {
	t.Helper()
	gdb, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)

	db := database.NewWithGorm(gdb)
	require.NoError(t, db.Migrate())

	hub := notification.NewHub(zap.NewNop())
	return service.New(repository.NewGormRepository(db), hub, zap.NewNop())
}

func TestPublishPersists(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	svc.Publish(ctx, 1, domain.KindBudgetOver, map[string]interface{}{
		"budget_public_id": "abc",
		"consumed":         550000.0,
		"cap":              500000.0,
	})
	svc.Publish(ctx, 2, domain.KindGoalCompleted, map[string]interface{}{"goal_id": 7.0})

	mine, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.KindBudgetOver, mine[0].Kind)
	assert.False(t, mine[0].Read)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(mine[0].Payload, &payload))
	assert.Equal(t, 550000.0, payload["consumed"])
}

func TestListNewestFirst(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	svc.Publish(ctx, 1, domain.KindBudgetOver, map[string]interface{}{"n": 1.0})
	svc.Publish(ctx, 1, domain.KindGoalCompleted, map[string]interface{}{"n": 2.0})

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.KindGoalCompleted, list[0].Kind)
}

func TestMarkRead(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	svc.Publish(ctx, 1, domain.KindBudgetOver, map[string]interface{}{})
	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	read, err := svc.MarkRead(ctx, 1, list[0].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	// Ownership and existence.
	_, err = svc.MarkRead(ctx, 2, list[0].ID)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
	_, err = svc.MarkRead(ctx, 1, 99999)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
