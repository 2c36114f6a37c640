package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
)

func setup(t *testing.T) (service.Service, repository.Repository) {
	t.Helper()
	gdb, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)

	db := database.NewWithGorm(gdb)
	require.NoError(t, db.Migrate())

	repo := repository.NewGormRepository(db)
	return service.New(repo, zap.NewNop()), repo
}

func TestList(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.test", "b@example.test"} {
		require.NoError(t, repo.Create(ctx, &domain.User{
			Email:  email,
			Role:   domain.RoleUser,
			Active: true,
		}))
	}

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestCreateDefaultsToUserRole(t *testing.T) {
	svc, _ := setup(t)

	user, err := svc.Create(context.Background(), dto.CreateUserRequest{Email: "a@example.test"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, uuid.Nil, user.PublicID)
}

func TestCreateChildRequiresGuardianWithUserRole(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	guardian, err := svc.Create(ctx, dto.CreateUserRequest{Email: "parent@example.test"})
	require.NoError(t, err)

	child, err := svc.Create(ctx, dto.CreateUserRequest{
		Email:      "kid@example.test",
		Role:       string(domain.RoleUserChild),
		GuardianID: &guardian.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, child.GuardianID)
	assert.Equal(t, guardian.ID, *child.GuardianID)

	// A child must name a guardian.
	_, err = svc.Create(ctx, dto.CreateUserRequest{Email: "a@example.test", Role: "USER_CHILD"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	// The guardian row must exist.
	missing := uint(99999)
	_, err = svc.Create(ctx, dto.CreateUserRequest{Email: "b@example.test", Role: "USER_CHILD", GuardianID: &missing})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	// Admins cannot hold guardianship.
	admin := &domain.User{Email: "root@example.test", Role: domain.RoleAdmin, Active: true}
	require.NoError(t, repo.Create(ctx, admin))
	_, err = svc.Create(ctx, dto.CreateUserRequest{Email: "c@example.test", Role: "USER_CHILD", GuardianID: &admin.ID})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	// Guardians are only valid on child accounts.
	_, err = svc.Create(ctx, dto.CreateUserRequest{Email: "d@example.test", GuardianID: &guardian.ID})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateUserRequest{Email: "a@example.test"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateUserRequest{Email: "a@example.test"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestDeactivate(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	user := &domain.User{Email: "a@example.test", Role: domain.RoleUser, Active: true}
	require.NoError(t, repo.Create(ctx, user))

	deactivated, err := svc.Deactivate(ctx, user.PublicID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	// Deactivation sticks; the row is kept.
	fresh, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, fresh.Active)

	_, err = svc.Deactivate(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
