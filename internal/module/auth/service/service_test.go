package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/config"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/jwks"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/token"
	userdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/domain"
	userrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
)

type fixture struct {
	svc      service.Service
	users    userrepository.Repository
	verifier *token.Verifier
}

func setup(t *testing.T, legacy config.LegacyAuth) *fixture {
	t.Helper()
	gdb, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)

	db := database.NewWithGorm(gdb)
	require.NoError(t, db.Migrate())

	users := userrepository.NewGormRepository(db)
	verifier := token.NewVerifier(jwks.New("", time.Second, zap.NewNop()), "", legacy.Enabled, legacy.Secret)
	return &fixture{
		svc:      service.New(users, verifier, legacy, zap.NewNop()),
		users:    users,
		verifier: verifier,
	}
}

func legacyEnabled() config.LegacyAuth {
	return config.LegacyAuth{Enabled: true, Secret: "test-secret", TokenTTL: time.Hour}
}

func (f *fixture) mustUser(t *testing.T, email string, active bool, subject *uuid.UUID) *userdomain.User {
	t.Helper()
	user := &userdomain.User{
		Email:             email,
		Role:              userdomain.RoleUser,
		Active:            active,
		ExternalSubjectID: subject,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestResolveBySubject(t *testing.T) {
	f := setup(t, config.LegacyAuth{})
	subject := uuid.New()
	user := f.mustUser(t, "ana@example.test", true, &subject)

	resolved, err := f.svc.Resolve(context.Background(), &token.Principal{Subject: &subject})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestResolveByLegacyID(t *testing.T) {
	f := setup(t, config.LegacyAuth{})
	user := f.mustUser(t, "old@example.test", true, nil)

	resolved, err := f.svc.Resolve(context.Background(), &token.Principal{LegacyUserID: &user.ID})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestResolveUnknownIsUnauthenticated(t *testing.T) {
	f := setup(t, config.LegacyAuth{})
	subject := uuid.New()

	_, err := f.svc.Resolve(context.Background(), &token.Principal{Subject: &subject})
	assert.True(t, apperr.Is(err, apperr.CodeAuthInvalid))
}

func TestResolveInactive(t *testing.T) {
	f := setup(t, config.LegacyAuth{})
	subject := uuid.New()
	f.mustUser(t, "gone@example.test", false, &subject)

	_, err := f.svc.Resolve(context.Background(), &token.Principal{Subject: &subject})
	assert.True(t, apperr.Is(err, apperr.CodeAuthUserInactive))
}

func TestRegisterAndLogin(t *testing.T) {
	f := setup(t, legacyEnabled())
	ctx := context.Background()

	user, err := f.svc.Register(ctx, dto.RegisterRequest{
		Email:    "new@example.test",
		Password: "hunter2hunter2",
		FullName: "New User",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.PublicID)

	// Duplicate email.
	_, err = f.svc.Register(ctx, dto.RegisterRequest{Email: "new@example.test", Password: "hunter2hunter2"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	resp, err := f.svc.Login(ctx, dto.LoginRequest{Email: "new@example.test", Password: "hunter2hunter2"})
	require.NoError(t, err)

	// The issued token verifies and resolves back to the same user.
	principal, err := f.verifier.Verify(ctx, resp.Token)
	require.NoError(t, err)
	resolved, err := f.svc.Resolve(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	f := setup(t, legacyEnabled())
	ctx := context.Background()

	_, err := f.svc.Register(ctx, dto.RegisterRequest{Email: "a@example.test", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "a@example.test", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.CodeAuthInvalid))

	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.test", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.CodeAuthInvalid))
}

func TestPasswordFlowsDisabledByDefault(t *testing.T) {
	f := setup(t, config.LegacyAuth{})
	ctx := context.Background()

	_, err := f.svc.Register(ctx, dto.RegisterRequest{Email: "a@example.test", Password: "hunter2hunter2"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "a@example.test", Password: "hunter2hunter2"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestMe(t *testing.T) {
	f := setup(t, config.LegacyAuth{})
	user := f.mustUser(t, "me@example.test", true, nil)

	me, err := f.svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.test", me.Email)
	assert.Equal(t, user.PublicID.String(), me.PublicID)
}
