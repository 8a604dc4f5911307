package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallretail/tillpoint/internal/user/domain"
	"github.com/smallretail/tillpoint/internal/user/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateAndAuthenticate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{
		Username: "asha",
		FullName: "Asha Perera",
		Password: "till-pass-1",
		Role:     domain.RoleCashier,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCashier, created.Role)
	assert.NotEqual(t, "till-pass-1", created.PasswordHash)

	user, err := svc.Authenticate(ctx, "asha", "till-pass-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Username: "asha", Password: "till-pass-1"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "asha", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "till-pass-1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "asha", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Username: " ", Password: "long-enough"})
	assert.ErrorIs(t, err, domain.ErrInvalidUsername)

	_, err = svc.Create(ctx, domain.CreateRequest{Username: "asha", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestCreateDuplicateUsername(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Username: "asha", Password: "till-pass-1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{Username: "asha", Password: "till-pass-2"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUnknownRoleDefaultsToCashier(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{
		Username: "asha",
		Password: "till-pass-1",
		Role:     domain.Role("SUPERUSER"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCashier, created.Role)
}
