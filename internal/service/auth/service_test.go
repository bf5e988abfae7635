package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosewatch/dosewatch/internal/config"
	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/repository/memory"
)

func newTestService() *Service {
	return NewService(memory.NewProfileRepository(), config.JWTConfig{
		Secret:      "test-secret",
		ExpiryHours: 1,
	})
}

func TestLoginAndValidate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	profile, err := svc.CreateProfile(ctx, &model.CreateProfileRequest{Name: "grandma", Pin: "4321"})
	require.NoError(t, err)
	assert.NotEqual(t, "4321", profile.PinHash, "pin must be stored hashed")

	token, err := svc.Login(ctx, &model.LoginRequest{ProfileID: profile.ID, Pin: "4321"})
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)
	assert.Equal(t, profile.ID, token.ProfileID)

	profileID, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, profileID)
}

func TestLoginRejectsWrongPin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	profile, err := svc.CreateProfile(ctx, &model.CreateProfileRequest{Name: "grandma", Pin: "4321"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{ProfileID: profile.ID, Pin: "0000"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &model.LoginRequest{ProfileID: 404, Pin: "4321"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForgery(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	profile, err := svc.CreateProfile(ctx, &model.CreateProfileRequest{Name: "grandma", Pin: "4321"})
	require.NoError(t, err)
	token, err := svc.Login(ctx, &model.LoginRequest{ProfileID: profile.ID, Pin: "4321"})
	require.NoError(t, err)

	other := NewService(memory.NewProfileRepository(), config.JWTConfig{Secret: "different", ExpiryHours: 1})
	_, err = other.ValidateToken(token.AccessToken)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
