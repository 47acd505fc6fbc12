package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/config"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCasdoorClient struct {
	mock.Mock
}

func (m *MockCasdoorClient) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*casdoorsdk.Claims), args.Error(1)
}

func TestCasdoorVerifier_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("teacher tag", func(t *testing.T) {
		client := new(MockCasdoorClient)
		client.On("ParseJwtToken", "tok").Return(&casdoorsdk.Claims{
			User: casdoorsdk.User{Id: "u-1", Name: "lan", DisplayName: "Lan Tran", Tag: "teacher"},
		}, nil)

		principal, err := (&CasdoorVerifier{client: client}).Verify(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "u-1", principal.UserID)
		assert.Equal(t, "Lan Tran", principal.Name)
		assert.Equal(t, models.RoleTeacher, principal.Role)
		client.AssertExpectations(t)
	})

	t.Run("casdoor admin", func(t *testing.T) {
		client := new(MockCasdoorClient)
		client.On("ParseJwtToken", "tok").Return(&casdoorsdk.Claims{
			User: casdoorsdk.User{Id: "u-2", Name: "root", IsAdmin: true},
		}, nil)

		principal, err := (&CasdoorVerifier{client: client}).Verify(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, principal.Role)
		assert.Equal(t, "root", principal.Name)
	})

	t.Run("parse failure", func(t *testing.T) {
		client := new(MockCasdoorClient)
		client.On("ParseJwtToken", "tok").Return(nil, errors.New("bad signature"))

		_, err := (&CasdoorVerifier{client: client}).Verify(ctx, "tok")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewVerifier(t *testing.T) {
	v, err := NewVerifier(config.AuthConfig{Provider: "jwt"}, "secret")
	require.NoError(t, err)
	assert.IsType(t, &JWTVerifier{}, v)

	v, err = NewVerifier(config.AuthConfig{Provider: "casdoor", CasdoorEndpoint: "http://localhost:8000"}, "secret")
	require.NoError(t, err)
	assert.IsType(t, &CasdoorVerifier{}, v)

	_, err = NewVerifier(config.AuthConfig{Provider: "ldap"}, "secret")
	assert.Error(t, err)
}
