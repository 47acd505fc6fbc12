package auth

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTVerifier_RoundTrip(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")

	token, err := verifier.IssueToken("teacher-7", models.RoleTeacher, "Ms. Ng", time.Hour)
	require.NoError(t, err)

	principal, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "teacher-7", principal.UserID)
	assert.Equal(t, models.RoleTeacher, principal.Role)
	assert.Equal(t, "Ms. Ng", principal.Name)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")
	ctx := context.Background()

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTVerifier("other-secret").IssueToken("student-1", models.RoleStudent, "", time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := verifier.IssueToken("student-1", models.RoleStudent, "", -time.Minute)
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no subject", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: "student"}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Sub: "student-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTVerifier_UnknownRoleIsStudent(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")

	token, err := verifier.IssueToken("user-1", models.UserRole("superuser"), "", time.Hour)
	require.NoError(t, err)

	principal, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, principal.Role)
}
