package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateRandomOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp := GenerateRandomOTP()
		assert.Len(t, otp, 6)
		assert.Empty(t, strings.Trim(otp, digits))
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	assert.Len(t, []rune(GenerateRandomPassword(12)), 12)
	assert.Empty(t, GenerateRandomPassword(0))
}

func TestGenerateEmailFromName(t *testing.T) {
	email := GenerateEmailFromName("Maria Santos", "demo.com")
	assert.True(t, strings.HasPrefix(email, "mariasantos"))
	assert.True(t, strings.HasSuffix(email, "@demo.com"))
}

func TestGenerateRandomVA(t *testing.T) {
	user, profile, err := GenerateRandomVA("secret", "demo.com")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleVA, user.Role)
	assert.Equal(t, domain.UserStatusApproved, user.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))

	require.NotNil(t, profile.HourlyRate)
	require.NotNil(t, profile.MonthlySalary)
	assert.Equal(t, *profile.HourlyRate*160, *profile.MonthlySalary)
	assert.GreaterOrEqual(t, profile.IDProofScore, int32(60))
	assert.LessOrEqual(t, profile.IDProofScore, int32(100))
	assert.NotEmpty(t, profile.Skills)
	assert.LessOrEqual(t, len(profile.Skills), 4)
}
