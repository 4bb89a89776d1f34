package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/testutil"
	"github.com/wiruacademy/clubsite/internal/utils"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(repository.NewUserRepository(db), "test-secret", 24*time.Hour, 720*time.Hour, "test", nil)
}

func TestRegister(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	user, err := svc.Register("Member@Example.com", "fighter", "SecurePass123")
	require.NoError(t, err)

	assert.Equal(t, "member@example.com", user.Email)
	require.NotNil(t, user.Username)
	assert.Equal(t, "fighter", *user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.False(t, user.HasAdminRights())
	assert.NotEqual(t, "SecurePass123", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	_, err := svc.Register("member@example.com", "", "SecurePass123")
	require.NoError(t, err)

	// Same address with different case is still the same principal.
	_, err = svc.Register("MEMBER@example.com", "", "OtherPass456")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	_, err := svc.Register("one@example.com", "fighter", "SecurePass123")
	require.NoError(t, err)

	_, err = svc.Register("two@example.com", "fighter", "SecurePass123")
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	_, err := svc.Register("not-an-email", "", "SecurePass123")
	assert.Error(t, err)

	_, err = svc.Register("member@example.com", "", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestAuthenticate(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	registered, err := svc.Register("member@example.com", "fighter", "SecurePass123")
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		user, err := svc.Authenticate("member@example.com", "SecurePass123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("by email different case", func(t *testing.T) {
		user, err := svc.Authenticate("MEMBER@Example.COM", "SecurePass123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("by username", func(t *testing.T) {
		user, err := svc.Authenticate("fighter", "SecurePass123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})
}

func TestAuthenticateUniformFailure(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	user, err := svc.Register("member@example.com", "", "SecurePass123")
	require.NoError(t, err)

	// Unknown identifier, wrong password and inactive account must be
	// indistinguishable.
	_, unknownErr := svc.Authenticate("nobody@example.com", "SecurePass123")
	_, wrongErr := svc.Authenticate("member@example.com", "WrongPass123")

	user.IsActive = false
	require.NoError(t, td.DB.Save(user).Error)
	_, inactiveErr := svc.Authenticate("member@example.com", "SecurePass123")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.ErrorIs(t, inactiveErr, ErrInvalidCredentials)
}

func TestAuthenticateMalformedStoredHash(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	corrupt := &models.User{
		Email:        "corrupt@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         models.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, td.DB.Create(corrupt).Error)

	_, err := svc.Authenticate("corrupt@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenFor(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	user := testutil.DefaultTestUser(t, td.DB)

	token, ttl, err := svc.TokenFor(user, false)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 24*time.Hour, ttl)

	_, rememberTTL, err := svc.TokenFor(user, true)
	require.NoError(t, err)
	assert.Equal(t, 720*time.Hour, rememberTTL)

	claims, err := utils.ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestChangePassword(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	user := testutil.CreateTestUser(t, td.DB, "member@example.com", "OldPass123", models.RoleUser)

	err := svc.ChangePassword(user, "WrongPass123", "NewPass456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(user, "OldPass123", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	require.NoError(t, svc.ChangePassword(user, "OldPass123", "NewPass456"))

	_, err = svc.Authenticate("member@example.com", "NewPass456")
	assert.NoError(t, err)
	_, err = svc.Authenticate("member@example.com", "OldPass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	user := testutil.DefaultTestUser(t, td.DB)

	require.NoError(t, svc.UpdateProfile(user, "fighter", "Ivan Petrov", "blue belt", "adults"))

	require.NotNil(t, user.Username)
	assert.Equal(t, "fighter", *user.Username)
	require.NotNil(t, user.FullName)
	assert.Equal(t, "Ivan Petrov", *user.FullName)

	// Level and group are admin-managed; a regular member cannot set them.
	assert.Nil(t, user.Level)
	assert.Nil(t, user.GroupName)
}

func TestUpdateProfileAdminFields(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	admin := testutil.DefaultAdminUser(t, td.DB)

	require.NoError(t, svc.UpdateProfile(admin, "", "", "head coach", "staff"))
	require.NotNil(t, admin.Level)
	assert.Equal(t, "head coach", *admin.Level)
	require.NotNil(t, admin.GroupName)
	assert.Equal(t, "staff", *admin.GroupName)
}

func TestUpdateProfileUsernameConflict(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	_, err := svc.Register("one@example.com", "taken", "SecurePass123")
	require.NoError(t, err)
	user := testutil.DefaultTestUser(t, td.DB)

	err = svc.UpdateProfile(user, "taken", "", "", "")
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
}

func TestUpdateProfileSanitizesFullName(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newAuthService(td.DB)

	user := testutil.DefaultTestUser(t, td.DB)
	require.NoError(t, svc.UpdateProfile(user, "", "<script>x</script>Ivan", "", ""))

	require.NotNil(t, user.FullName)
	assert.Equal(t, "xIvan", *user.FullName)
}
