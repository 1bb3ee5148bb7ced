package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/models"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterUser(t *testing.T) {
	database.DB = setupTestDB()

	app := setupTestApp()
	app.Post("/user/register", RegisterUser)

	t.Run("valid registration returns user and token", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", "/user/register", map[string]any{
			"name":     "Abel Tesfaye",
			"email":    "abel@example.com",
			"password": "Secret1!",
			"role":     models.RoleTenant,
		}, "")

		require.Equal(t, fiber.StatusOK, status)
		assert.NotEmpty(t, (*body)["token"])
		assert.NotNil(t, (*body)["user"])

		var user models.User
		require.NoError(t, database.DB.Where("email = ?", "abel@example.com").First(&user).Error)
		assert.Equal(t, models.RoleTenant, user.Role)

		// Stored password must be a hash, never the plaintext.
		assert.NotEqual(t, "Secret1!", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Secret1!")))
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", "/user/register", map[string]any{
			"name":     "Abel Again",
			"email":    "abel@example.com",
			"password": "Secret1!",
			"role":     models.RoleTenant,
		}, "")

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "User already registered!", (*body)["error"])
	})

	t.Run("missing role defaults to tenant", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", "/user/register", map[string]any{
			"name":     "A",
			"email":    "a@x.com",
			"password": "Secret1!",
		}, "")

		require.Equal(t, fiber.StatusOK, status)
		assert.NotEmpty(t, (*body)["token"])

		var user models.User
		require.NoError(t, database.DB.Where("email = ?", "a@x.com").First(&user).Error)
		assert.Equal(t, models.RoleTenant, user.Role)
	})

	t.Run("admin role cannot be self-registered", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/user/register", map[string]any{
			"name":     "Sneaky Admin",
			"email":    "sneaky@example.com",
			"password": "Secret1!",
			"role":     models.RoleAdmin,
		}, "")

		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("missing password is rejected", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/user/register", map[string]any{
			"name":  "No Password",
			"email": "nopass@example.com",
			"role":  models.RoleTenant,
		}, "")

		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestLoginUser(t *testing.T) {
	database.DB = setupTestDB()
	createTestUser(t, "Sara Bekele", "sara@example.com", models.RoleOwner)

	app := setupTestApp()
	app.Post("/user/login", LoginUser)

	t.Run("correct credentials and role succeed", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", "/user/login", map[string]any{
			"email":    "sara@example.com",
			"password": "password123",
			"role":     models.RoleOwner,
		}, "")

		require.Equal(t, fiber.StatusOK, status)
		assert.NotEmpty(t, (*body)["token"])
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/user/login", map[string]any{
			"email":    "sara@example.com",
			"password": "wrong-password",
			"role":     models.RoleOwner,
		}, "")

		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("role mismatch is rejected", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", "/user/login", map[string]any{
			"email":    "sara@example.com",
			"password": "password123",
			"role":     models.RoleTenant,
		}, "")

		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "Role does not match this account", (*body)["error"])
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/user/login", map[string]any{
			"email":    "ghost@example.com",
			"password": "password123",
			"role":     models.RoleTenant,
		}, "")

		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("deactivated account is rejected", func(t *testing.T) {
		user := createTestUser(t, "Blocked User", "blocked@example.com", models.RoleTenant)
		database.DB.Model(user).Update("is_active", false)

		_, status := doJSON(t, app, "POST", "/user/login", map[string]any{
			"email":    "blocked@example.com",
			"password": "password123",
			"role":     models.RoleTenant,
		}, "")

		assert.Equal(t, fiber.StatusForbidden, status)
	})
}

func TestGoogleLogin(t *testing.T) {
	database.DB = setupTestDB()

	app := setupTestApp()
	app.Post("/user/google/login", GoogleLogin)

	t.Run("new identity creates a user", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", "/user/google/login", map[string]any{
			"name":  "Hanna Girma",
			"email": "hanna@example.com",
			"role":  models.RoleTenant,
		}, "")

		require.Equal(t, fiber.StatusOK, status)
		assert.NotEmpty(t, (*body)["token"])

		var user models.User
		require.NoError(t, database.DB.Where("email = ?", "hanna@example.com").First(&user).Error)
		assert.Equal(t, models.RoleTenant, user.Role)
		assert.NotEmpty(t, user.Password)
	})

	t.Run("existing identity logs in without creating a duplicate", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/user/google/login", map[string]any{
			"name":  "Hanna Girma",
			"email": "hanna@example.com",
			"role":  models.RoleTenant,
		}, "")

		require.Equal(t, fiber.StatusOK, status)

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", "hanna@example.com").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("role mismatch on existing account is rejected", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/user/google/login", map[string]any{
			"name":  "Hanna Girma",
			"email": "hanna@example.com",
			"role":  models.RoleOwner,
		}, "")

		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("fresh picture is persisted on login", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/user/google/login", map[string]any{
			"name":    "Hanna Girma",
			"email":   "hanna@example.com",
			"picture": "https://lh3.example.com/hanna.jpg",
			"role":    models.RoleTenant,
		}, "")

		require.Equal(t, fiber.StatusOK, status)

		var user models.User
		require.NoError(t, database.DB.Where("email = ?", "hanna@example.com").First(&user).Error)
		require.NotNil(t, user.Picture)
		assert.Equal(t, "https://lh3.example.com/hanna.jpg", *user.Picture)
	})
}
