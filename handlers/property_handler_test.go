package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/middleware"
	"github.com/urbanrent/urban_rent/models"
)

func setupPropertyApp() *fiber.App {
	app := setupTestApp()
	app.Get("/places", ListPlaces)
	app.Get("/places/search", SearchPlaces)
	app.Post("/places", middleware.Protected(), middleware.ListerRequired(), AddPlace)
	app.Put("/places/update-place", middleware.Protected(), UpdatePlace)
	app.Get("/places/:id", GetPlace)
	return app
}

func TestAddPlace(t *testing.T) {
	database.DB = setupTestDB()
	owner := createTestUser(t, "Owner One", "owner1@example.com", models.RoleOwner)
	broker := createTestUser(t, "Broker One", "broker1@example.com", models.RoleBroker)
	tenant := createTestUser(t, "Tenant One", "tenant1@example.com", models.RoleTenant)

	app := setupPropertyApp()

	placeBody := map[string]any{
		"name":        "Bole Guest House",
		"description": "Quiet two-bedroom near the airport",
		"price":       1500,
		"max_guests":  4,
		"location": map[string]any{
			"sub_city":  "Bole",
			"woreda":    "03",
			"kebele":    "05",
			"house_no":  "124",
			"area_name": "Bole Medhanealem",
		},
		"perks":  []string{"wifi", "parking"},
		"photos": []string{"https://cdn.example.com/p1.jpg"},
	}

	t.Run("owner can create a listing with location, perks and photos", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", "/places", placeBody, tokenFor(t, owner))

		require.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, "Bole Guest House", (*body)["name"])
		assert.Equal(t, false, (*body)["is_broker_listing"])

		var property models.Property
		require.NoError(t, database.DB.Preload("Location").Preload("Perks").Preload("Photos").
			Where("owner_id = ?", owner.ID).First(&property).Error)
		assert.Equal(t, "Bole", property.Location.SubCity)
		assert.Len(t, property.Perks, 2)
		assert.Len(t, property.Photos, 1)

		// First listing lazily creates the owner's shadow profile.
		var profile models.OwnerProfile
		assert.NoError(t, database.DB.Where("user_id = ?", owner.ID).First(&profile).Error)
	})

	t.Run("broker listings are flagged", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", "/places", placeBody, tokenFor(t, broker))

		require.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, true, (*body)["is_broker_listing"])
	})

	t.Run("tenants cannot create listings", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/places", placeBody, tokenFor(t, tenant))
		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/places", placeBody, "")
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("missing required fields are rejected", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/places", map[string]any{
			"name": "No Price",
			"location": map[string]any{
				"sub_city": "Bole",
			},
		}, tokenFor(t, owner))
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestUpdatePlace(t *testing.T) {
	database.DB = setupTestDB()
	owner := createTestUser(t, "Owner Two", "owner2@example.com", models.RoleOwner)
	other := createTestUser(t, "Other Owner", "other@example.com", models.RoleOwner)
	property := createTestProperty(t, owner, "Kazanchis Condo", 2000, 3)
	database.DB.Create(&models.Perk{PropertyID: property.ID, Name: "wifi"})

	app := setupPropertyApp()

	t.Run("only the owner may update", func(t *testing.T) {
		body, status := doJSON(t, app, "PUT", "/places/update-place", map[string]any{
			"id":    property.ID.String(),
			"price": 2500,
		}, tokenFor(t, other))

		assert.Equal(t, fiber.StatusForbidden, status)
		assert.Equal(t, "You are not the owner of this property", (*body)["error"])
	})

	t.Run("owner update replaces perks and appends photos", func(t *testing.T) {
		_, status := doJSON(t, app, "PUT", "/places/update-place", map[string]any{
			"id":     property.ID.String(),
			"price":  2500,
			"perks":  []string{"generator", "water tank"},
			"photos": []string{"https://cdn.example.com/new.jpg"},
		}, tokenFor(t, owner))

		require.Equal(t, fiber.StatusOK, status)

		var updated models.Property
		require.NoError(t, database.DB.Preload("Perks").Preload("Photos").First(&updated, "id = ?", property.ID).Error)
		assert.Equal(t, 2500.0, updated.Price)
		assert.Len(t, updated.Perks, 2)
		for _, perk := range updated.Perks {
			assert.NotEqual(t, "wifi", perk.Name)
		}
		assert.Len(t, updated.Photos, 1)
	})

	t.Run("unknown property returns 404", func(t *testing.T) {
		_, status := doJSON(t, app, "PUT", "/places/update-place", map[string]any{
			"id":    "7b3e72c4-0000-0000-0000-000000000000",
			"price": 100,
		}, tokenFor(t, owner))
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestSearchPlaces(t *testing.T) {
	database.DB = setupTestDB()
	owner := createTestUser(t, "Owner Three", "owner3@example.com", models.RoleOwner)

	cheap := createTestProperty(t, owner, "Cheap Room", 800, 2)
	_ = createTestProperty(t, owner, "Pricey Villa", 9000, 8)

	app := setupPropertyApp()

	t.Run("filters by max price", func(t *testing.T) {
		req, status := doJSONList(t, app, "GET", "/places/search?max_price=1000", "")
		require.Equal(t, fiber.StatusOK, status)
		require.Len(t, req, 1)
		assert.Equal(t, cheap.ID.String(), req[0]["id"])
	})

	t.Run("filters by minimum guests", func(t *testing.T) {
		req, status := doJSONList(t, app, "GET", "/places/search?min_guests=5", "")
		require.Equal(t, fiber.StatusOK, status)
		require.Len(t, req, 1)
		assert.Equal(t, "Pricey Villa", req[0]["name"])
	})

	t.Run("no filters returns everything", func(t *testing.T) {
		req, status := doJSONList(t, app, "GET", "/places/search", "")
		require.Equal(t, fiber.StatusOK, status)
		assert.Len(t, req, 2)
	})
}

func TestGetPlace(t *testing.T) {
	database.DB = setupTestDB()
	owner := createTestUser(t, "Owner Four", "owner4@example.com", models.RoleOwner)
	property := createTestProperty(t, owner, "Piassa Apartment", 1200, 2)

	app := setupPropertyApp()

	t.Run("returns the property with its location", func(t *testing.T) {
		body, status := doJSON(t, app, "GET", "/places/"+property.ID.String(), nil, "")
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "Piassa Apartment", (*body)["name"])
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		_, status := doJSON(t, app, "GET", "/places/7b3e72c4-0000-0000-0000-000000000000", nil, "")
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}
