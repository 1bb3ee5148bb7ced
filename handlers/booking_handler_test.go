package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/middleware"
	"github.com/urbanrent/urban_rent/models"
)

func setupBookingApp() *fiber.App {
	app := setupTestApp()
	bookings := app.Group("/bookings", middleware.Protected())
	bookings.Post("", middleware.TenantRequired(), CreateBooking)
	bookings.Get("", GetMyBookings)
	bookings.Post("/:bookingId/confirm", ConfirmBooking)
	bookings.Post("/:bookingId/cancel", CancelBooking)
	app.Get("/owner/bookings", middleware.Protected(), middleware.ListerRequired(), GetOwnerBookings)
	return app
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestCreateBooking(t *testing.T) {
	database.DB = setupTestDB()
	owner := createTestUser(t, "Booking Owner", "bowner@example.com", models.RoleOwner)
	tenant := createTestUser(t, "Booking Tenant", "btenant@example.com", models.RoleTenant)
	property := createTestProperty(t, owner, "Booking Condo", 1000, 4)

	app := setupBookingApp()

	t.Run("pending booking priced by nights", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", "/bookings", map[string]any{
			"property_id": property.ID.String(),
			"check_in":    futureDate(10),
			"check_out":   futureDate(13),
			"guests":      2,
		}, tokenFor(t, tenant))

		require.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, "pending", (*body)["status"])
		assert.Equal(t, 3000.0, (*body)["total_price"])
		assert.True(t, strings.HasPrefix((*body)["reference"].(string), "UR-"))
	})

	t.Run("check-out before check-in is rejected", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/bookings", map[string]any{
			"property_id": property.ID.String(),
			"check_in":    futureDate(13),
			"check_out":   futureDate(10),
			"guests":      2,
		}, tokenFor(t, tenant))
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("past check-in is rejected", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/bookings", map[string]any{
			"property_id": property.ID.String(),
			"check_in":    "2020-01-01",
			"check_out":   "2020-01-05",
			"guests":      2,
		}, tokenFor(t, tenant))
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("guest count above capacity is rejected", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", "/bookings", map[string]any{
			"property_id": property.ID.String(),
			"check_in":    futureDate(20),
			"check_out":   futureDate(22),
			"guests":      9,
		}, tokenFor(t, tenant))

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, (*body)["error"], "at most 4 guests")
	})

	t.Run("dates overlapping a confirmed booking are rejected", func(t *testing.T) {
		other := createTestUser(t, "Other Tenant", "btenant2@example.com", models.RoleTenant)
		require.NoError(t, database.DB.Create(&models.Booking{
			Reference:  "UR-CONF0001",
			PropertyID: property.ID,
			TenantID:   other.ID,
			CheckIn:    time.Now().AddDate(0, 0, 30),
			CheckOut:   time.Now().AddDate(0, 0, 35),
			Guests:     2,
			TotalPrice: 5000,
			Status:     "confirmed",
		}).Error)

		body, status := doJSON(t, app, "POST", "/bookings", map[string]any{
			"property_id": property.ID.String(),
			"check_in":    futureDate(32),
			"check_out":   futureDate(34),
			"guests":      2,
		}, tokenFor(t, tenant))

		assert.Equal(t, fiber.StatusConflict, status)
		assert.Equal(t, "property is already booked for these dates", (*body)["error"])
	})

	t.Run("owners cannot book", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/bookings", map[string]any{
			"property_id": property.ID.String(),
			"check_in":    futureDate(40),
			"check_out":   futureDate(42),
			"guests":      2,
		}, tokenFor(t, owner))
		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("unknown property returns 404", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/bookings", map[string]any{
			"property_id": "7b3e72c4-0000-0000-0000-000000000000",
			"check_in":    futureDate(40),
			"check_out":   futureDate(42),
			"guests":      2,
		}, tokenFor(t, tenant))
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestConfirmBooking(t *testing.T) {
	database.DB = setupTestDB()
	owner := createTestUser(t, "Confirm Owner", "cowner@example.com", models.RoleOwner)
	tenant := createTestUser(t, "Confirm Tenant", "ctenant@example.com", models.RoleTenant)
	property := createTestProperty(t, owner, "Confirm Condo", 1000, 4)

	booking := models.Booking{
		Reference:  "UR-PEND0001",
		PropertyID: property.ID,
		TenantID:   tenant.ID,
		CheckIn:    time.Now().AddDate(0, 0, 5),
		CheckOut:   time.Now().AddDate(0, 0, 8),
		Guests:     2,
		TotalPrice: 3000,
		Status:     "pending",
	}
	require.NoError(t, database.DB.Create(&booking).Error)

	app := setupBookingApp()
	target := "/bookings/" + booking.ID.String() + "/confirm"

	t.Run("only the property owner may confirm", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", target, nil, tokenFor(t, tenant))

		assert.Equal(t, fiber.StatusForbidden, status)
		assert.Equal(t, "You are not the owner of this property", (*body)["error"])
	})

	t.Run("owner confirms a pending booking", func(t *testing.T) {
		body, status := doJSON(t, app, "POST", target, nil, tokenFor(t, owner))

		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "confirmed", (*body)["status"])
	})

	t.Run("confirming twice is rejected", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", target, nil, tokenFor(t, owner))
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("unknown booking returns 404", func(t *testing.T) {
		_, status := doJSON(t, app, "POST", "/bookings/7b3e72c4-0000-0000-0000-000000000000/confirm", nil, tokenFor(t, owner))
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestConfirmBookingOverlap(t *testing.T) {
	database.DB = setupTestDB()
	owner := createTestUser(t, "Race Owner", "raceowner@example.com", models.RoleOwner)
	tenantA := createTestUser(t, "Race Tenant A", "racea@example.com", models.RoleTenant)
	tenantB := createTestUser(t, "Race Tenant B", "raceb@example.com", models.RoleTenant)
	property := createTestProperty(t, owner, "Race Condo", 1000, 4)

	newPending := func(t *testing.T, ref string, tenant *models.User) *models.Booking {
		t.Helper()
		booking := models.Booking{
			Reference:  ref,
			PropertyID: property.ID,
			TenantID:   tenant.ID,
			CheckIn:    time.Now().AddDate(0, 0, 10),
			CheckOut:   time.Now().AddDate(0, 0, 14),
			Guests:     2,
			TotalPrice: 4000,
			Status:     "pending",
		}
		require.NoError(t, database.DB.Create(&booking).Error)
		return &booking
	}

	first := newPending(t, "UR-RACE0001", tenantA)
	second := newPending(t, "UR-RACE0002", tenantB)

	app := setupBookingApp()

	_, status := doJSON(t, app, "POST", "/bookings/"+first.ID.String()+"/confirm", nil, tokenFor(t, owner))
	require.Equal(t, fiber.StatusOK, status)

	// The second request was pending when the first was confirmed; confirming
	// it now would double-book the dates.
	body, status := doJSON(t, app, "POST", "/bookings/"+second.ID.String()+"/confirm", nil, tokenFor(t, owner))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "property is already booked for these dates", (*body)["error"])

	var unchanged models.Booking
	require.NoError(t, database.DB.First(&unchanged, "id = ?", second.ID).Error)
	assert.Equal(t, "pending", unchanged.Status)
}

func TestCancelBooking(t *testing.T) {
	database.DB = setupTestDB()
	owner := createTestUser(t, "Cancel Owner", "xowner@example.com", models.RoleOwner)
	tenant := createTestUser(t, "Cancel Tenant", "xtenant@example.com", models.RoleTenant)
	stranger := createTestUser(t, "Stranger", "stranger@example.com", models.RoleTenant)
	property := createTestProperty(t, owner, "Cancel Condo", 1000, 4)

	newBooking := func(t *testing.T, ref, status string) *models.Booking {
		t.Helper()
		booking := models.Booking{
			Reference:  ref,
			PropertyID: property.ID,
			TenantID:   tenant.ID,
			CheckIn:    time.Now().AddDate(0, 0, 5),
			CheckOut:   time.Now().AddDate(0, 0, 8),
			Guests:     2,
			TotalPrice: 3000,
			Status:     status,
		}
		require.NoError(t, database.DB.Create(&booking).Error)
		return &booking
	}

	app := setupBookingApp()

	t.Run("tenant cancels their pending booking", func(t *testing.T) {
		booking := newBooking(t, "UR-CANC0001", "pending")
		body, status := doJSON(t, app, "POST", "/bookings/"+booking.ID.String()+"/cancel", nil, tokenFor(t, tenant))

		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "cancelled", (*body)["status"])
	})

	t.Run("owner cancels a confirmed booking", func(t *testing.T) {
		booking := newBooking(t, "UR-CANC0002", "confirmed")
		_, status := doJSON(t, app, "POST", "/bookings/"+booking.ID.String()+"/cancel", nil, tokenFor(t, owner))
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("outsiders cannot cancel", func(t *testing.T) {
		booking := newBooking(t, "UR-CANC0003", "pending")
		_, status := doJSON(t, app, "POST", "/bookings/"+booking.ID.String()+"/cancel", nil, tokenFor(t, stranger))
		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("completed stays cannot be cancelled", func(t *testing.T) {
		booking := newBooking(t, "UR-CANC0004", "completed")
		_, status := doJSON(t, app, "POST", "/bookings/"+booking.ID.String()+"/cancel", nil, tokenFor(t, tenant))
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestBookingListings(t *testing.T) {
	database.DB = setupTestDB()
	owner := createTestUser(t, "Listing Owner", "lbowner@example.com", models.RoleOwner)
	tenant := createTestUser(t, "Listing Tenant", "lbtenant@example.com", models.RoleTenant)
	property := createTestProperty(t, owner, "Listing Condo", 1000, 4)

	require.NoError(t, database.DB.Create(&models.Booking{
		Reference:  "UR-LIST0001",
		PropertyID: property.ID,
		TenantID:   tenant.ID,
		CheckIn:    time.Now().AddDate(0, 0, 5),
		CheckOut:   time.Now().AddDate(0, 0, 8),
		Guests:     2,
		TotalPrice: 3000,
		Status:     "pending",
	}).Error)

	app := setupBookingApp()

	t.Run("tenant sees their bookings", func(t *testing.T) {
		bookings, status := doJSONList(t, app, "GET", "/bookings", tokenFor(t, tenant))
		require.Equal(t, fiber.StatusOK, status)
		require.Len(t, bookings, 1)
		assert.Equal(t, "UR-LIST0001", bookings[0]["reference"])
	})

	t.Run("owner sees bookings across their listings", func(t *testing.T) {
		bookings, status := doJSONList(t, app, "GET", "/owner/bookings", tokenFor(t, owner))
		require.Equal(t, fiber.StatusOK, status)
		require.Len(t, bookings, 1)
	})

	t.Run("tenants cannot use the owner view", func(t *testing.T) {
		_, status := doJSONList(t, app, "GET", "/owner/bookings", tokenFor(t, tenant))
		assert.Equal(t, fiber.StatusForbidden, status)
	})
}
