package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/middleware"
	"github.com/urbanrent/urban_rent/models"
	"github.com/urbanrent/urban_rent/notifications"
	"github.com/urbanrent/urban_rent/services"
	"github.com/urbanrent/urban_rent/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errOverlappingBooking = errors.New("property is already booked for these dates")

type CreateBookingRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests     int    `json:"guests" validate:"required,min=1"`
}

func CreateBooking(c *fiber.Ctx) error {
	tenantID, err := uuid.Parse(middleware.TokenUserID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	checkIn, _ := time.Parse("2006-01-02", req.CheckIn)
	checkOut, _ := time.Parse("2006-01-02", req.CheckOut)
	if !checkIn.Before(checkOut) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Check-in must be before check-out"})
	}
	if checkIn.Before(time.Now().Truncate(24 * time.Hour)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Check-in cannot be in the past"})
	}

	var property models.Property
	if err := database.DB.Preload("Owner").First(&property, "id = ?", req.PropertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}
	if req.Guests > property.MaxGuests {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("This property accommodates at most %d guests", property.MaxGuests)})
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)

	var booking models.Booking
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var overlapping int64
		if err := tx.Model(&models.Booking{}).
			Where("property_id = ? AND status = ? AND check_in < ? AND check_out > ?",
				property.ID, "confirmed", checkOut, checkIn).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return errOverlappingBooking
		}

		reference, err := utils.GenerateBookingReference(tx)
		if err != nil {
			return err
		}

		booking = models.Booking{
			Reference:  reference,
			PropertyID: property.ID,
			TenantID:   tenantID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			Guests:     req.Guests,
			TotalPrice: float64(nights) * property.Price,
			Status:     "pending",
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		if errors.Is(err, errOverlappingBooking) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	go notifications.SendEmail(
		property.Owner.Name,
		property.Owner.Email,
		"New Booking Request",
		fmt.Sprintf("<h1>New Booking Request</h1><p>Your listing <b>%s</b> has a new booking request (%s) for %s to %s.</p>",
			property.Name, booking.Reference, checkIn.Format("Jan 2, 2006"), checkOut.Format("Jan 2, 2006")),
	)

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// ConfirmBooking lets the property owner accept a pending request. The receipt
// PDF and the tenant email happen after commit.
func ConfirmBooking(c *fiber.Ctx) error {
	requesterID := middleware.TokenUserID(c)
	bookingID := c.Params("bookingId")

	var booking models.Booking
	if err := database.DB.Preload("Property").Preload("Tenant").First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.Property.OwnerID.String() != requesterID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the owner of this property"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if booking.Status != "pending" {
			return errors.New("only pending bookings can be confirmed")
		}

		// The overlap window was only checked against confirmed bookings at
		// create time; another pending request may have been confirmed since.
		var overlapping int64
		if err := tx.Model(&models.Booking{}).
			Where("property_id = ? AND id <> ? AND status = ? AND check_in < ? AND check_out > ?",
				booking.PropertyID, booking.ID, "confirmed", booking.CheckOut, booking.CheckIn).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return errOverlappingBooking
		}

		booking.Status = "confirmed"
		return tx.Save(&booking).Error
	})
	if err != nil {
		if errors.Is(err, errOverlappingBooking) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	database.DB.Preload("Property").Preload("Property.Location").Preload("Tenant").First(&booking, "id = ?", booking.ID)

	go services.GenerateBookingReceipt(booking)
	go notifications.SendEmail(
		booking.Tenant.Name,
		booking.Tenant.Email,
		"Your Booking is Confirmed!",
		fmt.Sprintf("<h1>Booking Confirmed</h1><p>Your booking %s for <b>%s</b> has been confirmed by the owner.</p>",
			booking.Reference, booking.Property.Name),
	)

	return c.JSON(booking)
}

func CancelBooking(c *fiber.Ctx) error {
	requesterID := middleware.TokenUserID(c)
	bookingID := c.Params("bookingId")

	var booking models.Booking
	if err := database.DB.Preload("Property").First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	if booking.TenantID.String() != requesterID && booking.Property.OwnerID.String() != requesterID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not part of this booking"})
	}
	if booking.Status != "pending" && booking.Status != "confirmed" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "This booking can no longer be cancelled"})
	}

	booking.Status = "cancelled"
	if err := database.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel booking"})
	}

	return c.JSON(booking)
}

func GetMyBookings(c *fiber.Ctx) error {
	tenantID := middleware.TokenUserID(c)

	var bookings []models.Booking
	database.DB.
		Preload("Property").
		Preload("Property.Location").
		Preload("Property.Photos").
		Where("tenant_id = ?", tenantID).
		Order("created_at desc").
		Find(&bookings)

	return c.JSON(bookings)
}

func GetOwnerBookings(c *fiber.Ctx) error {
	ownerID := middleware.TokenUserID(c)

	var bookings []models.Booking
	database.DB.
		Preload("Property").
		Preload("Tenant").
		Joins("JOIN properties ON properties.id = bookings.property_id").
		Where("properties.owner_id = ?", ownerID).
		Order("bookings.created_at desc").
		Find(&bookings)

	return c.JSON(bookings)
}
