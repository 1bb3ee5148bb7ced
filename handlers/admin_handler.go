package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type DashboardResponse struct {
	TotalTenants       int64            `json:"total_tenants"`
	TotalOwners        int64            `json:"total_owners"`
	TotalBrokers       int64            `json:"total_brokers"`
	TotalProperties    int64            `json:"total_properties"`
	TotalReviews       int64            `json:"total_reviews"`
	BookingsLast30Days int64            `json:"bookings_last_30_days"`
	RecentBookings     []models.Booking `json:"recent_bookings"`
}

func AdminLogin(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if user.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden: Admin access required"})
	}

	t, err := signToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"user": user, "token": t})
}

func GetDashboard(c *fiber.Ctx) error {
	var response DashboardResponse

	database.DB.Model(&models.User{}).Where("role = ?", models.RoleTenant).Count(&response.TotalTenants)
	database.DB.Model(&models.User{}).Where("role = ?", models.RoleOwner).Count(&response.TotalOwners)
	database.DB.Model(&models.User{}).Where("role = ?", models.RoleBroker).Count(&response.TotalBrokers)
	database.DB.Model(&models.Property{}).Count(&response.TotalProperties)
	database.DB.Model(&models.Review{}).Count(&response.TotalReviews)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&models.Booking{}).Where("created_at > ?", thirtyDaysAgo).Count(&response.BookingsLast30Days)

	database.DB.Order("created_at desc").Limit(5).Preload("Property").Preload("Tenant").Find(&response.RecentBookings)

	return c.JSON(response)
}

func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at desc").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(users)
}

func ToggleUserStatus(c *fiber.Ctx) error {
	type StatusRequest struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := c.Params("userId")
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if user.Role == models.RoleAdmin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot change the status of an admin account"})
	}

	user.IsActive = *req.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user status"})
	}

	return c.JSON(user)
}

// AdminDeleteUser removes a user and everything hanging off them, in one
// transaction so a failed step leaves the account intact.
func AdminDeleteUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if user.Role == models.RoleAdmin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot delete an admin account"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var properties []models.Property
		if err := tx.Where("owner_id = ?", user.ID).Find(&properties).Error; err != nil {
			return err
		}
		for _, property := range properties {
			if err := deletePropertyTree(tx, &property); err != nil {
				return err
			}
		}

		if err := tx.Where("tenant_id = ? OR owner_id = ?", user.ID, user.ID).Delete(&models.Conversation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ? OR receiver_id = ?", user.ID, user.ID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", user.ID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.OwnerProfile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func AdminGetProperties(c *fiber.Ctx) error {
	var properties []models.Property
	if err := database.DB.
		Preload("Owner").
		Preload("Location").
		Order("created_at desc").
		Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(properties)
}

func AdminDeleteProperty(c *fiber.Ctx) error {
	propertyID := c.Params("propertyId")

	var property models.Property
	if err := database.DB.First(&property, "id = ?", propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return deletePropertyTree(tx, &property)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete property"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func deletePropertyTree(tx *gorm.DB, property *models.Property) error {
	if err := tx.Where("property_id = ?", property.ID).Delete(&models.Perk{}).Error; err != nil {
		return err
	}
	if err := tx.Where("property_id = ?", property.ID).Delete(&models.Photo{}).Error; err != nil {
		return err
	}
	if err := tx.Where("property_id = ?", property.ID).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	if err := tx.Where("property_id = ?", property.ID).Delete(&models.Message{}).Error; err != nil {
		return err
	}
	if err := tx.Where("property_id = ?", property.ID).Delete(&models.Conversation{}).Error; err != nil {
		return err
	}
	if err := tx.Where("property_id = ?", property.ID).Delete(&models.Booking{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(property).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", property.LocationID).Delete(&models.Location{}).Error
}

func AdminGetReviews(c *fiber.Ctx) error {
	var reviews []models.Review
	if err := database.DB.Preload("User").Order("created_at desc").Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(reviews)
}

func AdminDeleteReview(c *fiber.Ctx) error {
	reviewID := c.Params("reviewId")

	var review models.Review
	if err := database.DB.First(&review, "id = ?", reviewID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
	}

	if err := database.DB.Delete(&review).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete review"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
