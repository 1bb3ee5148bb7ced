package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/middleware"
	"github.com/urbanrent/urban_rent/models"
)

type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Picture *string `json:"picture"`
	Phone   *string `json:"phone"`
}

func GetProfile(c *fiber.Ctx) error {
	userID := middleware.TokenUserID(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.TokenUserID(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Picture != nil {
		user.Picture = req.Picture
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(user)
}
