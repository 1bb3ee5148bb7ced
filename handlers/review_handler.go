package handlers

import (
	"errors"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/urbanrent/urban_rent/cache"
	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/middleware"
	"github.com/urbanrent/urban_rent/models"
	"gorm.io/gorm"
)

const avgRatingTTL = 5 * time.Minute

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type AverageRatingResponse struct {
	PropertyID    string  `json:"property_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

func avgRatingKey(propertyID string) string {
	return "property:" + propertyID + ":avg_rating"
}

// CreateReview stores one rating+comment per (property, user). The handler
// pre-check yields the friendly 400; the composite unique index catches the
// race two concurrent submissions would otherwise win.
func CreateReview(c *fiber.Ctx) error {
	userID, err := uuid.Parse(middleware.TokenUserID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}
	propertyID := c.Params("id")

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rating must be between 1 and 5"})
	}

	var property models.Property
	if err := database.DB.First(&property, "id = ?", propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}

	var newReview models.Review
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		if err := tx.Where("property_id = ? AND user_id = ?", property.ID, userID).First(&existing).Error; err == nil {
			return errors.New("you have already reviewed this property")
		}

		newReview = models.Review{
			PropertyID: property.ID,
			UserID:     userID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}
		if err := tx.Create(&newReview).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.New("you have already reviewed this property")
			}
			return err
		}

		var result struct {
			Avg float64
		}
		tx.Model(&models.Review{}).
			Joins("JOIN properties ON properties.id = reviews.property_id").
			Where("properties.owner_id = ?", property.OwnerID).
			Select("avg(rating) as avg").Scan(&result)

		return tx.Model(&models.OwnerProfile{}).
			Where("user_id = ?", property.OwnerID).
			Update("avg_rating", result.Avg).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cache.Delete(c.Context(), avgRatingKey(propertyID))

	return c.Status(fiber.StatusCreated).JSON(newReview)
}

func ListReviews(c *fiber.Ctx) error {
	propertyID := c.Params("id")

	var reviews []models.Review
	if err := database.DB.
		Preload("User").
		Where("property_id = ?", propertyID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reviews"})
	}
	return c.JSON(reviews)
}

// GetAverageRating serves the aggregate from Redis when warm, the database
// otherwise. Rounded to one decimal.
func GetAverageRating(c *fiber.Ctx) error {
	propertyID := c.Params("id")

	var property models.Property
	if err := database.DB.First(&property, "id = ?", propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}

	var response AverageRatingResponse
	err := cache.CacheAside(c.Context(), avgRatingKey(propertyID), &response, avgRatingTTL, func() error {
		var result struct {
			Average float64
			Count   int64
		}
		if err := database.DB.Model(&models.Review{}).
			Where("property_id = ?", propertyID).
			Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as count").
			Scan(&result).Error; err != nil {
			return err
		}

		response = AverageRatingResponse{
			PropertyID:    propertyID,
			AverageRating: math.Round(result.Average*10) / 10,
			ReviewCount:   result.Count,
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute average rating"})
	}

	return c.JSON(response)
}
