package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/middleware"
	"github.com/urbanrent/urban_rent/models"
	"gorm.io/gorm"
)

type LocationRequest struct {
	SubCity  string `json:"sub_city" validate:"required"`
	Woreda   string `json:"woreda"`
	Kebele   string `json:"kebele"`
	HouseNo  string `json:"house_no"`
	AreaName string `json:"area_name"`
}

type AddPlaceRequest struct {
	Name        string          `json:"name" validate:"required,min=3"`
	Description string          `json:"description"`
	Price       float64         `json:"price" validate:"required,gt=0"`
	MaxGuests   int             `json:"max_guests" validate:"required,min=1"`
	Location    LocationRequest `json:"location" validate:"required"`
	Perks       []string        `json:"perks,omitempty"`
	Photos      []string        `json:"photos,omitempty"`
}

type UpdatePlaceRequest struct {
	ID          string   `json:"id" validate:"required,uuid"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	MaxGuests   *int     `json:"max_guests"`
	Perks       []string `json:"perks,omitempty"`
	Photos      []string `json:"photos,omitempty"`
}

// AddPlace creates a listing. Location, property, perks and photos are written
// in one transaction, and the owner's shadow profile is created on first use.
func AddPlace(c *fiber.Ctx) error {
	ownerID, err := uuid.Parse(middleware.TokenUserID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}
	role := middleware.TokenRole(c)

	var req AddPlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var property models.Property
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.OwnerProfile
		if err := tx.Where("user_id = ?", ownerID).First(&profile).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			profile = models.OwnerProfile{UserID: ownerID}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		}

		location := models.Location{
			SubCity:  req.Location.SubCity,
			Woreda:   req.Location.Woreda,
			Kebele:   req.Location.Kebele,
			HouseNo:  req.Location.HouseNo,
			AreaName: req.Location.AreaName,
		}
		if err := tx.Create(&location).Error; err != nil {
			return err
		}

		property = models.Property{
			OwnerID:         ownerID,
			LocationID:      location.ID,
			Name:            req.Name,
			Description:     req.Description,
			Price:           req.Price,
			MaxGuests:       req.MaxGuests,
			IsBrokerListing: role == models.RoleBroker,
		}
		if err := tx.Create(&property).Error; err != nil {
			return err
		}

		for _, name := range req.Perks {
			if err := tx.Create(&models.Perk{PropertyID: property.ID, Name: name}).Error; err != nil {
				return err
			}
		}
		for _, url := range req.Photos {
			if err := tx.Create(&models.Photo{PropertyID: property.ID, URL: url}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create property"})
	}

	database.DB.Preload("Location").Preload("Perks").Preload("Photos").First(&property, "id = ?", property.ID)

	return c.Status(fiber.StatusCreated).JSON(property)
}

// UpdatePlace mutates a listing. Only the stored owner may update; perks are
// replaced wholesale and photos are appended.
func UpdatePlace(c *fiber.Ctx) error {
	requesterID := middleware.TokenUserID(c)

	var req UpdatePlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var property models.Property
	if err := database.DB.First(&property, "id = ?", req.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}

	if property.OwnerID.String() != requesterID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the owner of this property"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if req.Name != nil {
			property.Name = *req.Name
		}
		if req.Description != nil {
			property.Description = *req.Description
		}
		if req.Price != nil {
			property.Price = *req.Price
		}
		if req.MaxGuests != nil {
			property.MaxGuests = *req.MaxGuests
		}
		if err := tx.Save(&property).Error; err != nil {
			return err
		}

		if req.Perks != nil {
			if err := tx.Where("property_id = ?", property.ID).Delete(&models.Perk{}).Error; err != nil {
				return err
			}
			for _, name := range req.Perks {
				if err := tx.Create(&models.Perk{PropertyID: property.ID, Name: name}).Error; err != nil {
					return err
				}
			}
		}
		for _, url := range req.Photos {
			if err := tx.Create(&models.Photo{PropertyID: property.ID, URL: url}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update property"})
	}

	database.DB.Preload("Location").Preload("Perks").Preload("Photos").First(&property, "id = ?", property.ID)

	return c.JSON(property)
}

func ListPlaces(c *fiber.Ctx) error {
	var properties []models.Property
	if err := database.DB.
		Preload("Location").
		Preload("Perks").
		Preload("Photos").
		Order("created_at desc").
		Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch properties"})
	}
	return c.JSON(properties)
}

func GetPlace(c *fiber.Ctx) error {
	propertyID := c.Params("id")

	var property models.Property
	if err := database.DB.
		Preload("Owner").
		Preload("Location").
		Preload("Perks").
		Preload("Photos").
		First(&property, "id = ?", propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}
	return c.JSON(property)
}

func SearchPlaces(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Property{}).
		Preload("Location").
		Preload("Perks").
		Preload("Photos")

	if subCity := c.Query("sub_city"); subCity != "" {
		query = query.Joins("JOIN locations ON locations.id = properties.location_id").
			Where("locations.sub_city = ?", subCity)
	}
	if maxPrice := c.QueryFloat("max_price"); maxPrice > 0 {
		query = query.Where("properties.price <= ?", maxPrice)
	}
	if minGuests := c.QueryInt("min_guests"); minGuests > 0 {
		query = query.Where("properties.max_guests >= ?", minGuests)
	}

	var properties []models.Property
	if err := query.Order("properties.created_at desc").Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to search properties"})
	}
	return c.JSON(properties)
}

func GetMyPlaces(c *fiber.Ctx) error {
	ownerID := middleware.TokenUserID(c)

	var properties []models.Property
	database.DB.
		Preload("Location").
		Preload("Perks").
		Preload("Photos").
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&properties)

	return c.JSON(properties)
}
