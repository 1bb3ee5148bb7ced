package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/urbanrent/urban_rent/handlers"
	"github.com/urbanrent/urban_rent/middleware"
)

func ReviewRoutes(app *fiber.App) {
	app.Get("/properties/:id/reviews", handlers.ListReviews)
	app.Get("/properties/:id/average-rating", handlers.GetAverageRating)

	app.Post("/properties/:id/reviews", middleware.Protected(), middleware.TenantRequired(), handlers.CreateReview)
}
