package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/urbanrent/urban_rent/handlers"
	"github.com/urbanrent/urban_rent/middleware"
)

func PropertyRoutes(app *fiber.App) {
	app.Get("/places", handlers.ListPlaces)
	app.Get("/places/search", handlers.SearchPlaces)

	app.Post("/places", middleware.Protected(), middleware.ListerRequired(), handlers.AddPlace)
	app.Put("/places/update-place", middleware.Protected(), handlers.UpdatePlace)
	app.Get("/user/places", middleware.Protected(), handlers.GetMyPlaces)

	app.Get("/places/:id", handlers.GetPlace)
}
