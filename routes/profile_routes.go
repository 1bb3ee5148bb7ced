package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/urbanrent/urban_rent/handlers"
	"github.com/urbanrent/urban_rent/middleware"
)

func ProfileRoutes(app *fiber.App) {
	profile := app.Group("/user/profile", middleware.Protected())
	profile.Get("", handlers.GetProfile)
	profile.Put("", handlers.UpdateProfile)
}
