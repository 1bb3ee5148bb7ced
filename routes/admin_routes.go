package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/urbanrent/urban_rent/handlers"
	"github.com/urbanrent/urban_rent/middleware"
)

func AdminRoutes(app *fiber.App) {
	app.Post("/admin/login", handlers.AdminLogin)

	admin := app.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/dashboard", handlers.GetDashboard)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.ToggleUserStatus)
	users.Delete("/:userId", handlers.AdminDeleteUser)

	admin.Get("/properties", handlers.AdminGetProperties)
	admin.Delete("/properties/:propertyId", handlers.AdminDeleteProperty)

	reviews := admin.Group("/reviews")
	reviews.Get("", handlers.AdminGetReviews)
	reviews.Delete("/:reviewId", handlers.AdminDeleteReview)
}
