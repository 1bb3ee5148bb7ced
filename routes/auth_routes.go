package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/urbanrent/urban_rent/handlers"
)

func AuthRoutes(app *fiber.App) {
	user := app.Group("/user")
	user.Post("/register", handlers.RegisterUser)
	user.Post("/login", handlers.LoginUser)
	user.Post("/google/login", handlers.GoogleLogin)
	user.Post("/forgot-password", handlers.ForgotPassword)
	user.Post("/reset-password", handlers.ResetPassword)
}
