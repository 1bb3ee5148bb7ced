package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/urbanrent/urban_rent/handlers"
	"github.com/urbanrent/urban_rent/middleware"
)

func BookingRoutes(app *fiber.App) {
	bookings := app.Group("/bookings", middleware.Protected())
	bookings.Post("", middleware.TenantRequired(), handlers.CreateBooking)
	bookings.Get("", handlers.GetMyBookings)
	bookings.Post("/:bookingId/confirm", handlers.ConfirmBooking)
	bookings.Post("/:bookingId/cancel", handlers.CancelBooking)

	app.Get("/owner/bookings", middleware.Protected(), middleware.ListerRequired(), handlers.GetOwnerBookings)
}
