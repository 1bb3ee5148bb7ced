package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/urbanrent/urban_rent/handlers"
	"github.com/urbanrent/urban_rent/middleware"
)

func MessagingRoutes(app *fiber.App) {
	messages := app.Group("/messages", middleware.Protected())
	messages.Post("/start", handlers.StartConversation)
	messages.Post("/send", handlers.SendMessage)
	messages.Get("/conversations", handlers.GetUserConversations)
	messages.Get("/conversations/:conversationId", handlers.GetConversationMessages)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	app.Get("/ws", websocket.New(handlers.ServeWs))
}
