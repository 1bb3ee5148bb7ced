package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	configs "github.com/urbanrent/urban_rent/configs"
	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/middleware"
	"github.com/urbanrent/urban_rent/models"
	"github.com/urbanrent/urban_rent/websocket"
	"gorm.io/gorm"
)

type StartConversationRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	Content    string `json:"content,omitempty"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" validate:"required,uuid"`
	Content        string `json:"content" validate:"required"`
}

// counterpart returns the other participant of a conversation, or an error if
// the user is not part of it at all.
func counterpart(conv *models.Conversation, userID uuid.UUID) (uuid.UUID, error) {
	switch userID {
	case conv.TenantID:
		return conv.OwnerID, nil
	case conv.OwnerID:
		return conv.TenantID, nil
	}
	return uuid.Nil, errors.New("not a participant")
}

// StartConversation gets or creates the single thread for
// (property, requester, property owner) and optionally posts the first message.
func StartConversation(c *fiber.Ctx) error {
	tenantID, err := uuid.Parse(middleware.TokenUserID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var req StartConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var property models.Property
	if err := database.DB.First(&property, "id = ?", req.PropertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}
	if property.OwnerID == tenantID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot start a conversation on your own listing"})
	}

	var conversation models.Conversation
	created := false
	err = database.DB.
		Where("property_id = ? AND tenant_id = ? AND owner_id = ?", property.ID, tenantID, property.OwnerID).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conversation = models.Conversation{
			PropertyID: property.ID,
			TenantID:   tenantID,
			OwnerID:    property.OwnerID,
		}
		if err := database.DB.Create(&conversation).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create conversation"})
		}
		created = true
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	if req.Content != "" {
		message := models.Message{
			ConversationID: conversation.ID,
			SenderID:       tenantID,
			ReceiverID:     property.OwnerID,
			PropertyID:     property.ID,
			Content:        req.Content,
		}
		if err := database.DB.Create(&message).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save message"})
		}
		websocket.Broadcast <- &message
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(conversation)
}

func SendMessage(c *fiber.Ctx) error {
	senderID, err := uuid.Parse(middleware.TokenUserID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var conversation models.Conversation
	if err := database.DB.First(&conversation, "id = ?", req.ConversationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}

	receiverID, err := counterpart(&conversation, senderID)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a participant in this conversation"})
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		PropertyID:     conversation.PropertyID,
		Content:        req.Content,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save message"})
	}

	if err := database.DB.Model(&conversation).Update("updated_at", time.Now()).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update conversation"})
	}
	websocket.Broadcast <- &message

	return c.Status(fiber.StatusCreated).JSON(message)
}

func GetUserConversations(c *fiber.Ctx) error {
	userID := middleware.TokenUserID(c)

	var conversations []models.Conversation
	if err := database.DB.
		Preload("Property").
		Preload("Property.Photos").
		Preload("Tenant").
		Preload("Owner").
		Where("tenant_id = ? OR owner_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&conversations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch conversations"})
	}

	return c.JSON(conversations)
}

func GetConversationMessages(c *fiber.Ctx) error {
	userID, err := uuid.Parse(middleware.TokenUserID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}
	conversationID := c.Params("conversationId")

	var conversation models.Conversation
	if err := database.DB.First(&conversation, "id = ?", conversationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}
	if _, err := counterpart(&conversation, userID); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a participant in this conversation"})
	}

	var messages []models.Message
	if err := database.DB.
		Where("conversation_id = ?", conversationID).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	if err := database.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND read_at IS NULL", conversationID, userID).
		Update("read_at", time.Now()).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update read status"})
	}

	return c.JSON(messages)
}

func ServeWs(c *websocketcontrib.Conn) {
	type AuthMessage struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	var authMsg AuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	userID, err := uuid.Parse(claims["user_id"].(string))
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		c.Close()
		return
	}

	client := &websocket.Client{UserID: userID, Conn: c}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
		c.Close()
	}()

	for {
		var msg websocket.MessagePayload
		if err := c.ReadJSON(&msg); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
				log.Printf("WebSocket closed for client %s: %v", userID, err)
			} else {
				log.Printf("WebSocket read error for client %s: %v", userID, err)
			}
			break
		}

		convID, err := uuid.Parse(msg.ConversationID)
		if err != nil {
			_ = c.WriteJSON(fiber.Map{"error": "Invalid conversation ID"})
			continue
		}

		var conversation models.Conversation
		if err := database.DB.First(&conversation, "id = ?", convID).Error; err != nil {
			_ = c.WriteJSON(fiber.Map{"error": "Conversation not found"})
			continue
		}
		receiverID, err := counterpart(&conversation, userID)
		if err != nil {
			_ = c.WriteJSON(fiber.Map{"error": "You are not a participant in this conversation"})
			continue
		}

		dbMessage := models.Message{
			ConversationID: convID,
			SenderID:       userID,
			ReceiverID:     receiverID,
			PropertyID:     conversation.PropertyID,
			Content:        msg.Content,
		}
		if err := database.DB.Create(&dbMessage).Error; err != nil {
			log.Printf("Failed to save message for client %s: %v", userID, err)
			_ = c.WriteJSON(fiber.Map{"error": "Failed to save message"})
			continue
		}
		websocket.Broadcast <- &dbMessage
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(configs.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
