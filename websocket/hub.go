package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/urbanrent/urban_rent/models"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type MessagePayload struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *models.Message)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case message := <-Broadcast:
			deliver(message)
		}
	}
}

// deliver pushes a persisted message to the counterpart if they are online.
// Messages always carry their receiver, so no lookup is needed.
func deliver(message *models.Message) {
	clientsMu.RLock()
	conn, ok := clients[message.ReceiverID]
	clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(message); err != nil {
		log.Printf("Error sending message to client %s: %v", message.ReceiverID, err)
		conn.Close()
		clientsMu.Lock()
		delete(clients, message.ReceiverID)
		clientsMu.Unlock()
	}
}
