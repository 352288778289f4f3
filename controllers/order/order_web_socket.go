package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/juanrobles05/Urban-Loom/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[*websocket.Conn]bool)
)

// wsWriteTimeout caps how long one slow client can hold up a broadcast.
const wsWriteTimeout = 5 * time.Second

// OrderEvent is pushed to every connected client whenever an order is
// created, cancelled, or moves along the fulfillment state machine.
type OrderEvent struct {
	Event     string             `json:"event"`
	OrderID   uint               `json:"order_id"`
	Reference string             `json:"reference"`
	Status    models.OrderStatus `json:"status"`
	At        time.Time          `json:"at"`
}

// GET /orders/ws
func OrderWebSocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wsMu.Lock()
	wsClients[conn] = true
	wsMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsMu.Lock()
			delete(wsClients, conn)
			wsMu.Unlock()
			break
		}
	}
}

func broadcastOrderEvent(order models.Order, event string) {
	data, err := json.Marshal(OrderEvent{
		Event:     event,
		OrderID:   order.ID,
		Reference: order.Reference,
		Status:    order.Status,
		At:        time.Now(),
	})
	if err != nil {
		return
	}

	wsMu.Lock()
	defer wsMu.Unlock()
	for client := range wsClients {
		client.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			// A stalled or gone client must not wedge every later broadcast.
			client.Close()
			delete(wsClients, client)
		}
	}
}
