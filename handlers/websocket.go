package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Connection lifecycle states.
const (
	stateConnected     = "connected"
	stateAuthenticated = "authenticated"
	stateMatchmaking   = "matchmaking"
	stateInBattle      = "in_battle"
)

// Connection is one websocket client and its session state. The session
// fields below ws/send are owned by the hub loop; the read and write pumps
// never touch them.
type Connection struct {
	ws   *websocket.Conn
	send chan []byte

	userID   string
	username string
	avatar   string
	state    string
	inBattle bool
	battleID string
	lastPing time.Time
}

// WsHandler upgrades the request and hands the connection to the hub. The
// client is anonymous until it sends a login frame.
func (h *Hub) WsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	c := &Connection{
		ws:       conn,
		send:     make(chan []byte, 256),
		state:    stateConnected,
		lastPing: time.Now(),
	}

	h.register <- c

	go c.writePump()
	c.readPump(h)
}

func (c *Connection) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.ws.Close()
	}()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %q: %v", c.userID, err)
			break
		}
		h.inbound <- inboundFrame{conn: c, data: message}
	}
}

func (c *Connection) writePump() {
	defer func() {
		c.ws.Close()
	}()

	for message := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("error writing message: %v", err)
			break
		}
	}
}
