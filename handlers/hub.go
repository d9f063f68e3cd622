package handlers

import (
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/edutorium/battle-server/auth"
	"github.com/edutorium/battle-server/config"
	"github.com/edutorium/battle-server/models"
	"github.com/edutorium/battle-server/repository"
)

type inboundFrame struct {
	conn *Connection
	data []byte
}

// Hub owns every piece of shared battle state: the identity registry, the
// matchmaking queue and all active battles. All of it is read and written
// only from the Run goroutine; connection readers, timers and the login
// verifier feed their events through the channels below, so each handler
// runs to completion before the next one starts and no locks are needed.
type Hub struct {
	register   chan *Connection
	unregister chan *Connection
	inbound    chan inboundFrame
	callbacks  chan func()

	clients       map[*Connection]bool
	users         map[string]*Connection       // userID -> live connection, last login wins
	userDetails   map[string]models.UserInfo   // userID -> profile shown to opponents
	waiting       []*models.WaitingEntry       // matchmaking queue, FIFO
	battles       map[string]*models.Battle    // battleID -> battle
	rounds        map[string]*models.RoundState
	confirmations map[string]map[string]bool // battleID -> userIDs that confirmed

	verifier  auth.Verifier
	questions repository.QuestionSource
	scheduler Scheduler

	countdown         time.Duration
	heartbeatInterval time.Duration
	clientTimeout     time.Duration
	pausedBattleTTL   time.Duration
	roundTimeLimit    int // seconds, sent to clients with each question

	clientCount int64 // atomic, read by the health endpoint
}

func NewHub(cfg *config.Config, verifier auth.Verifier, questions repository.QuestionSource) *Hub {
	h := &Hub{
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		inbound:    make(chan inboundFrame, 64),
		callbacks:  make(chan func(), 64),

		clients:       make(map[*Connection]bool),
		users:         make(map[string]*Connection),
		userDetails:   make(map[string]models.UserInfo),
		battles:       make(map[string]*models.Battle),
		rounds:        make(map[string]*models.RoundState),
		confirmations: make(map[string]map[string]bool),

		verifier:  verifier,
		questions: questions,

		countdown:         time.Duration(cfg.CountdownSeconds) * time.Second,
		heartbeatInterval: time.Duration(cfg.HeartbeatSeconds) * time.Second,
		clientTimeout:     time.Duration(cfg.ClientTimeoutSeconds) * time.Second,
		pausedBattleTTL:   time.Duration(cfg.PausedBattleTTLSeconds) * time.Second,
		roundTimeLimit:    cfg.RoundTimeLimitSeconds,
	}
	h.scheduler = &timerScheduler{callbacks: h.callbacks}
	return h
}

// Run is the hub's event loop. It must be the only goroutine touching the
// hub's maps.
func (h *Hub) Run() {
	h.scheduler.Every(h.heartbeatInterval, h.heartbeatTick)

	for {
		select {
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.dropConnection(c)
		case frame := <-h.inbound:
			h.processMessage(frame.conn, frame.data)
		case fn := <-h.callbacks:
			fn()
		}
	}
}

// ClientCount reports the number of live connections. Safe to call from any
// goroutine.
func (h *Hub) ClientCount() int64 {
	return atomic.LoadInt64(&h.clientCount)
}

func (h *Hub) addClient(c *Connection) {
	h.clients[c] = true
	atomic.AddInt64(&h.clientCount, 1)
	log.Println("New connection!")
}

// dropConnection runs the full close sequence: unbind the identity, leave
// the matchmaking queue and pause any battle the player was in.
func (h *Hub) dropConnection(c *Connection) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	atomic.AddInt64(&h.clientCount, -1)
	close(c.send)

	if c.userID == "" {
		log.Println("Connection closed!")
		return
	}

	// A newer login may have replaced this binding already; only the
	// connection that owns it gets to clean up.
	if h.users[c.userID] == c {
		log.Printf("Cleaning up user data for user: %s", c.userID)
		delete(h.users, c.userID)
		delete(h.userDetails, c.userID)
		h.removeWaiting(c.userID)

		if c.inBattle && c.battleID != "" {
			h.pauseBattle(c)
		}
	}

	log.Printf("Connection closed! (%s)", c.userID)
}

// processMessage decodes one inbound frame and routes it by action tag.
// Unparseable frames and unknown actions are dropped.
func (h *Hub) processMessage(c *Connection, data []byte) {
	// The reader may have queued frames ahead of the connection's close; once
	// the close is processed the send channel is gone, so stale frames must
	// not reach a handler.
	if !h.clients[c] {
		return
	}

	var msg models.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Action == "" {
		log.Printf("Dropping unparseable frame: %.100s", data)
		return
	}

	switch msg.Action {
	case "login":
		h.handleLogin(c, &msg)
	case "find_match":
		h.handleFindMatch(c, &msg)
	case "cancel_matchmaking":
		h.handleCancelMatchmaking(c)
	case "confirm_match":
		h.handleConfirmMatch(c, &msg)
	case "submit_answer":
		h.handleSubmitAnswer(c, &msg)
	case "ready_for_next_round":
		h.handleReadyForNextRound(c)
	case "join_match":
		h.handleJoinMatch(c, &msg)
	case "ping":
		h.handlePing(c)
	case "pong":
		h.handlePong(c)
	default:
		log.Printf("Unknown action: %s", msg.Action)
	}
}

// sendMessage marshals payload and queues it on the connection's writer. A
// full send buffer is logged and the frame dropped; the heartbeat sweep will
// reap the connection if it stays unresponsive.
func (h *Hub) sendMessage(c *Connection, payload interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling message: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("Send buffer full for user %q, dropping message", c.userID)
	}
}

func (h *Hub) sendToUser(userID string, payload interface{}) {
	h.sendMessage(h.users[userID], payload)
}

func (h *Hub) sendError(c *Connection, message string) {
	h.sendMessage(c, map[string]interface{}{
		"action":  "error",
		"message": message,
	})
}
