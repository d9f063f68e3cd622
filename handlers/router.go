package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/edutorium/battle-server/models"
	"github.com/edutorium/battle-server/responses"
	"github.com/edutorium/battle-server/utils"
)

func NewRouter(h *Hub) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/ws", h.WsHandler)
	r.HandleFunc("/health", h.HealthHandler).Methods("GET")
	r.HandleFunc("/", h.IndexHandler).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.HandleError(w, responses.NotFoundError{Msg: "Resource not found."})
	})

	return r
}

// HealthHandler is the side-channel health check used by the deployment
// platform; it stays outside the websocket protocol.
func (h *Hub) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().Unix(),
		"connections": h.ClientCount(),
	})
}

func (h *Hub) IndexHandler(w http.ResponseWriter, r *http.Request) {
	utils.HandleSuccess(w, models.SuccessResponse(map[string]string{
		"message": "Edutorium Battle Server",
		"status":  "running",
	}))
}
