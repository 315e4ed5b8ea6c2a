// Package websocket streams background job status changes to clients.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"tldw-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TokenValidator reports whether a bearer token grants admin access.
type TokenValidator func(token string) bool

// Hub fans job updates out to websocket subscribers. With Redis, updates
// travel over pub/sub so a job run by another process still reaches this
// one's clients; without it they are delivered in-process.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*websocket.Conn
	cancelFuncs map[uuid.UUID]context.CancelFunc
	redisClient *redis.Client
	validate    TokenValidator
}

func NewHub(redisClient *redis.Client, validate TokenValidator) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID][]*websocket.Conn),
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
		redisClient: redisClient,
		validate:    validate,
	}
}

func channelName(jobID uuid.UUID) string {
	return "job_updates:" + jobID.String()
}

// HandleJob upgrades GET /api/v1/jobs/{id}/ws?token=... and streams that
// job's status changes as JSON.
func (h *Hub) HandleJob(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on websocket requests, so the token is a query param.
	if h.validate == nil || !h.validate(r.URL.Query().Get("token")) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.registerConnection(jobID, conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(jobID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// JobChanged publishes the job's new state to its subscribers.
func (h *Hub) JobChanged(ctx context.Context, job *models.Job) {
	data, err := json.Marshal(job)
	if err != nil {
		return
	}

	if h.redisClient == nil {
		h.broadcast(job.ID, data)
		return
	}
	if err := h.redisClient.Publish(ctx, channelName(job.ID), data).Err(); err != nil {
		log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("failed to publish job update")
	}
}

func (h *Hub) registerConnection(jobID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[jobID] = append(h.connections[jobID], conn)

	// First subscriber for this job starts the pub/sub relay.
	if h.redisClient != nil && len(h.connections[jobID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[jobID] = cancel
		go h.subscribe(ctx, jobID)
	}

	log.Debug().Str("job_id", jobID.String()).Int("subscribers", len(h.connections[jobID])).Msg("websocket connected")
}

func (h *Hub) unregisterConnection(jobID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[jobID]
	for i, c := range conns {
		if c == conn {
			h.connections[jobID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[jobID]) == 0 {
		delete(h.connections, jobID)
		if cancel, ok := h.cancelFuncs[jobID]; ok {
			cancel()
			delete(h.cancelFuncs, jobID)
		}
	}
}

func (h *Hub) subscribe(ctx context.Context, jobID uuid.UUID) {
	pubsub := h.redisClient.Subscribe(ctx, channelName(jobID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(jobID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(jobID uuid.UUID, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.connections[jobID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug().Err(err).Str("job_id", jobID.String()).Msg("websocket write failed")
		}
	}
}

// Subscribers reports how many clients are watching jobID.
func (h *Hub) Subscribers(jobID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[jobID])
}
