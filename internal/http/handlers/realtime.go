package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wakeupmh/sensory-profile-backend/internal/http/response"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/ctxutil"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/realtime"
)

var (
	errNotAuthenticated = errors.New("not authenticated")
	errMissingSession   = errors.New("missing session id")
)

// RealtimeHandler serves the SSE stream carrying job lifecycle events.
// Every stream subscribes to its examiner's channel; one stream per
// session, keyed by the access token row id, so a reconnect replaces
// the previous connection instead of leaking it.
type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub

	mu      sync.Mutex
	clients map[uuid.UUID]*realtime.SSEClient
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

// GET /api/sse/stream
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.ExaminerID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errNotAuthenticated)
		return
	}
	sessionID := rd.TokenID
	if sessionID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errMissingSession)
		return
	}

	h.mu.Lock()
	if existing, ok := h.clients[sessionID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, sessionID)
	}
	client := h.hub.NewSSEClient(rd.ExaminerID)
	h.clients[sessionID] = client
	h.mu.Unlock()

	h.log.Info("SSE stream open",
		"examiner_id", rd.ExaminerID.String(),
		"session_id", sessionID.String(),
		"client_id", client.ID.String(),
	)

	h.hub.AddChannel(client, rd.ExaminerID.String())
	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	if h.clients[sessionID] == client {
		delete(h.clients, sessionID)
	}
	h.mu.Unlock()
	h.hub.CloseClient(client)
}
