package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/auth"
	"github.com/crewbook/crewbook-backend-go/internal/handler/http/response"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/jwt"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/sse"
)

const keepaliveInterval = 30 * time.Second

// Subscriber is the subscribing half of sse.Hub.
type Subscriber interface {
	Subscribe(topic string) (<-chan sse.Event, func())
}

type EventHandler interface {
	Token(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	hub        Subscriber
	jwtService jwt.Service
	keepalive  time.Duration
	shutdown   <-chan struct{}
}

// NewEventHandler builds the SSE endpoints. Open streams end when shutdown is
// closed so the server can drain without waiting on them.
func NewEventHandler(hub Subscriber, jwtService jwt.Service, shutdown <-chan struct{}) EventHandler {
	return &eventHandlerImpl{
		hub:        hub,
		jwtService: jwtService,
		keepalive:  keepaliveInterval,
		shutdown:   shutdown,
	}
}

// Token handles POST /events/token
func (h *eventHandlerImpl) Token(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.CompanyFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(claims)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, auth.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles GET /events?token=. EventSource cannot send headers, so the
// short-lived token comes in the query string.
func (h *eventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	claims, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(claims.CompanyID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"company_id\":%q}\n\n", claims.CompanyID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				slog.Warn("Failed to encode event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return

		case <-h.shutdown:
			return
		}
	}
}
