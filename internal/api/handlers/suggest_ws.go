package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"transport-roadmap-service/internal/api/dto"
	"transport-roadmap-service/internal/domain"
	"transport-roadmap-service/internal/metrics"
	"transport-roadmap-service/internal/ports"
	"transport-roadmap-service/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// same-origin browsers and CLI clients only; this service sits behind
	// the clinic's reverse proxy
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsEvent struct {
	Type     string                `json:"type"`
	Message  string                `json:"message,omitempty"`
	Roadmaps []dto.RoadmapResponse `json:"roadmaps,omitempty"`
}

// SuggestStream runs the same suggestion flow as Suggest but over a
// websocket, forwarding engine progress messages as they happen. The
// client sends one request object and receives a stream of progress
// events terminated by a single result or error event.
func (h *SuggestHandler) SuggestStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var req dto.SuggestRoadmapsRequest
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(wsEvent{Type: "error", Message: "invalid request object"})
		return
	}

	svcReq, err := h.buildRequest(r.Context(), req)
	if err != nil {
		_ = conn.WriteJSON(wsEvent{Type: "error", Message: err.Error()})
		return
	}

	// engine progress arrives on a worker goroutine; the websocket allows
	// one writer, so everything funnels through this channel
	progress := make(chan string, 16)
	type outcome struct {
		roadmaps []*domain.Roadmap
		err      error
	}
	done := make(chan outcome, 1)

	start := time.Now()
	go func() {
		defer close(progress)
		sink := ports.ProgressFunc(func(m string) {
			select {
			case progress <- m:
			default: // a slow client never stalls the engine
			}
		})
		roadmaps, err := services.SuggestRoadmaps(r.Context(), svcReq, h.Appointments, h.Provider, sink)
		done <- outcome{roadmaps: roadmaps, err: err}
	}()

	for m := range progress {
		if err := conn.WriteJSON(wsEvent{Type: "progress", Message: m}); err != nil {
			log.Printf("websocket progress write failed: %v", err)
			// keep draining so the engine goroutine can finish
		}
	}

	result := <-done
	metrics.SuggestDuration.Observe(time.Since(start).Seconds())
	if result.err != nil {
		metrics.SuggestRuns.WithLabelValues("error").Inc()
		_, msg := suggestErrorStatus(result.err)
		log.Printf("suggest roadmaps failed: %v", result.err)
		_ = conn.WriteJSON(wsEvent{Type: "error", Message: msg})
		return
	}
	metrics.SuggestRuns.WithLabelValues("ok").Inc()

	if req.Persist {
		if err := h.Roadmaps.SaveAll(r.Context(), result.roadmaps); err != nil {
			log.Printf("persist roadmaps failed: %v", err)
			_ = conn.WriteJSON(wsEvent{Type: "error", Message: "failed to persist roadmaps"})
			return
		}
	}

	_ = conn.WriteJSON(wsEvent{Type: "result", Roadmaps: roadmapsToDTO(result.roadmaps)})
}
