// internal/app/features/stream/handler.go
package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/system/sync"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// heartbeatEvery keeps idle proxies from dropping the connection.
const heartbeatEvery = 30 * time.Second

// clientBuffer is the per-connection event buffer. A client that cannot
// drain it fast enough skips intermediate snapshots; the next one it
// receives is always the newest.
const clientBuffer = 8

// event is one SSE frame: an event name plus a JSON payload.
type event struct {
	name string
	data []byte
}

// Handler republishes synchronizer updates over Server-Sent Events so
// open dashboards refresh without polling.
type Handler struct {
	Parts    *sync.Parts
	Settings *sync.Settings
	Log      *zap.Logger
}

func NewHandler(parts *sync.Parts, settings *sync.Settings, logger *zap.Logger) *Handler {
	return &Handler{Parts: parts, Settings: settings, Log: logger}
}

// StreamParts handles GET /stream/spareparts.
func (h *Handler) StreamParts(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, h.Parts, func(parts []models.SparePart) interface{} {
		if parts == nil {
			return []models.SparePart{}
		}
		return parts
	})
}

// StreamSettings handles GET /stream/settings.
func (h *Handler) StreamSettings(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, h.Settings, func(s models.AppSettings) interface{} { return s })
}

// serve runs one SSE connection against a synchronizer. The current
// snapshot (if any) is sent immediately so a reconnecting client never
// waits for the next change, then every update follows as it lands.
func serve[T any](w http.ResponseWriter, r *http.Request, log *zap.Logger, s *sync.Synchronizer[T], payload func(T) interface{}) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events := make(chan event, clientBuffer)
	send := func(name string, v interface{}) {
		data, err := json.Marshal(v)
		if err != nil {
			log.Error("sse encode failed", zap.String("event", name), zap.Error(err))
			return
		}
		select {
		case events <- event{name: name, data: data}:
		default:
			// Buffer full; this client catches up on the next update.
		}
	}

	cancel := s.Subscribe(sync.Consumer[T]{
		OnSnapshot: func(v T) { send("snapshot", payload(v)) },
		OnError: func(err error) {
			send("sync-error", map[string]string{"error": err.Error()})
		},
	})
	defer cancel()

	// Subscribe replays the canonical value only while live; after a
	// feed error the last-good snapshot still gets sent, followed by
	// the staleness marker.
	if s.State() == sync.StateError {
		if v, have := s.Snapshot(); have {
			send("snapshot", payload(v))
		}
		if err := s.Err(); err != nil {
			send("sync-error", map[string]string{"error": err.Error()})
		}
	}

	heartbeat := time.NewTicker(heartbeatEvery)
	defer heartbeat.Stop()

	clientGone := r.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case ev := <-events:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
