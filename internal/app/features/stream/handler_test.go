// internal/app/features/stream/handler_test.go
package stream_test

import (
	"context"
	"net/http/httptest"
	"strings"
	stdsync "sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/features/stream"
	"github.com/plantfloor/sparetrack/internal/app/system/sync"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// notifyRecorder signals each write so tests can wait for the handler
// to emit a frame before cancelling the request. Writes happen on the
// handler goroutine, so body access goes through bodyCopy.
type notifyRecorder struct {
	*httptest.ResponseRecorder
	mu    stdsync.Mutex
	wrote chan struct{}
}

func newNotifyRecorder() *notifyRecorder {
	return &notifyRecorder{
		ResponseRecorder: httptest.NewRecorder(),
		wrote:            make(chan struct{}, 16),
	}
}

func (n *notifyRecorder) Write(p []byte) (int, error) {
	n.mu.Lock()
	count, err := n.ResponseRecorder.Write(p)
	n.mu.Unlock()
	select {
	case n.wrote <- struct{}{}:
	default:
	}
	return count, err
}

func (n *notifyRecorder) bodyCopy() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Body.String()
}

func startedParts(t *testing.T, parts []models.SparePart) *sync.Parts {
	t.Helper()

	s := sync.NewParts(zap.NewNop())
	err := s.Start(func(onSnapshot func([]models.SparePart), onErr func(error)) func() {
		onSnapshot(parts)
		return func() {}
	})
	if err != nil {
		t.Fatalf("start feed: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func TestStreamParts_SendsInitialSnapshot(t *testing.T) {
	parts := startedParts(t, []models.SparePart{{
		ID:    primitive.NewObjectID(),
		Name:  "Bearing 6205",
		Plant: "Foundry",
	}})
	settings := sync.NewSettings(zap.NewNop())
	h := stream.NewHandler(parts, settings, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/stream/spareparts", nil).WithContext(ctx)
	rec := newNotifyRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.StreamParts(rec, req)
	}()

	select {
	case <-rec.wrote:
	case <-time.After(2 * time.Second):
		t.Fatal("no SSE frame written")
	}
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: snapshot") {
		t.Errorf("body missing snapshot event:\n%s", body)
	}
	if !strings.Contains(body, "Bearing 6205") {
		t.Errorf("body missing record payload:\n%s", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type: got %q, want text/event-stream", ct)
	}
	if rec.Header().Get("X-Accel-Buffering") != "no" {
		t.Error("proxy buffering must be disabled")
	}
}

func TestStreamParts_LiveUpdateReachesClient(t *testing.T) {
	var push func([]models.SparePart)
	s := sync.NewParts(zap.NewNop())
	err := s.Start(func(onSnapshot func([]models.SparePart), onErr func(error)) func() {
		push = onSnapshot
		onSnapshot(nil)
		return func() {}
	})
	if err != nil {
		t.Fatalf("start feed: %v", err)
	}
	t.Cleanup(s.Stop)

	h := stream.NewHandler(s, sync.NewSettings(zap.NewNop()), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/stream/spareparts", nil).WithContext(ctx)
	rec := newNotifyRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.StreamParts(rec, req)
	}()

	// First frame is the replayed empty snapshot.
	select {
	case <-rec.wrote:
	case <-time.After(2 * time.Second):
		t.Fatal("no initial frame")
	}

	push([]models.SparePart{{ID: primitive.NewObjectID(), Name: "Drive Belt", Plant: "Assembly"}})

	deadline := time.After(2 * time.Second)
	for !strings.Contains(rec.bodyCopy(), "Drive Belt") {
		select {
		case <-rec.wrote:
		case <-deadline:
			t.Fatal("pushed update never reached the client")
		}
	}
	cancel()
	<-done
}

func TestStreamSettings_ErrorMarker(t *testing.T) {
	s := sync.NewSettings(zap.NewNop())
	err := s.Start(func(onSnapshot func(models.AppSettings), onErr func(error)) func() {
		onSnapshot(models.AppSettings{AutoScrollEnabled: true, AutoScrollSpeed: 25})
		onErr(context.DeadlineExceeded)
		return func() {}
	})
	if err != nil {
		t.Fatalf("start feed: %v", err)
	}
	t.Cleanup(s.Stop)

	h := stream.NewHandler(sync.NewParts(zap.NewNop()), s, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/stream/settings", nil).WithContext(ctx)
	rec := newNotifyRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.StreamSettings(rec, req)
	}()

	deadline := time.After(2 * time.Second)
	for !strings.Contains(rec.bodyCopy(), "event: sync-error") {
		select {
		case <-rec.wrote:
		case <-deadline:
			t.Fatal("error marker never sent")
		}
	}
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: snapshot") {
		t.Errorf("last-good snapshot should precede the error marker:\n%s", body)
	}
}
