// internal/app/store/spareparts/watch.go
package sparepartstore

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/system/apperr"
	"github.com/plantfloor/sparetrack/internal/app/system/sync"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// Watch returns a live feed of the full ordered spare-part snapshot.
//
// The feed pushes the current snapshot immediately on attach, then opens
// a change stream on the collection and re-queries the whole ordered
// sequence after every change event. Re-querying keeps the feed simple
// and keeps ordering authoritative in one place (the Snapshot sort); the
// collection is small enough that per-event re-reads are cheap.
//
// The returned stop function cancels the stream and waits for the feed
// goroutine to exit, so no callback fires after stop returns.
func (s *Store) Watch(log *zap.Logger) sync.Feed[[]models.SparePart] {
	return func(onSnapshot func([]models.SparePart), onErr func(error)) (stop func()) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		go func() {
			defer close(done)

			parts, err := s.Snapshot(ctx)
			if err != nil {
				if ctx.Err() == nil {
					onErr(err)
				}
				return
			}
			onSnapshot(parts)

			cs, err := s.c.Watch(ctx, mongo.Pipeline{})
			if err != nil {
				if ctx.Err() == nil {
					onErr(apperr.Unavailable("watch spare parts", err))
				}
				return
			}
			defer cs.Close(context.Background())

			for cs.Next(ctx) {
				// Drain any queued events before re-querying so a burst
				// of writes costs one read, not one per event.
				for cs.RemainingBatchLength() > 0 && cs.Next(ctx) {
				}

				parts, err := s.Snapshot(ctx)
				if err != nil {
					if ctx.Err() == nil {
						onErr(err)
					}
					return
				}
				onSnapshot(parts)
			}
			if err := cs.Err(); err != nil && ctx.Err() == nil {
				if log != nil {
					log.Warn("spare part change stream closed", zap.Error(err))
				}
				onErr(apperr.Unavailable("watch spare parts", err))
			}
		}()

		return func() {
			cancel()
			<-done
		}
	}
}
