// internal/app/store/settings/watch.go
package settingsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/system/apperr"
	"github.com/plantfloor/sparetrack/internal/app/system/sync"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// Watch returns a live feed of the shared settings document. The feed
// emits immediately on attach; when no document exists yet it emits the
// zero-value defaults, so dashboards always have something to render.
// Every change event triggers a re-read of the document.
func (s *Store) Watch(log *zap.Logger) sync.Feed[models.AppSettings] {
	return func(onSnapshot func(models.AppSettings), onErr func(error)) (stop func()) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		go func() {
			defer close(done)

			settings, err := s.Get(ctx)
			if err != nil {
				if ctx.Err() == nil {
					onErr(err)
				}
				return
			}
			onSnapshot(settings)

			cs, err := s.c.Watch(ctx, mongo.Pipeline{})
			if err != nil {
				if ctx.Err() == nil {
					onErr(apperr.Unavailable("watch settings", err))
				}
				return
			}
			defer cs.Close(context.Background())

			for cs.Next(ctx) {
				settings, err := s.Get(ctx)
				if err != nil {
					if ctx.Err() == nil {
						onErr(err)
					}
					return
				}
				onSnapshot(settings)
			}
			if err := cs.Err(); err != nil && ctx.Err() == nil {
				if log != nil {
					log.Warn("settings change stream closed", zap.Error(err))
				}
				onErr(apperr.Unavailable("watch settings", err))
			}
		}()

		return func() {
			cancel()
			<-done
		}
	}
}
