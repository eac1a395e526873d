package docrepo

import (
	"context"
	"time"

	"automed-dashboard/internal/domain/dashboard"
	"automed-dashboard/internal/domain/history"
	"automed-dashboard/internal/domain/schedules"
	"automed-dashboard/internal/ports/docstore"
)

// Feeds traduce las suscripciones del árbol a colecciones del dominio.
type Feeds struct {
	store docstore.Store
	loc   *time.Location
}

var _ dashboard.Source = (*Feeds)(nil)

func NewFeeds(store docstore.Store, loc *time.Location) *Feeds {
	if loc == nil {
		loc = time.Local
	}
	return &Feeds{store: store, loc: loc}
}

func (f *Feeds) WatchStatus(ctx context.Context, fn func(string)) (func(), error) {
	return f.watchScalar(ctx, PathMedicationStatus, fn)
}

func (f *Feeds) WatchClock(ctx context.Context, fn func(string)) (func(), error) {
	return f.watchScalar(ctx, PathClock, fn)
}

func (f *Feeds) WatchSchedules(ctx context.Context, fn func([]schedules.MedicationSchedule)) (func(), error) {
	return f.store.Subscribe(ctx, PathSchedules, func(s docstore.Snapshot) {
		fn(decodeSchedules(s, f.loc))
	})
}

func (f *Feeds) WatchHistory(ctx context.Context, fn func([]history.DoseRecord)) (func(), error) {
	return f.store.Subscribe(ctx, PathHistory, func(s docstore.Snapshot) {
		fn(decodeHistory(s, f.loc))
	})
}

func (f *Feeds) watchScalar(ctx context.Context, path string, fn func(string)) (func(), error) {
	return f.store.Subscribe(ctx, path, func(s docstore.Snapshot) {
		fn(snapshotString(s))
	})
}
