package dashboard

import (
	"context"

	"automed-dashboard/internal/domain/history"
	"automed-dashboard/internal/domain/schedules"
)

// Source entrega el valor completo de cada colección observada, ahora y en cada cambio.
// Cada Watch devuelve la función para cancelar.
type Source interface {
	WatchStatus(ctx context.Context, fn func(status string)) (func(), error)
	WatchClock(ctx context.Context, fn func(clock string)) (func(), error)
	WatchSchedules(ctx context.Context, fn func(items []schedules.MedicationSchedule)) (func(), error)
	WatchHistory(ctx context.Context, fn func(records []history.DoseRecord)) (func(), error)
}

// Publisher difunde la vista; no debe bloquear.
type Publisher interface {
	Publish(topic, eventType string, data any)
}

const (
	Topic = "dashboard"

	EventView      = "dashboard.view"
	EventCountdown = "dashboard.countdown"
)
