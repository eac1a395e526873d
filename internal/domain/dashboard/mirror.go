package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"automed-dashboard/internal/domain/device"
	"automed-dashboard/internal/domain/history"
	"automed-dashboard/internal/domain/schedules"
	"automed-dashboard/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

var ErrAlreadyStarted = errors.New("mirror already started")

const DefaultCountdownInterval = time.Minute

type Options struct {
	Location          *time.Location
	CountdownInterval time.Duration
	Publisher         Publisher
	Logger            logger.Logger
	Now               func() time.Time
}

// Mirror mantiene la copia local de las cuatro colecciones y la vista derivada.
// Cada cambio recalcula sólo lo que depende de esa colección.
type Mirror struct {
	src      Source
	pub      Publisher
	log      logger.Logger
	loc      *time.Location
	now      func() time.Time
	interval time.Duration

	mu     sync.Mutex
	status string
	clock  string
	items  []schedules.MedicationSchedule

	next       *schedules.MedicationSchedule
	countdown  string
	dosesLeft  int
	today      []schedules.MedicationSchedule
	deviceDate time.Time
	usage      history.Usage
	updatedAt  time.Time

	cron     *cron.Cron
	entry    cron.EntryID
	armedFor string

	unsubs  []func()
	started bool
}

func NewMirror(src Source, opts Options) *Mirror {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.CountdownInterval <= 0 {
		opts.CountdownInterval = DefaultCountdownInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	log := opts.Logger.With(map[string]any{"component": "dashboard_mirror"})
	return &Mirror{
		src:      src,
		pub:      opts.Publisher,
		log:      log,
		loc:      opts.Location,
		now:      opts.Now,
		interval: opts.CountdownInterval,
		status:   device.UnknownStatus,
		clock:    device.LoadingClock,
		items:    []schedules.MedicationSchedule{},
		today:    []schedules.MedicationSchedule{},
		usage:    history.Usage{Daily: map[string]int{}, Weekly: map[string]int{}},
		cron: cron.New(
			cron.WithLocation(opts.Location),
			cron.WithChain(cron.Recover(cronLogger{log: log})),
		),
	}
}

// Start se suscribe a las colecciones y arranca el scheduler del contador.
func (m *Mirror) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.mu.Unlock()

	// Las suscripciones pueden entregar el primer valor en esta misma goroutine.
	watches := []struct {
		name  string
		watch func() (func(), error)
	}{
		{"medication_status", func() (func(), error) { return m.src.WatchStatus(ctx, m.onStatus) }},
		{"rtc/time", func() (func(), error) { return m.src.WatchClock(ctx, m.onClock) }},
		{"medication_schedules", func() (func(), error) { return m.src.WatchSchedules(ctx, m.onSchedules) }},
		{"medication_history", func() (func(), error) { return m.src.WatchHistory(ctx, m.onHistory) }},
	}

	unsubs := make([]func(), 0, len(watches))
	for _, w := range watches {
		unsub, err := w.watch()
		if err != nil {
			for _, u := range unsubs {
				u()
			}
			m.mu.Lock()
			m.started = false
			m.mu.Unlock()
			return fmt.Errorf("watch %s: %w", w.name, err)
		}
		unsubs = append(unsubs, unsub)
	}

	m.mu.Lock()
	m.unsubs = unsubs
	m.mu.Unlock()

	m.cron.Start()
	m.log.Info("dashboard mirror started", map[string]any{"countdown_interval": m.interval.String()})
	return nil
}

// Stop cancela suscripciones y la tarea del contador.
func (m *Mirror) Stop() {
	m.mu.Lock()
	unsubs := m.unsubs
	m.unsubs = nil
	m.disarmLocked()
	m.started = false
	m.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	<-m.cron.Stop().Done()
}

// View devuelve una copia de la vista actual.
func (m *Mirror) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

// ScheduledTasks cuenta las tareas del contador registradas (0 o 1).
func (m *Mirror) ScheduledTasks() int {
	return len(m.cron.Entries())
}

// Tick recalcula el contador y la lista de hoy con el reloj local.
func (m *Mirror) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refreshCountdownLocked()
	m.today = TodaysSchedule(m.items, m.localNow())
	m.touchLocked()
	m.publishLocked(EventCountdown)
}

func (m *Mirror) onStatus(status string) {
	if status == "" {
		status = device.UnknownStatus
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if status == m.status {
		return
	}
	m.status = status
	// el estado sólo afecta al contador
	m.rearmLocked()
	m.touchLocked()
	m.publishLocked(EventView)
}

func (m *Mirror) onClock(clock string) {
	if clock == "" {
		clock = device.LoadingClock
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if clock == m.clock {
		return
	}
	m.clock = clock
	if d, ok := DeviceDate(clock, m.loc); ok {
		m.deviceDate = d
	} else {
		m.deviceDate = time.Time{}
	}
	m.resolveLocked()
	m.touchLocked()
	m.publishLocked(EventView)
}

func (m *Mirror) onSchedules(items []schedules.MedicationSchedule) {
	if items == nil {
		items = []schedules.MedicationSchedule{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
	m.dosesLeft = TotalDosesLeft(items)
	m.today = TodaysSchedule(items, m.localNow())
	m.resolveLocked()
	m.touchLocked()
	m.publishLocked(EventView)
}

func (m *Mirror) onHistory(records []history.DoseRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage = history.AggregateUsage(records, m.localNow())
	m.touchLocked()
	m.publishLocked(EventView)
}

func (m *Mirror) resolveLocked() {
	m.next = ResolveNextDose(m.clock, m.items, m.loc)
	m.rearmLocked()
}

// rearmLocked reemplaza la tarea del contador cuando cambia la dosis o el estado.
func (m *Mirror) rearmLocked() {
	key := ""
	if m.next != nil {
		key = m.next.ID + "|" + m.next.NextDoseTime.UTC().Format(time.RFC3339Nano) + "|" + m.status
	}
	if key == m.armedFor && (key == "") == (m.entry == 0) {
		m.refreshCountdownLocked()
		return
	}

	m.disarmLocked()
	m.armedFor = key
	if m.next == nil {
		m.countdown = ""
		return
	}

	m.refreshCountdownLocked()
	m.entry = m.cron.Schedule(cron.Every(m.interval), cron.FuncJob(m.Tick))
	m.log.Debug("countdown armed", map[string]any{"schedule_id": m.next.ID, "status": m.status})
}

func (m *Mirror) disarmLocked() {
	if m.entry != 0 {
		m.cron.Remove(m.entry)
		m.entry = 0
	}
	m.armedFor = ""
}

func (m *Mirror) refreshCountdownLocked() {
	if m.next == nil {
		m.countdown = ""
		return
	}
	m.countdown = FormatCountdown(m.next.NextDoseTime, m.now(), m.status)
}

func (m *Mirror) localNow() time.Time {
	return m.now().In(m.loc)
}

func (m *Mirror) touchLocked() {
	m.updatedAt = m.now().UTC()
}

func (m *Mirror) publishLocked(eventType string) {
	if m.pub == nil {
		return
	}
	m.pub.Publish(Topic, eventType, toViewResponse(m.viewLocked()))
}

func (m *Mirror) viewLocked() View {
	v := View{
		Status:         m.status,
		DeviceClock:    m.clock,
		DeviceDate:     m.deviceDate,
		Countdown:      m.countdown,
		TotalDosesLeft: m.dosesLeft,
		Today:          append([]schedules.MedicationSchedule(nil), m.today...),
		Usage:          history.Usage{Daily: copyCounts(m.usage.Daily), Weekly: copyCounts(m.usage.Weekly)},
		UpdatedAt:      m.updatedAt,
	}
	if m.next != nil {
		n := *m.next
		v.NextDose = &n
	}
	return v
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// cronLogger adapta logger.Logger a la interfaz de robfig/cron.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, kvFields(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := kvFields(keysAndValues)
	fields["err"] = err
	l.log.Error("cron: "+msg, fields)
}

func kvFields(kv []any) map[string]any {
	out := make(map[string]any, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		out[k] = kv[i+1]
	}
	return out
}
