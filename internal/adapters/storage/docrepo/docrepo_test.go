package docrepo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"automed-dashboard/internal/adapters/storage/memory"
	"automed-dashboard/internal/domain/alerts"
	"automed-dashboard/internal/domain/patients"
	"automed-dashboard/internal/domain/schedules"
)

var wat = time.FixedZone("WAT", 3600)

func TestScheduleRepo_CreateUpdateRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewScheduleRepo(store, time.UTC)

	next := time.Date(2025, 3, 12, 19, 0, 0, 0, time.UTC)
	id, err := repo.Create(ctx, schedules.MedicationSchedule{
		Name: "Metformin", Frequency: schedules.FrequencyDaily, Times: []string{"08:00", "20:00"},
		StartDate: "2025-03-01", EndDate: "2025-04-01", TotalDoses: 14, RefillThreshold: 3,
		DosesLeft: 14, NextDoseTime: next, Status: schedules.StatusScheduled,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	raw, _ := store.Get(ctx, "medication_schedules/"+id+"/nextDoseTime")
	if got := raw.String(); got != "2025-03-12T19:00:00.000Z" {
		t.Fatalf("unexpected stored nextDoseTime %q", got)
	}

	// el firmware agrega campos propios; el update no los pisa
	if err := store.Set(ctx, "medication_schedules/"+id+"/lastDispensed", "x"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	err = repo.Update(ctx, schedules.MedicationSchedule{
		ID: id, Name: "Metformin XR", Frequency: schedules.FrequencyDaily, Times: []string{"09:00"},
		StartDate: "2025-03-01", TotalDoses: 10, DosesLeft: 10, NextDoseTime: next, Status: schedules.StatusScheduled,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Name != "Metformin XR" || got.EndDate != "" || len(got.Times) != 1 || !got.NextDoseTime.Equal(next) {
		t.Fatalf("unexpected schedule after update: %+v", got)
	}
	if extra, _ := store.Get(ctx, "medication_schedules/"+id+"/lastDispensed"); !extra.Exists() {
		t.Fatalf("expected device field to survive the merge")
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := repo.GetByID(ctx, id); !errors.Is(err, schedules.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestScheduleRepo_List_NormalizesDeviceData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_ = store.Set(ctx, "medication_schedules", map[string]any{
		"s1": map[string]any{"name": "A", "times": "08:00", "totalDoses": "7", "nextDoseTime": "bad"},
		"s2": map[string]any{"name": "B", "completed": "true"},
		"s3": "garbage",
		"s4": map[string]any{"name": "D", "times": map[string]any{"1": "20:00", "0": "08:00"}, "nextDoseTime": "2025-03-12 20:00:00"},
	})

	items, err := NewScheduleRepo(store, wat).List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected malformed entry to be skipped, got %d items", len(items))
	}
	if items[0].ID != "s1" || len(items[0].Times) != 1 || items[0].Times[0] != "08:00" || items[0].TotalDoses != 7 {
		t.Fatalf("unexpected s1: %+v", items[0])
	}
	if !items[0].NextDoseTime.IsZero() {
		t.Fatalf("unparseable nextDoseTime must be zero")
	}
	if items[1].Times == nil || len(items[1].Times) != 0 || !items[1].Completed {
		t.Fatalf("unexpected s2: %+v", items[1])
	}
	if got := items[2].Times; len(got) != 2 || got[0] != "08:00" || got[1] != "20:00" {
		t.Fatalf("unexpected s4 times: %v", got)
	}
	// hora local sin zona escrita por el firmware
	if want := time.Date(2025, 3, 12, 20, 0, 0, 0, wat); !items[2].NextDoseTime.Equal(want) {
		t.Fatalf("expected local nextDoseTime %v, got %v", want, items[2].NextDoseTime)
	}
}

func TestHistoryRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_ = store.Set(ctx, "medication_history", map[string]any{
		"h1": map[string]any{"medicationName": "Metformin", "actualTime": "12/03/2025 08:05:00"},
		"h2": map[string]any{"medicationName": "Aspirin", "actualTime": "2025-03-12T07:05:00Z", "dosesTaken": 2},
		"h3": map[string]any{"medicationName": "Aspirin", "actualTime": "soon"},
	})

	recs, err := NewHistoryRepo(store, wat).List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	want := time.Date(2025, 3, 12, 8, 5, 0, 0, wat)
	if recs[0].DosesTaken != 1 || !recs[0].ActualTime.Equal(want) {
		t.Fatalf("unexpected h1: %+v", recs[0])
	}
	if recs[1].DosesTaken != 2 || !recs[1].ActualTime.Equal(want) {
		t.Fatalf("unexpected h2: %+v", recs[1])
	}
	if !recs[2].ActualTime.IsZero() || recs[2].ActualTimeRaw != "soon" {
		t.Fatalf("unexpected h3: %+v", recs[2])
	}
}

func TestAlertRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewAlertRepo(store, time.UTC)

	ts := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
	id, err := repo.Create(ctx, alerts.Alert{Type: alerts.TypeRefill, Message: "Refill Metformin", Timestamp: ts})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := repo.MarkRead(ctx, id); err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	a, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if !a.Read || a.Type != alerts.TypeRefill || !a.Timestamp.Equal(ts) {
		t.Fatalf("unexpected alert: %+v", a)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := repo.GetByID(ctx, id); !errors.Is(err, alerts.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeviceRepo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_ = store.Set(ctx, "medication_status", "scheduled")
	_ = store.Set(ctx, "rfid/uid", 12345)

	repo := NewDeviceRepo(store)
	tel, err := repo.Telemetry(ctx)
	if err != nil {
		t.Fatalf("Telemetry returned error: %v", err)
	}
	if tel.Status != "scheduled" || tel.RFIDUID != "12345" || tel.Clock != "" || tel.RFIDStatus != "" {
		t.Fatalf("unexpected telemetry: %+v", tel)
	}

	if err := repo.RequestDispense(ctx, "2025-03-12T08:00:00.000Z"); err != nil {
		t.Fatalf("RequestDispense returned error: %v", err)
	}
	snap, _ := store.Get(ctx, "manual_dispense_request")
	if snap.String() != "2025-03-12T08:00:00.000Z" {
		t.Fatalf("unexpected dispense request %q", snap.String())
	}
}

func TestPatientRepo_Link(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewPatientRepo(store)

	if _, err := repo.Get(ctx, "patient1"); !errors.Is(err, patients.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Save(ctx, patients.Patient{ID: "patient1", Name: "John Doe", Email: "patient@example.com"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	name := "Jane Doe"
	if err := repo.Update(ctx, "patient1", patients.Patch{Name: &name}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	p, _ := repo.Get(ctx, "patient1")
	if p.Name != "Jane Doe" || p.Email != "patient@example.com" {
		t.Fatalf("unexpected patient: %+v", p)
	}

	_ = store.Set(ctx, "devices/device1/serial", "ESP-01")
	if err := repo.SetLinkedPatient(ctx, "device1", "patient1"); err != nil {
		t.Fatalf("SetLinkedPatient returned error: %v", err)
	}
	if linked, _ := repo.LinkedPatient(ctx, "device1"); linked != "patient1" {
		t.Fatalf("expected patient1, got %q", linked)
	}
	if err := repo.SetLinkedPatient(ctx, "device1", ""); err != nil {
		t.Fatalf("unlink returned error: %v", err)
	}
	if linked, _ := repo.LinkedPatient(ctx, "device1"); linked != "" {
		t.Fatalf("expected link cleared, got %q", linked)
	}
	if serial, _ := store.Get(ctx, "devices/device1/serial"); serial.String() != "ESP-01" {
		t.Fatalf("unlink must keep other device fields")
	}
}

func TestFeeds_DeliverDecodedSnapshots(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	feeds := NewFeeds(store, wat)

	var mu sync.Mutex
	var clocks []string
	var lists [][]schedules.MedicationSchedule

	stopClock, err := feeds.WatchClock(ctx, func(s string) {
		mu.Lock()
		clocks = append(clocks, s)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("WatchClock returned error: %v", err)
	}
	defer stopClock()

	stopItems, err := feeds.WatchSchedules(ctx, func(items []schedules.MedicationSchedule) {
		mu.Lock()
		lists = append(lists, items)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("WatchSchedules returned error: %v", err)
	}
	defer stopItems()

	_ = store.Set(ctx, "rtc/time", "12/03/2025 10:00:00")
	_ = store.Set(ctx, "medication_schedules/s1", map[string]any{"name": "A", "times": []string{"08:00"}})

	mu.Lock()
	defer mu.Unlock()
	if len(clocks) != 2 || clocks[0] != "" || clocks[1] != "12/03/2025 10:00:00" {
		t.Fatalf("unexpected clock deliveries: %q", clocks)
	}
	if len(lists) != 2 || len(lists[0]) != 0 || len(lists[1]) != 1 || lists[1][0].Name != "A" {
		t.Fatalf("unexpected schedule deliveries: %+v", lists)
	}
}
