package schedules

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID    map[string]MedicationSchedule
	nextID  int
	updates int
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]MedicationSchedule{}}
}

func (r *testRepo) Create(ctx context.Context, m MedicationSchedule) (string, error) {
	r.nextID++
	id := fmt.Sprintf("med-%d", r.nextID)
	m.ID = id
	r.byID[id] = m
	return id, nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (MedicationSchedule, error) {
	m, ok := r.byID[id]
	if !ok {
		return MedicationSchedule{}, ErrNotFound
	}
	return m, nil
}

func (r *testRepo) List(ctx context.Context) ([]MedicationSchedule, error) {
	out := make([]MedicationSchedule, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, m MedicationSchedule) error {
	r.updates++
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func validInput() Input {
	return Input{
		Name:            "Metformin",
		Frequency:       FrequencyDaily,
		Times:           []string{"20:00", "08:00"},
		StartDate:       "2025-03-10",
		TotalDoses:      14,
		RefillThreshold: 3,
	}
}

func newTestService(now time.Time) (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, now.Location())
	svc.now = func() time.Time { return now }
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestNextTimeSlot_LaterToday(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

	got := NextTimeSlot([]string{"08:00", "20:00"}, now)
	want := time.Date(2025, 3, 12, 20, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestNextTimeSlot_RollsToTomorrow(t *testing.T) {
	now := time.Date(2025, 3, 12, 21, 0, 0, 0, time.UTC)

	got := NextTimeSlot([]string{"20:00", "08:00"}, now)
	want := time.Date(2025, 3, 13, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestNextTimeSlot_StrictlyAfterNow(t *testing.T) {
	now := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)

	got := NextTimeSlot([]string{"08:00", "20:00"}, now)
	if got.Hour() != 20 {
		t.Fatalf("a slot equal to now must be skipped, got %s", got)
	}
}

func TestNextTimeSlot_EmptyFallsBackToNow(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
	if got := NextTimeSlot(nil, now); !got.Equal(now) {
		t.Fatalf("expected now, got %s", got)
	}
}

func TestNextTimeSlot_UsesLocationOfNow(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	now := time.Date(2025, 3, 12, 23, 30, 0, 0, loc)

	got := NextTimeSlot([]string{"07:15"}, now)
	want := time.Date(2025, 3, 13, 7, 15, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestValidate_DoseBounds(t *testing.T) {
	in := validInput()

	in.TotalDoses = 15
	if _, err := Validate(in); !errors.Is(err, ErrTotalDosesRange) {
		t.Fatalf("totalDoses=15: expected ErrTotalDosesRange, got %v", err)
	}

	in.TotalDoses = 0
	if _, err := Validate(in); !errors.Is(err, ErrTotalDosesRange) {
		t.Fatalf("totalDoses=0: expected ErrTotalDosesRange, got %v", err)
	}

	in.TotalDoses, in.RefillThreshold = 14, 14
	if _, err := Validate(in); err != nil {
		t.Fatalf("14/14 must be accepted, got %v", err)
	}

	in.RefillThreshold = 15
	if _, err := Validate(in); !errors.Is(err, ErrRefillThresholdRange) {
		t.Fatalf("refill=15,total=14: expected ErrRefillThresholdRange, got %v", err)
	}

	in.RefillThreshold = -1
	if _, err := Validate(in); !errors.Is(err, ErrRefillThresholdRange) {
		t.Fatalf("refill=-1: expected ErrRefillThresholdRange, got %v", err)
	}
}

func TestValidate_UserFacingMessages(t *testing.T) {
	if ErrTotalDosesRange.Error() != "Total Doses must be between 1 and 14." {
		t.Fatalf("unexpected message: %q", ErrTotalDosesRange)
	}
	if ErrRefillThresholdRange.Error() != "Refill Threshold cannot be negative or greater than Total Doses." {
		t.Fatalf("unexpected message: %q", ErrRefillThresholdRange)
	}
}

func TestValidate_TimesNormalized(t *testing.T) {
	in := validInput()
	in.Times = []string{" 20:00", "08:00", "20:00"}
	in.Frequency = ""

	out, err := Validate(in)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if len(out.Times) != 2 || out.Times[0] != "08:00" || out.Times[1] != "20:00" {
		t.Fatalf("expected sorted unique times, got %q", out.Times)
	}
	if out.Frequency != FrequencyDaily {
		t.Fatalf("expected default frequency daily, got %q", out.Frequency)
	}
}

func TestValidate_RejectsMalformedInput(t *testing.T) {
	cases := map[string]func(*Input){
		"empty name":       func(in *Input) { in.Name = "  " },
		"bad frequency":    func(in *Input) { in.Frequency = "hourly" },
		"no times":         func(in *Input) { in.Times = nil },
		"bad time":         func(in *Input) { in.Times = []string{"8:00"} },
		"bad start date":   func(in *Input) { in.StartDate = "10/03/2025" },
		"end before start": func(in *Input) { in.EndDate = "2025-03-01" },
	}
	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		if _, err := Validate(in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestService_Create_ArmsSchedule(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	svc, repo := newTestService(now)

	m, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if m.ID == "" || repo.byID[m.ID].Name != "Metformin" {
		t.Fatalf("expected persisted schedule with id, got %#v", m)
	}
	if m.DosesLeft != 14 || m.Completed || m.Status != StatusScheduled {
		t.Fatalf("expected armed schedule, got %#v", m)
	}
	if want := time.Date(2025, 3, 12, 20, 0, 0, 0, time.UTC); !m.NextDoseTime.Equal(want) {
		t.Fatalf("expected next dose %s, got %s", want, m.NextDoseTime)
	}
}

func TestService_Create_ValidationBlocksWrite(t *testing.T) {
	svc, repo := newTestService(time.Now())

	in := validInput()
	in.TotalDoses = 15
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrTotalDosesRange) {
		t.Fatalf("expected ErrTotalDosesRange, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected nothing written")
	}
}

func TestService_Update_KeepsIDAndRearms(t *testing.T) {
	now := time.Date(2025, 3, 12, 21, 0, 0, 0, time.UTC)
	svc, repo := newTestService(now)
	ctx := context.Background()

	created, _ := svc.Create(ctx, validInput())

	// el dispositivo marcó la dosis
	stored := repo.byID[created.ID]
	stored.Status = StatusTaken
	stored.DosesLeft = 2
	stored.Completed = true
	repo.byID[created.ID] = stored

	in := validInput()
	in.TotalDoses = 7
	updated, err := svc.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.ID != created.ID || len(repo.byID) != 1 {
		t.Fatalf("expected same id and no new entry")
	}
	if updated.DosesLeft != 7 || updated.Completed || updated.Status != StatusScheduled {
		t.Fatalf("expected re-armed schedule, got %#v", updated)
	}
	if want := time.Date(2025, 3, 13, 8, 0, 0, 0, time.UTC); !updated.NextDoseTime.Equal(want) {
		t.Fatalf("expected next dose %s, got %s", want, updated.NextDoseTime)
	}
}

func TestService_Update_UnknownID(t *testing.T) {
	svc, repo := newTestService(time.Now())

	if _, err := svc.Update(context.Background(), "missing", validInput()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("expected no write for unknown id")
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo := newTestService(time.Now())
	ctx := context.Background()

	m, _ := svc.Create(ctx, validInput())
	if err := svc.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected schedule removed")
	}
	if err := svc.Delete(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSortByNextDose_ZeroTimesLast(t *testing.T) {
	base := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
	items := []MedicationSchedule{
		{ID: "c"},
		{ID: "b", NextDoseTime: base.Add(time.Hour)},
		{ID: "a", NextDoseTime: base},
	}
	SortByNextDose(items)
	if items[0].ID != "a" || items[1].ID != "b" || items[2].ID != "c" {
		t.Fatalf("unexpected order: %s %s %s", items[0].ID, items[1].ID, items[2].ID)
	}
}
