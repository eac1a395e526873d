package alerts

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

type testRepo struct {
	items map[string]Alert
	seq   int
}

func newTestRepo(items ...Alert) *testRepo {
	r := &testRepo{items: map[string]Alert{}}
	for _, a := range items {
		r.items[a.ID] = a
	}
	return r
}

func (r *testRepo) Create(ctx context.Context, a Alert) (string, error) {
	r.seq++
	a.ID = "gen" + strconv.Itoa(r.seq)
	r.items[a.ID] = a
	return a.ID, nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Alert, error) {
	a, ok := r.items[id]
	if !ok {
		return Alert{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) List(ctx context.Context) ([]Alert, error) {
	out := make([]Alert, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	return out, nil
}

func (r *testRepo) MarkRead(ctx context.Context, id string) error {
	a := r.items[id]
	a.Read = true
	r.items[id] = a
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	delete(r.items, id)
	return nil
}

var base = time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)

func at(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

func sample() []Alert {
	return []Alert{
		{ID: "a1", Type: TypeTaken, Message: "Metformin taken", Timestamp: at(1), Read: true},
		{ID: "a2", Type: TypeRefill, Message: "Refill Lisinopril", Timestamp: at(9)},
		{ID: "a3", Type: TypeMissed, Message: "Missed Metformin", Timestamp: at(5)},
		{ID: "a4", Type: TypeRefill, Message: "Refill Metformin", Timestamp: at(2), Read: true},
		{ID: "a5", Type: TypeWarning, Message: "Low battery", Timestamp: at(7)},
		{ID: "a6", Type: TypeRefill, Message: "Refill Aspirin", Timestamp: at(11)},
		{ID: "a7", Type: TypeTaken, Message: "Aspirin taken", Timestamp: at(3)},
	}
}

func ids(items []Alert) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortNewestFirst_ZeroTimestampsLast(t *testing.T) {
	items := append(sample(), Alert{ID: "zz", Type: TypeWarning})
	SortNewestFirst(items)

	want := []string{"a6", "a2", "a5", "a3", "a7", "a4", "a1", "zz"}
	if got := ids(items); !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestList_RefillFilterKeepsGlobalOrder(t *testing.T) {
	svc := NewService(newTestRepo(sample()...), 5)

	page, err := svc.List(context.Background(), FilterRefill, false)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	want := []string{"a6", "a2", "a4"}
	if got := ids(page.Items); !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for _, a := range page.Items {
		if a.Type != TypeRefill {
			t.Fatalf("unexpected type %q in refill tab", a.Type)
		}
	}
	if page.HasMore {
		t.Fatalf("three refill alerts must fit in the display limit")
	}
}

func TestList_DisplayLimitAndShowAll(t *testing.T) {
	svc := NewService(newTestRepo(sample()...), 5)
	ctx := context.Background()

	page, _ := svc.List(ctx, FilterAll, false)
	if len(page.Items) != 5 || !page.HasMore || page.Total != 7 {
		t.Fatalf("expected 5 of 7 with more, got %d of %d (more=%v)", len(page.Items), page.Total, page.HasMore)
	}

	full, _ := svc.List(ctx, FilterAll, true)
	if len(full.Items) != 7 || full.HasMore {
		t.Fatalf("expected all 7 alerts, got %d (more=%v)", len(full.Items), full.HasMore)
	}
	// mostrar todo no cambia el orden
	if !equal(ids(full.Items[:5]), ids(page.Items)) {
		t.Fatalf("show-all must extend the same ordering")
	}
}

func TestList_Counts(t *testing.T) {
	svc := NewService(newTestRepo(sample()...), 5)

	page, _ := svc.List(context.Background(), FilterUnread, false)
	want := Counts{All: 7, Unread: 5, Missed: 1, Taken: 2, Refill: 3}
	if page.Counts != want {
		t.Fatalf("expected counts %+v, got %+v", want, page.Counts)
	}
	for _, a := range page.Items {
		if a.Read {
			t.Fatalf("read alert %s in unread tab", a.ID)
		}
	}
}

func TestParseFilter(t *testing.T) {
	if f, ok := ParseFilter(""); !ok || f != FilterAll {
		t.Fatalf("empty filter should default to all")
	}
	if _, ok := ParseFilter("warning"); ok {
		t.Fatalf("warning is not a filter tab")
	}
}

func TestMarkRead_UnknownID(t *testing.T) {
	repo := newTestRepo(sample()...)
	svc := NewService(repo, 5)

	if err := svc.MarkRead(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok := repo.items["nope"]; ok {
		t.Fatalf("mark read must not create a node")
	}

	if err := svc.MarkRead(context.Background(), "a2"); err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	if !repo.items["a2"].Read {
		t.Fatalf("expected a2 to be read")
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(sample()...)
	svc := NewService(repo, 5)

	if err := svc.Delete(context.Background(), "a3"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := repo.items["a3"]; ok {
		t.Fatalf("expected a3 to be removed")
	}
	if err := svc.Delete(context.Background(), "a3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreate_DefaultsAndValidation(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, 5)
	svc.now = func() time.Time { return base }

	a, err := svc.Create(context.Background(), CreateInput{Type: TypeMissed, Message: "  Missed Aspirin "})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if a.ID == "" || a.Read || !a.Timestamp.Equal(base) || a.Message != "Missed Aspirin" {
		t.Fatalf("unexpected alert: %+v", a)
	}

	if _, err := svc.Create(context.Background(), CreateInput{Type: "info", Message: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{Type: TypeTaken}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty message, got %v", err)
	}
}
