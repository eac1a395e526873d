package patients

import (
	"context"
	"errors"
	"testing"
)

type testRepo struct {
	patients map[string]Patient
	links    map[string]string
	saves    int
}

func newTestRepo() *testRepo {
	return &testRepo{patients: map[string]Patient{}, links: map[string]string{}}
}

func (r *testRepo) Get(ctx context.Context, id string) (Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return Patient{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Save(ctx context.Context, p Patient) error {
	r.saves++
	r.patients[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, id string, patch Patch) error {
	p := r.patients[id]
	p.ID = id
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	r.patients[id] = p
	return nil
}

func (r *testRepo) LinkedPatient(ctx context.Context, deviceID string) (string, error) {
	return r.links[deviceID], nil
}

func (r *testRepo) SetLinkedPatient(ctx context.Context, deviceID, patientID string) error {
	if patientID == "" {
		delete(r.links, deviceID)
		return nil
	}
	r.links[deviceID] = patientID
	return nil
}

func newSvc(repo *testRepo) *Service {
	return NewService(repo, "device1", Patient{Name: "John Doe", Email: "patient@example.com"})
}

func strp(s string) *string { return &s }

func TestGet_SeedsDefaultOnce(t *testing.T) {
	repo := newTestRepo()
	svc := newSvc(repo)

	p, err := svc.Get(context.Background(), "patient1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if p.Name != "John Doe" || p.Email != "patient@example.com" || p.ID != "patient1" {
		t.Fatalf("unexpected seeded patient: %+v", p)
	}
	if _, err := svc.Get(context.Background(), "patient1"); err != nil {
		t.Fatalf("second Get returned error: %v", err)
	}
	if repo.saves != 1 {
		t.Fatalf("expected a single seed write, got %d", repo.saves)
	}
}

func TestUpdate_Partial(t *testing.T) {
	repo := newTestRepo()
	repo.patients["patient1"] = Patient{ID: "patient1", Name: "John Doe", Email: "john@example.com"}
	svc := newSvc(repo)

	p, err := svc.Update(context.Background(), "patient1", Patch{Name: strp("  Jane Doe ")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if p.Name != "Jane Doe" || p.Email != "john@example.com" {
		t.Fatalf("unexpected patient after update: %+v", p)
	}
}

func TestUpdate_Validation(t *testing.T) {
	svc := newSvc(newTestRepo())
	ctx := context.Background()

	cases := []Patch{
		{},
		{Name: strp("   ")},
		{Email: strp("not-an-email")},
	}
	for i, patch := range cases {
		if _, err := svc.Update(ctx, "patient1", patch); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
	if _, err := svc.Get(ctx, "a/b"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for path-like id, got %v", err)
	}
}

func TestLinkAndUnlink(t *testing.T) {
	repo := newTestRepo()
	svc := newSvc(repo)
	ctx := context.Background()

	st, _ := svc.LinkStatus(ctx, "patient1")
	if st.Linked {
		t.Fatalf("expected device not linked initially")
	}
	if _, err := svc.Unlink(ctx, "patient1"); !errors.Is(err, ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked, got %v", err)
	}

	if _, err := svc.Link(ctx, "patient1"); err != nil {
		t.Fatalf("Link returned error: %v", err)
	}
	if repo.links["device1"] != "patient1" {
		t.Fatalf("expected device1 linked to patient1, got %q", repo.links["device1"])
	}

	other, _ := svc.LinkStatus(ctx, "patient2")
	if other.Linked || other.LinkedPatientID != "patient1" {
		t.Fatalf("unexpected status for another patient: %+v", other)
	}

	if _, err := svc.Unlink(ctx, "patient1"); err != nil {
		t.Fatalf("Unlink returned error: %v", err)
	}
	if _, ok := repo.links["device1"]; ok {
		t.Fatalf("expected link cleared")
	}
}
