package device

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	telemetry Telemetry
	written   []string
	err       error
}

func (r *testRepo) Telemetry(ctx context.Context) (Telemetry, error) {
	return r.telemetry, r.err
}

func (r *testRepo) RequestDispense(ctx context.Context, raw string) error {
	if r.err != nil {
		return r.err
	}
	r.written = append(r.written, raw)
	return nil
}

func TestParseDeviceClock(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)

	got, err := ParseDeviceClock("12/03/2025 14:05:09", loc)
	if err != nil {
		t.Fatalf("ParseDeviceClock returned error: %v", err)
	}
	if want := time.Date(2025, 3, 12, 14, 5, 9, 0, loc); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	// el RTC puede venir sin ceros a la izquierda
	got, err = ParseDeviceClock("5/3/2025 8:05:00", loc)
	if err != nil {
		t.Fatalf("ParseDeviceClock unpadded returned error: %v", err)
	}
	if want := time.Date(2025, 3, 5, 8, 5, 0, 0, loc); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	for _, raw := range []string{"", "Loading...", "2025-03-12 14:05:09", "32/13/2025 25:00:00"} {
		if _, err := ParseDeviceClock(raw, loc); !errors.Is(err, ErrClockUnavailable) {
			t.Fatalf("ParseDeviceClock(%q): expected ErrClockUnavailable, got %v", raw, err)
		}
	}
}

func TestTelemetry_Placeholders(t *testing.T) {
	svc := NewService(&testRepo{telemetry: Telemetry{Status: "dispensing"}})

	got, err := svc.Telemetry(context.Background())
	if err != nil {
		t.Fatalf("Telemetry returned error: %v", err)
	}
	want := Telemetry{Status: "dispensing", Clock: "Loading...", RFIDStatus: "unknown", RFIDUID: "N/A"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestRequestManualDispense_WritesUTCISO(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 12, 9, 30, 15, 250_000_000, time.FixedZone("WAT", 3600))
	}

	req, err := svc.RequestManualDispense(context.Background())
	if err != nil {
		t.Fatalf("RequestManualDispense returned error: %v", err)
	}
	if req.Raw != "2025-03-12T08:30:15.250Z" {
		t.Fatalf("unexpected request value %q", req.Raw)
	}
	if len(repo.written) != 1 || repo.written[0] != req.Raw {
		t.Fatalf("expected one write of %q, got %v", req.Raw, repo.written)
	}
}

func TestRequestManualDispense_StoreError(t *testing.T) {
	svc := NewService(&testRepo{err: errors.New("offline")})
	if _, err := svc.RequestManualDispense(context.Background()); err == nil {
		t.Fatalf("expected store error")
	}
}
