package device

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrClockUnavailable = errors.New("device clock unavailable")

// ParseDeviceClock interpreta el RTC en la zona local configurada.
// "", "Loading..." o cualquier valor mal formado devuelven ErrClockUnavailable.
func ParseDeviceClock(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == LoadingClock {
		return time.Time{}, ErrClockUnavailable
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(ClockParseLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrClockUnavailable
	}
	return t, nil
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Telemetry(ctx context.Context) (Telemetry, error) {
	t, err := s.repo.Telemetry(ctx)
	if err != nil {
		return Telemetry{}, err
	}
	return t.WithPlaceholders(), nil
}

// RequestManualDispense escribe la hora actual (UTC) para disparar el dispensado.
func (s *Service) RequestManualDispense(ctx context.Context) (DispenseRequest, error) {
	at := s.now().UTC()
	raw := at.Format(RequestLayout)
	if err := s.repo.RequestDispense(ctx, raw); err != nil {
		return DispenseRequest{}, err
	}
	return DispenseRequest{RequestedAt: at, Raw: raw}, nil
}
