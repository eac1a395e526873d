package schedules

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// Mensajes visibles para el usuario: el handler los devuelve tal cual.
	ErrTotalDosesRange      = errors.New("Total Doses must be between 1 and 14.")
	ErrRefillThresholdRange = errors.New("Refill Threshold cannot be negative or greater than Total Doses.")
)

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
	now  func() time.Time
	loc  *time.Location
}

func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo: repo,
		now:  time.Now,
		loc:  loc,
	}
}

// Input es el formulario de alta/edición.
type Input struct {
	Name            string
	Frequency       Frequency
	Times           []string
	Instructions    string
	StartDate       string
	EndDate         string
	TotalDoses      int
	RefillThreshold int
}

// Validate normaliza el formulario. Los rangos de dosis se revisan primero.
func Validate(in Input) (Input, error) {
	if in.TotalDoses < MinTotalDoses || in.TotalDoses > MaxTotalDoses {
		return Input{}, ErrTotalDosesRange
	}
	if in.RefillThreshold < 0 || in.RefillThreshold > in.TotalDoses {
		return Input{}, ErrRefillThresholdRange
	}

	out := in
	out.Name = strings.TrimSpace(in.Name)
	out.Instructions = strings.TrimSpace(in.Instructions)
	out.StartDate = strings.TrimSpace(in.StartDate)
	out.EndDate = strings.TrimSpace(in.EndDate)

	if out.Name == "" {
		return Input{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if out.Frequency == "" {
		out.Frequency = FrequencyDaily
	}
	if !out.Frequency.Valid() {
		return Input{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, in.Frequency)
	}

	times, err := normalizeTimes(in.Times)
	if err != nil {
		return Input{}, err
	}
	out.Times = times

	if out.StartDate != "" {
		if _, err := time.Parse(dateLayout, out.StartDate); err != nil {
			return Input{}, fmt.Errorf("%w: startDate must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	if out.EndDate != "" {
		end, err := time.Parse(dateLayout, out.EndDate)
		if err != nil {
			return Input{}, fmt.Errorf("%w: endDate must be YYYY-MM-DD", ErrInvalidInput)
		}
		if out.StartDate != "" {
			start, _ := time.Parse(dateLayout, out.StartDate)
			if end.Before(start) {
				return Input{}, fmt.Errorf("%w: endDate before startDate", ErrInvalidInput)
			}
		}
	}

	return out, nil
}

// normalizeTimes valida HH:MM, colapsa duplicados y ordena.
func normalizeTimes(in []string) ([]string, error) {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, raw := range in {
		t := strings.TrimSpace(raw)
		if _, _, ok := parseClock(t); !ok {
			return nil, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidInput, raw)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: at least one time is required", ErrInvalidInput)
	}
	sort.Strings(out)
	return out, nil
}

// parseClock acepta sólo HH:MM con cero a la izquierda (el orden lexical es el cronológico).
func parseClock(s string) (int, int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

// NextTimeSlot devuelve el primer horario de hoy estrictamente posterior a now;
// si ya pasaron todos, el más temprano de mañana. Sin horarios válidos devuelve now.
// La zona horaria es la de now.
func NextTimeSlot(times []string, now time.Time) time.Time {
	sorted := append([]string(nil), times...)
	sort.Strings(sorted)

	y, mo, d := now.Date()
	first := -1
	for i, t := range sorted {
		h, m, ok := parseClock(strings.TrimSpace(t))
		if !ok {
			continue
		}
		if first < 0 {
			first = i
		}
		candidate := time.Date(y, mo, d, h, m, 0, 0, now.Location())
		if candidate.After(now) {
			return candidate
		}
	}

	if first < 0 {
		return now
	}
	h, m, _ := parseClock(strings.TrimSpace(sorted[first]))
	return time.Date(y, mo, d+1, h, m, 0, 0, now.Location())
}

func (s *Service) Create(ctx context.Context, in Input) (MedicationSchedule, error) {
	v, err := Validate(in)
	if err != nil {
		return MedicationSchedule{}, err
	}

	m := s.arm(v)
	id, err := s.repo.Create(ctx, m)
	if err != nil {
		return MedicationSchedule{}, err
	}
	m.ID = id
	return m, nil
}

// Update valida igual que Create, conserva el id y vuelve a armar la entrada
// (dosesLeft = totalDoses, completed=false, status=scheduled).
func (s *Service) Update(ctx context.Context, id string, in Input) (MedicationSchedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return MedicationSchedule{}, ErrInvalidInput
	}

	v, err := Validate(in)
	if err != nil {
		return MedicationSchedule{}, err
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return MedicationSchedule{}, ErrNotFound
		}
		return MedicationSchedule{}, err
	}

	m := s.arm(v)
	m.ID = id
	if err := s.repo.Update(ctx, m); err != nil {
		return MedicationSchedule{}, err
	}
	return m, nil
}

func (s *Service) arm(v Input) MedicationSchedule {
	now := s.now().In(s.loc)
	return MedicationSchedule{
		Name:            v.Name,
		Frequency:       v.Frequency,
		Times:           v.Times,
		Instructions:    v.Instructions,
		StartDate:       v.StartDate,
		EndDate:         v.EndDate,
		TotalDoses:      v.TotalDoses,
		RefillThreshold: v.RefillThreshold,
		DosesLeft:       v.TotalDoses,
		NextDoseTime:    NextTimeSlot(v.Times, now),
		Completed:       false,
		Status:          StatusScheduled,
	}
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (MedicationSchedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return MedicationSchedule{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// List ordena por próxima dosis; las entradas sin hora van al final.
func (s *Service) List(ctx context.Context) ([]MedicationSchedule, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	SortByNextDose(items)
	return items, nil
}

func SortByNextDose(items []MedicationSchedule) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].NextDoseTime, items[j].NextDoseTime
		switch {
		case a.IsZero() != b.IsZero():
			return !a.IsZero()
		case !a.Equal(b):
			return a.Before(b)
		default:
			return items[i].ID < items[j].ID
		}
	})
}
