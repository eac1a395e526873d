package alerts

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
)

const DefaultDisplayLimit = 5

type Service struct {
	repo  Repository
	now   func() time.Time
	limit int
}

func NewService(repo Repository, displayLimit int) *Service {
	if displayLimit <= 0 {
		displayLimit = DefaultDisplayLimit
	}
	return &Service{
		repo:  repo,
		now:   time.Now,
		limit: displayLimit,
	}
}

// SortNewestFirst ordena por timestamp descendente; sin timestamp al final.
func SortNewestFirst(items []Alert) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Timestamp, items[j].Timestamp
		switch {
		case a.IsZero() != b.IsZero():
			return !a.IsZero()
		case !a.Equal(b):
			return a.After(b)
		default:
			return items[i].ID > items[j].ID
		}
	})
}

// Apply filtra sin reordenar.
func Apply(items []Alert, f Filter) []Alert {
	out := make([]Alert, 0, len(items))
	for _, a := range items {
		if matches(a, f) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a Alert, f Filter) bool {
	switch f {
	case FilterUnread:
		return !a.Read
	case FilterMissed:
		return a.Type == TypeMissed
	case FilterTaken:
		return a.Type == TypeTaken
	case FilterRefill:
		return a.Type == TypeRefill
	default:
		return true
	}
}

func CountsOf(items []Alert) Counts {
	c := Counts{All: len(items)}
	for _, a := range items {
		if !a.Read {
			c.Unread++
		}
		switch a.Type {
		case TypeMissed:
			c.Missed++
		case TypeTaken:
			c.Taken++
		case TypeRefill:
			c.Refill++
		}
	}
	return c
}

// Paginate sólo mueve el corte: all=true devuelve todo lo filtrado en el mismo orden.
func Paginate(filtered []Alert, limit int, all bool) ([]Alert, bool) {
	if all || limit <= 0 || len(filtered) <= limit {
		return filtered, false
	}
	return filtered[:limit], true
}

func (s *Service) List(ctx context.Context, f Filter, all bool) (Page, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return Page{}, err
	}
	SortNewestFirst(items)

	filtered := Apply(items, f)
	visible, more := Paginate(filtered, s.limit, all)
	return Page{
		Items:   visible,
		Total:   len(filtered),
		HasMore: more,
		Counts:  CountsOf(items),
	}, nil
}

type CreateInput struct {
	Type      Type
	Message   string
	Timestamp *time.Time // default: now
}

// Create registra una alerta (ingesta del dispositivo o reglas del servidor).
func (s *Service) Create(ctx context.Context, in CreateInput) (Alert, error) {
	if !in.Type.Valid() {
		return Alert{}, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, in.Type)
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return Alert{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	ts := s.now().UTC()
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = in.Timestamp.UTC()
	}

	a := Alert{Type: in.Type, Message: msg, Timestamp: ts, Read: false}
	id, err := s.repo.Create(ctx, a)
	if err != nil {
		return Alert{}, err
	}
	a.ID = id
	return a, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	if err := s.ensure(ctx, id); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, strings.TrimSpace(id))
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.ensure(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

// ensure evita que un update sobre un id inexistente cree un nodo huérfano.
func (s *Service) ensure(ctx context.Context, id string) error {
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
	return nil
}
