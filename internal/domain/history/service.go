package history

import (
	"bytes"
	"context"
	"sort"
	"time"
)

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

// List devuelve el historial más reciente primero; sin actualTime válido al final.
func (s *Service) List(ctx context.Context) ([]DoseRecord, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	SortRecent(items)
	return items, nil
}

func (s *Service) Usage(ctx context.Context) (Usage, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return Usage{}, err
	}
	return AggregateUsage(items, s.now().In(s.loc)), nil
}

// ExportCSV arma el archivo completo en memoria (el historial es chico: una o
// pocas dosis por día) y devuelve el nombre sugerido.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, string, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, items, s.loc); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ExportFileName(s.now()), nil
}

func SortRecent(items []DoseRecord) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].ActualTime, items[j].ActualTime
		switch {
		case a.IsZero() != b.IsZero():
			return !a.IsZero()
		case !a.Equal(b):
			return a.After(b)
		default:
			return items[i].ID < items[j].ID
		}
	})
}
