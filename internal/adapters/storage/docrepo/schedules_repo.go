package docrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"automed-dashboard/internal/domain/history"
	"automed-dashboard/internal/domain/schedules"
	"automed-dashboard/internal/ports/docstore"
)

// scheduleDoc es el formato de medication_schedules/{id} que lee el firmware.
type scheduleDoc struct {
	Name            string     `json:"name"`
	Frequency       string     `json:"frequency"`
	Times           timesField `json:"times"`
	Instructions    string     `json:"instructions"`
	StartDate       string     `json:"startDate"`
	EndDate         string     `json:"endDate,omitempty"`
	TotalDoses      flexInt    `json:"totalDoses"`
	RefillThreshold flexInt    `json:"refillThreshold"`
	DosesLeft       flexInt    `json:"dosesLeft"`
	NextDoseTime    string     `json:"nextDoseTime"`
	Completed       flexBool   `json:"completed"`
	Status          string     `json:"status"`
}

type scheduleRepo struct {
	store docstore.Store
	loc   *time.Location
}

// NewScheduleRepo: loc interpreta los nextDoseTime sin zona que escribe el firmware.
func NewScheduleRepo(store docstore.Store, loc *time.Location) schedules.Repository {
	if loc == nil {
		loc = time.Local
	}
	return &scheduleRepo{store: store, loc: loc}
}

func (r *scheduleRepo) Create(ctx context.Context, m schedules.MedicationSchedule) (string, error) {
	id, err := r.store.Push(ctx, PathSchedules, toScheduleDoc(m))
	if err != nil {
		return "", fmt.Errorf("push schedule: %w", err)
	}
	return id, nil
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (schedules.MedicationSchedule, error) {
	if !validKey(id) {
		return schedules.MedicationSchedule{}, schedules.ErrNotFound
	}
	snap, err := r.store.Get(ctx, docstore.JoinPath(PathSchedules, id))
	if err != nil {
		return schedules.MedicationSchedule{}, fmt.Errorf("get schedule: %w", err)
	}
	if !snap.Exists() {
		return schedules.MedicationSchedule{}, schedules.ErrNotFound
	}
	m, err := decodeSchedule(id, snap.Value, r.loc)
	if err != nil {
		return schedules.MedicationSchedule{}, fmt.Errorf("decode schedule %s: %w", id, err)
	}
	return m, nil
}

func (r *scheduleRepo) List(ctx context.Context) ([]schedules.MedicationSchedule, error) {
	snap, err := r.store.Get(ctx, PathSchedules)
	if err != nil {
		return nil, fmt.Errorf("get schedules: %w", err)
	}
	return decodeSchedules(snap, r.loc), nil
}

// Update mezcla los campos del formulario y el rearmado; endDate vacío se borra.
func (r *scheduleRepo) Update(ctx context.Context, m schedules.MedicationSchedule) error {
	if !validKey(m.ID) {
		return schedules.ErrNotFound
	}
	doc := toScheduleDoc(m)
	fields := map[string]any{
		"name":            doc.Name,
		"frequency":       doc.Frequency,
		"times":           []string(doc.Times),
		"instructions":    doc.Instructions,
		"startDate":       doc.StartDate,
		"endDate":         nil,
		"totalDoses":      int(doc.TotalDoses),
		"refillThreshold": int(doc.RefillThreshold),
		"dosesLeft":       int(doc.DosesLeft),
		"nextDoseTime":    doc.NextDoseTime,
		"completed":       bool(doc.Completed),
		"status":          doc.Status,
	}
	if doc.EndDate != "" {
		fields["endDate"] = doc.EndDate
	}
	if err := r.store.Update(ctx, docstore.JoinPath(PathSchedules, m.ID), fields); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

func (r *scheduleRepo) Delete(ctx context.Context, id string) error {
	if !validKey(id) {
		return schedules.ErrNotFound
	}
	if err := r.store.Remove(ctx, docstore.JoinPath(PathSchedules, id)); err != nil {
		return fmt.Errorf("remove schedule: %w", err)
	}
	return nil
}

func toScheduleDoc(m schedules.MedicationSchedule) scheduleDoc {
	doc := scheduleDoc{
		Name:            m.Name,
		Frequency:       string(m.Frequency),
		Times:           timesField(append([]string{}, m.Times...)),
		Instructions:    m.Instructions,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		TotalDoses:      flexInt(m.TotalDoses),
		RefillThreshold: flexInt(m.RefillThreshold),
		DosesLeft:       flexInt(m.DosesLeft),
		Completed:       flexBool(m.Completed),
		Status:          string(m.Status),
	}
	if !m.NextDoseTime.IsZero() {
		doc.NextDoseTime = m.NextDoseTime.UTC().Format(ISOLayout)
	}
	return doc
}

func decodeSchedule(id string, raw json.RawMessage, loc *time.Location) (schedules.MedicationSchedule, error) {
	doc := scheduleDoc{Times: timesField{}}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return schedules.MedicationSchedule{}, err
	}
	if doc.Times == nil {
		doc.Times = timesField{}
	}

	m := schedules.MedicationSchedule{
		ID:              id,
		Name:            doc.Name,
		Frequency:       schedules.Frequency(doc.Frequency),
		Times:           []string(doc.Times),
		Instructions:    doc.Instructions,
		StartDate:       doc.StartDate,
		EndDate:         doc.EndDate,
		TotalDoses:      int(doc.TotalDoses),
		RefillThreshold: int(doc.RefillThreshold),
		DosesLeft:       int(doc.DosesLeft),
		Completed:       bool(doc.Completed),
		Status:          schedules.Status(doc.Status),
	}
	if t, ok := history.ParseTimestamp(doc.NextDoseTime, loc); ok {
		m.NextDoseTime = t
	}
	return m, nil
}

// decodeSchedules omite las entradas mal formadas; el resto se usa igual.
func decodeSchedules(snap docstore.Snapshot, loc *time.Location) []schedules.MedicationSchedule {
	children, err := snap.Children()
	if err != nil {
		return []schedules.MedicationSchedule{}
	}
	ids := sortedKeys(children)
	out := make([]schedules.MedicationSchedule, 0, len(ids))
	for _, id := range ids {
		m, err := decodeSchedule(id, children[id], loc)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
