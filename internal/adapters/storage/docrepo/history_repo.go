package docrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"automed-dashboard/internal/domain/history"
	"automed-dashboard/internal/ports/docstore"
)

// doseDoc es medication_history/{id} tal como lo escribe el dispositivo.
type doseDoc struct {
	MedicationName string          `json:"medicationName"`
	Status         string          `json:"status"`
	ScheduledTime  json.RawMessage `json:"scheduledTime"`
	ActualTime     json.RawMessage `json:"actualTime"`
	DosesTaken     *flexInt        `json:"dosesTaken"`
	Notes          string          `json:"notes"`
}

type historyRepo struct {
	store docstore.Store
	loc   *time.Location
}

// NewHistoryRepo interpreta los actualTime sin zona en loc.
func NewHistoryRepo(store docstore.Store, loc *time.Location) history.Repository {
	if loc == nil {
		loc = time.Local
	}
	return &historyRepo{store: store, loc: loc}
}

func (r *historyRepo) List(ctx context.Context) ([]history.DoseRecord, error) {
	snap, err := r.store.Get(ctx, PathHistory)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return decodeHistory(snap, r.loc), nil
}

func decodeDose(id string, raw json.RawMessage, loc *time.Location) (history.DoseRecord, error) {
	var doc doseDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return history.DoseRecord{}, err
	}

	rec := history.DoseRecord{
		ID:             id,
		MedicationName: doc.MedicationName,
		Status:         doc.Status,
		ScheduledTime:  scalarString(doc.ScheduledTime),
		ActualTimeRaw:  scalarString(doc.ActualTime),
		DosesTaken:     1,
		Notes:          doc.Notes,
	}
	if doc.DosesTaken != nil {
		rec.DosesTaken = int(*doc.DosesTaken)
	}
	if t, ok := history.ParseTimestamp(strings.TrimSpace(rec.ActualTimeRaw), loc); ok {
		rec.ActualTime = t
	}
	return rec, nil
}

func decodeHistory(snap docstore.Snapshot, loc *time.Location) []history.DoseRecord {
	children, err := snap.Children()
	if err != nil {
		return []history.DoseRecord{}
	}
	ids := sortedKeys(children)
	out := make([]history.DoseRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := decodeDose(id, children[id], loc)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}
