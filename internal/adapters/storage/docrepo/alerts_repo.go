package docrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"automed-dashboard/internal/domain/alerts"
	"automed-dashboard/internal/domain/history"
	"automed-dashboard/internal/ports/docstore"
)

type alertDoc struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	Read      flexBool        `json:"read"`
}

type alertRepo struct {
	store docstore.Store
	loc   *time.Location
}

func NewAlertRepo(store docstore.Store, loc *time.Location) alerts.Repository {
	if loc == nil {
		loc = time.Local
	}
	return &alertRepo{store: store, loc: loc}
}

func (r *alertRepo) Create(ctx context.Context, a alerts.Alert) (string, error) {
	doc := map[string]any{
		"type":    string(a.Type),
		"message": a.Message,
		"read":    a.Read,
	}
	if !a.Timestamp.IsZero() {
		doc["timestamp"] = a.Timestamp.UTC().Format(ISOLayout)
	}
	id, err := r.store.Push(ctx, PathAlerts, doc)
	if err != nil {
		return "", fmt.Errorf("push alert: %w", err)
	}
	return id, nil
}

func (r *alertRepo) GetByID(ctx context.Context, id string) (alerts.Alert, error) {
	if !validKey(id) {
		return alerts.Alert{}, alerts.ErrNotFound
	}
	snap, err := r.store.Get(ctx, docstore.JoinPath(PathAlerts, id))
	if err != nil {
		return alerts.Alert{}, fmt.Errorf("get alert: %w", err)
	}
	if !snap.Exists() {
		return alerts.Alert{}, alerts.ErrNotFound
	}
	return r.decode(id, snap.Value)
}

func (r *alertRepo) List(ctx context.Context) ([]alerts.Alert, error) {
	snap, err := r.store.Get(ctx, PathAlerts)
	if err != nil {
		return nil, fmt.Errorf("get alerts: %w", err)
	}
	children, err := snap.Children()
	if err != nil {
		return []alerts.Alert{}, nil
	}
	ids := sortedKeys(children)
	out := make([]alerts.Alert, 0, len(ids))
	for _, id := range ids {
		a, err := r.decode(id, children[id])
		if err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *alertRepo) MarkRead(ctx context.Context, id string) error {
	if !validKey(id) {
		return alerts.ErrNotFound
	}
	if err := r.store.Update(ctx, docstore.JoinPath(PathAlerts, id), map[string]any{"read": true}); err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	return nil
}

func (r *alertRepo) Delete(ctx context.Context, id string) error {
	if !validKey(id) {
		return alerts.ErrNotFound
	}
	if err := r.store.Remove(ctx, docstore.JoinPath(PathAlerts, id)); err != nil {
		return fmt.Errorf("remove alert: %w", err)
	}
	return nil
}

func (r *alertRepo) decode(id string, raw json.RawMessage) (alerts.Alert, error) {
	var doc alertDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return alerts.Alert{}, fmt.Errorf("decode alert %s: %w", id, err)
	}
	a := alerts.Alert{
		ID:      id,
		Type:    alerts.Type(doc.Type),
		Message: doc.Message,
		Read:    bool(doc.Read),
	}
	if t, ok := history.ParseTimestamp(scalarString(doc.Timestamp), r.loc); ok {
		a.Timestamp = t
	}
	return a, nil
}
