package docrepo

import (
	"context"
	"fmt"

	"automed-dashboard/internal/domain/patients"
	"automed-dashboard/internal/ports/docstore"
)

type patientDoc struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type patientRepo struct {
	store docstore.Store
}

func NewPatientRepo(store docstore.Store) patients.Repository {
	return &patientRepo{store: store}
}

func (r *patientRepo) Get(ctx context.Context, id string) (patients.Patient, error) {
	if !validKey(id) {
		return patients.Patient{}, patients.ErrNotFound
	}
	snap, err := r.store.Get(ctx, docstore.JoinPath(PathPatients, id))
	if err != nil {
		return patients.Patient{}, fmt.Errorf("get patient: %w", err)
	}
	if !snap.Exists() {
		return patients.Patient{}, patients.ErrNotFound
	}
	var doc patientDoc
	if err := snap.Decode(&doc); err != nil {
		return patients.Patient{}, fmt.Errorf("decode patient %s: %w", id, err)
	}
	return patients.Patient{ID: id, Name: doc.Name, Email: doc.Email}, nil
}

func (r *patientRepo) Save(ctx context.Context, p patients.Patient) error {
	if !validKey(p.ID) {
		return patients.ErrInvalidInput
	}
	if err := r.store.Set(ctx, docstore.JoinPath(PathPatients, p.ID), patientDoc{Name: p.Name, Email: p.Email}); err != nil {
		return fmt.Errorf("set patient: %w", err)
	}
	return nil
}

func (r *patientRepo) Update(ctx context.Context, id string, patch patients.Patch) error {
	if !validKey(id) {
		return patients.ErrInvalidInput
	}
	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if len(fields) == 0 {
		return nil
	}
	if err := r.store.Update(ctx, docstore.JoinPath(PathPatients, id), fields); err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}

func (r *patientRepo) LinkedPatient(ctx context.Context, deviceID string) (string, error) {
	if !validKey(deviceID) {
		return "", patients.ErrInvalidInput
	}
	snap, err := r.store.Get(ctx, docstore.JoinPath(PathDevices, deviceID, "linkedPatientId"))
	if err != nil {
		return "", fmt.Errorf("get device link: %w", err)
	}
	return snapshotString(snap), nil
}

func (r *patientRepo) SetLinkedPatient(ctx context.Context, deviceID, patientID string) error {
	if !validKey(deviceID) {
		return patients.ErrInvalidInput
	}
	var v any
	if patientID != "" {
		v = patientID
	}
	if err := r.store.Update(ctx, docstore.JoinPath(PathDevices, deviceID), map[string]any{"linkedPatientId": v}); err != nil {
		return fmt.Errorf("update device link: %w", err)
	}
	return nil
}
