package patients

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNotLinked    = errors.New("device not linked to patient")
)

type Service struct {
	repo     Repository
	deviceID string
	defaults Patient
}

// NewService usa defaults para sembrar el perfil la primera vez que se lo lee.
func NewService(repo Repository, deviceID string, defaults Patient) *Service {
	return &Service{repo: repo, deviceID: deviceID, defaults: defaults}
}

func (s *Service) DeviceID() string { return s.deviceID }

func (s *Service) Get(ctx context.Context, id string) (Patient, error) {
	id, err := cleanID(id)
	if err != nil {
		return Patient{}, err
	}

	p, err := s.repo.Get(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Patient{}, err
	}

	seed := Patient{ID: id, Name: s.defaults.Name, Email: s.defaults.Email}
	if err := s.repo.Save(ctx, seed); err != nil {
		return Patient{}, fmt.Errorf("seed patient: %w", err)
	}
	return seed, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Patient, error) {
	id, err := cleanID(id)
	if err != nil {
		return Patient{}, err
	}
	if patch.Name == nil && patch.Email == nil {
		return Patient{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Patient{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		patch.Name = &name
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return Patient{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
		patch.Email = &email
	}

	// Asegura el documento antes de mezclar
	if _, err := s.Get(ctx, id); err != nil {
		return Patient{}, err
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return Patient{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) LinkStatus(ctx context.Context, patientID string) (LinkStatus, error) {
	patientID, err := cleanID(patientID)
	if err != nil {
		return LinkStatus{}, err
	}
	linked, err := s.repo.LinkedPatient(ctx, s.deviceID)
	if err != nil {
		return LinkStatus{}, err
	}
	return LinkStatus{
		PatientID:       patientID,
		DeviceID:        s.deviceID,
		Linked:          linked == patientID,
		LinkedPatientID: linked,
	}, nil
}

// Link asocia el dispositivo configurado; reemplaza un vínculo previo.
func (s *Service) Link(ctx context.Context, patientID string) (LinkStatus, error) {
	patientID, err := cleanID(patientID)
	if err != nil {
		return LinkStatus{}, err
	}
	if err := s.repo.SetLinkedPatient(ctx, s.deviceID, patientID); err != nil {
		return LinkStatus{}, err
	}
	return LinkStatus{PatientID: patientID, DeviceID: s.deviceID, Linked: true, LinkedPatientID: patientID}, nil
}

func (s *Service) Unlink(ctx context.Context, patientID string) (LinkStatus, error) {
	st, err := s.LinkStatus(ctx, patientID)
	if err != nil {
		return LinkStatus{}, err
	}
	if !st.Linked {
		return st, ErrNotLinked
	}
	if err := s.repo.SetLinkedPatient(ctx, s.deviceID, ""); err != nil {
		return LinkStatus{}, err
	}
	return LinkStatus{PatientID: st.PatientID, DeviceID: s.deviceID}, nil
}

func cleanID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "/.#$[]") {
		return "", fmt.Errorf("%w: invalid patient id", ErrInvalidInput)
	}
	return id, nil
}
