package patients

import "context"

type Repository interface {
	// Get devuelve ErrNotFound si no hay documento para el id.
	Get(ctx context.Context, id string) (Patient, error)
	Save(ctx context.Context, p Patient) error
	Update(ctx context.Context, id string, patch Patch) error

	// LinkedPatient devuelve "" si el dispositivo no tiene paciente.
	LinkedPatient(ctx context.Context, deviceID string) (string, error)
	// SetLinkedPatient con "" borra el campo.
	SetLinkedPatient(ctx context.Context, deviceID, patientID string) error
}
