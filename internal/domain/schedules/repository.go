package schedules

import "context"

type Repository interface {
	// Create agrega la entrada con key generada por el store y devuelve el id.
	Create(ctx context.Context, m MedicationSchedule) (string, error)
	GetByID(ctx context.Context, id string) (MedicationSchedule, error)
	List(ctx context.Context) ([]MedicationSchedule, error)
	// Update mezcla los campos del formulario en el documento existente.
	Update(ctx context.Context, m MedicationSchedule) error
	Delete(ctx context.Context, id string) error
}
