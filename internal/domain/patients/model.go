package patients

// Patient es el perfil en patients/{id}.
type Patient struct {
	ID    string
	Name  string
	Email string
}

// LinkStatus describe si el dispensador configurado está asociado al paciente.
type LinkStatus struct {
	PatientID       string
	DeviceID        string
	Linked          bool
	LinkedPatientID string // lo que tiene hoy devices/{id}, puede ser otro paciente
}

// Patch es una edición parcial del perfil; nil deja el campo como está.
type Patch struct {
	Name  *string
	Email *string
}
