package auth

// Role define qué pantallas/acciones habilita la sesión.
// @Enum patient, caregiver
type Role string

const (
	RolePatient   Role = "patient"
	RoleCaregiver Role = "caregiver"
)

// Claims representa al usuario autenticado.
type Claims struct {
	UserID    string
	Email     string
	Name      string
	Role      Role
	PatientID string
}
