package device

import "context"

type Repository interface {
	// Telemetry lee los cuatro valores sueltos; los ausentes vuelven vacíos.
	Telemetry(ctx context.Context) (Telemetry, error)
	// RequestDispense reemplaza manual_dispense_request con el valor dado.
	RequestDispense(ctx context.Context, raw string) error
}
