package device

import "time"

// Valores que se muestran mientras el dispositivo no reportó nada.
const (
	UnknownStatus  = "unknown"
	LoadingClock   = "Loading..."
	UnknownRFID    = "unknown"
	MissingRFIDUID = "N/A"
)

// ClockLayout es el formato del RTC del dispensador (DD/MM/YYYY HH:MM:SS).
const ClockLayout = "02/01/2006 15:04:05"

// ClockParseLayout acepta el RTC con o sin ceros a la izquierda (5/3/2025 8:05:00).
const ClockParseLayout = "2/1/2006 15:4:5"

// RequestLayout es el ISO en UTC con milisegundos que escribe el pedido manual.
const RequestLayout = "2006-01-02T15:04:05.000Z07:00"

// Telemetry agrupa los valores escalares que publica el dispositivo.
type Telemetry struct {
	Status     string // medication_status
	Clock      string // rtc/time
	RFIDStatus string // rfid/status
	RFIDUID    string // rfid/uid
}

// WithPlaceholders completa los campos vacíos con los textos por defecto.
func (t Telemetry) WithPlaceholders() Telemetry {
	if t.Status == "" {
		t.Status = UnknownStatus
	}
	if t.Clock == "" {
		t.Clock = LoadingClock
	}
	if t.RFIDStatus == "" {
		t.RFIDStatus = UnknownRFID
	}
	if t.RFIDUID == "" {
		t.RFIDUID = MissingRFIDUID
	}
	return t
}

// DispenseRequest es lo que quedó escrito en manual_dispense_request.
type DispenseRequest struct {
	RequestedAt time.Time
	Raw         string
}
