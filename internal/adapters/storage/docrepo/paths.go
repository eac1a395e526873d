package docrepo

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"automed-dashboard/internal/ports/docstore"
)

// Paths del árbol que comparten dispositivo y dashboard.
const (
	PathMedicationStatus = "medication_status"
	PathClock            = "rtc/time"
	PathSchedules        = "medication_schedules"
	PathHistory          = "medication_history"
	PathAlerts           = "alerts"
	PathRFIDStatus       = "rfid/status"
	PathRFIDUID          = "rfid/uid"
	PathDispenseRequest  = "manual_dispense_request"
	PathPatients         = "patients"
	PathDevices          = "devices"
)

// ISOLayout replica toISOString(): UTC con milisegundos.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// validKey rechaza ids que romperían el path.
func validKey(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && !strings.ContainsAny(id, "/.#$[]")
}

// scalarString lee un escalar como texto ("" si es objeto, null o no existe).
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func snapshotString(s docstore.Snapshot) string {
	return scalarString(s.Value)
}

// flexInt acepta número o string numérico; el firmware escribe ambos.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = flexInt(f)
	return nil
}

// flexBool acepta true/false o "true"/"false".
type flexBool bool

func (v *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	switch s {
	case "", "null":
		*v = false
		return nil
	}
	bv, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*v = flexBool(bv)
	return nil
}

// timesField normaliza times: escalar -> lista de uno, ausente -> vacía.
type timesField []string

func (t *timesField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = timesField{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*t = timesField{}
			return nil
		}
		*t = timesField{s}
		return nil
	}
	var list []any
	if b[0] == '{' {
		// arreglo disperso: {"0":"08:00","2":"20:00"}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			c, _ := strconv.Atoi(keys[j])
			return a < c
		})
		for _, k := range keys {
			list = append(list, m[k])
		}
	} else if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	out := make(timesField, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	*t = out
	return nil
}
