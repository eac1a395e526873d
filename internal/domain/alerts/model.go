package alerts

import "time"

// Type define el origen/ícono de la alerta.
// @Enum taken, missed, warning, refill
type Type string

const (
	TypeTaken   Type = "taken"
	TypeMissed  Type = "missed"
	TypeWarning Type = "warning"
	TypeRefill  Type = "refill"
)

func (t Type) Valid() bool {
	switch t {
	case TypeTaken, TypeMissed, TypeWarning, TypeRefill:
		return true
	default:
		return false
	}
}

// Filter son las pestañas de la vista de alertas.
// @Enum all, unread, missed, taken, refill
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
	FilterMissed Filter = "missed"
	FilterTaken  Filter = "taken"
	FilterRefill Filter = "refill"
)

func ParseFilter(s string) (Filter, bool) {
	switch f := Filter(s); f {
	case "":
		return FilterAll, true
	case FilterAll, FilterUnread, FilterMissed, FilterTaken, FilterRefill:
		return f, true
	default:
		return "", false
	}
}

// Alert es una entrada de alerts/{id}.
type Alert struct {
	ID        string
	Type      Type
	Message   string
	Timestamp time.Time // cero si el valor remoto no parsea
	Read      bool
}

// Counts alimenta los badges de cada pestaña.
type Counts struct {
	All    int
	Unread int
	Missed int
	Taken  int
	Refill int
}

// Page es el recorte visible de una lista ya filtrada.
type Page struct {
	Items   []Alert
	Total   int // cantidad filtrada
	HasMore bool
	Counts  Counts
}
