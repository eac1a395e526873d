package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrInvalidPath = errors.New("docstore: invalid path")
	ErrClosed      = errors.New("docstore: store closed")
)

// Store es el árbol de documentos remoto (Realtime Database o equivalente).
// Todos los paths son relativos a la raíz y separados por "/".
type Store interface {
	// Get lee el valor actual de un path. Un path sin datos devuelve un Snapshot vacío (sin error).
	Get(ctx context.Context, path string) (Snapshot, error)

	// Subscribe entrega el valor completo del path ahora y después de cada cambio.
	// La función devuelta cancela la suscripción.
	Subscribe(ctx context.Context, path string, fn func(Snapshot)) (func(), error)

	// Set reemplaza el valor del path. value=nil borra el nodo.
	Set(ctx context.Context, path string, value any) error

	// Push crea un hijo con key generada y devuelve la key.
	Push(ctx context.Context, path string, value any) (string, error)

	// Update escribe sólo los campos indicados (merge). Un campo nil se borra.
	Update(ctx context.Context, path string, fields map[string]any) error

	// Remove borra el subárbol completo.
	Remove(ctx context.Context, path string) error
}

// Snapshot es una entrega atómica del valor de un path.
type Snapshot struct {
	Path  string
	Value json.RawMessage
}

// Exists indica si el path tenía datos.
func (s Snapshot) Exists() bool {
	v := bytes.TrimSpace(s.Value)
	return len(v) > 0 && !bytes.Equal(v, []byte("null"))
}

// Decode decodifica el valor en out. Si no existe, out queda intacto.
func (s Snapshot) Decode(out any) error {
	if !s.Exists() {
		return nil
	}
	return json.Unmarshal(s.Value, out)
}

// String devuelve el valor como string si es un escalar string; "" en otro caso.
func (s Snapshot) String() string {
	var v string
	if err := s.Decode(&v); err != nil {
		return ""
	}
	return v
}

// Children decodifica un nodo objeto en sus hijos crudos (key -> valor).
func (s Snapshot) Children() (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if !s.Exists() {
		return out, nil
	}
	if err := json.Unmarshal(s.Value, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SplitPath normaliza un path ("/a//b/" -> ["a","b"]).
func SplitPath(path string) []string {
	raw := strings.Split(path, "/")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// JoinPath arma un path normalizado a partir de segmentos.
func JoinPath(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		segs = append(segs, SplitPath(p)...)
	}
	return strings.Join(segs, "/")
}

// Overlaps indica si un cambio en a puede afectar el valor observado en b (o viceversa).
func Overlaps(a, b string) bool {
	pa, pb := SplitPath(a), SplitPath(b)
	n := len(pa)
	if len(pb) < n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}
