package tree

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"automed-dashboard/internal/ports/docstore"

	"github.com/google/uuid"
)

// Backend persiste cada nodo de primer nivel ("medication_schedules", "rtc", ...) como una fila.
type Backend interface {
	Load(ctx context.Context, root string) (any, bool, error)

	// Mutate carga la fila root, aplica fn y persiste el resultado de forma atómica.
	// keep=false borra la fila.
	Mutate(ctx context.Context, root string, fn func(cur any, ok bool) (next any, keep bool, err error)) error
}

// Store implementa docstore.Store sobre un Backend y notifica a los suscriptores
// del mismo proceso después de cada escritura confirmada.
type Store struct {
	backend Backend
	newKey  func() string

	// mu serializa escritura + lectura de snapshots para que las versiones sean monotónicas.
	mu       sync.Mutex
	version  uint64
	nextID   uint64
	watchers map[uint64]*watcher
	closed   bool
}

var _ docstore.Store = (*Store)(nil)

func NewStore(b Backend) *Store {
	return &Store{
		backend:  b,
		newKey:   pushKey,
		watchers: map[uint64]*watcher{},
	}
}

// pushKey usa UUIDv7: las keys quedan ordenadas por tiempo de creación.
func pushKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) Get(ctx context.Context, path string) (docstore.Snapshot, error) {
	segs := docstore.SplitPath(path)
	if len(segs) == 0 {
		return docstore.Snapshot{}, docstore.ErrInvalidPath
	}
	return s.read(ctx, segs)
}

func (s *Store) read(ctx context.Context, segs []string) (docstore.Snapshot, error) {
	snap := docstore.Snapshot{Path: docstore.JoinPath(segs...)}

	root, ok, err := s.backend.Load(ctx, segs[0])
	if err != nil {
		return snap, err
	}
	if !ok {
		return snap, nil
	}

	v, ok := getPath(root, segs[1:])
	if !ok {
		return snap, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return snap, err
	}
	snap.Value = b
	return snap, nil
}

func (s *Store) Subscribe(ctx context.Context, path string, fn func(docstore.Snapshot)) (func(), error) {
	segs := docstore.SplitPath(path)
	if len(segs) == 0 || fn == nil {
		return nil, docstore.ErrInvalidPath
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, docstore.ErrClosed
	}
	snap, err := s.read(ctx, segs)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.nextID++
	w := &watcher{id: s.nextID, path: snap.Path, fn: fn, active: true}
	s.watchers[w.id] = w
	v := s.version
	s.mu.Unlock()

	w.deliver(v, snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, w.id)
			s.mu.Unlock()
			w.stop()
		})
	}, nil
}

func (s *Store) Set(ctx context.Context, path string, value any) error {
	v, err := Normalize(value)
	if err != nil {
		return err
	}
	return s.write(ctx, path, func(root map[string]any, segs []string) error {
		setPath(root, segs, v)
		return nil
	})
}

func (s *Store) Push(ctx context.Context, path string, value any) (string, error) {
	if len(docstore.SplitPath(path)) == 0 {
		return "", docstore.ErrInvalidPath
	}
	key := s.newKey()
	if err := s.Set(ctx, docstore.JoinPath(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	normalized := make(map[string][]string, len(fields))
	values := make(map[string]any, len(fields))
	for k, raw := range fields {
		ks := docstore.SplitPath(k)
		if len(ks) == 0 {
			return docstore.ErrInvalidPath
		}
		v, err := Normalize(raw)
		if err != nil {
			return err
		}
		normalized[k] = ks
		values[k] = v
	}

	return s.write(ctx, path, func(root map[string]any, segs []string) error {
		for k, ks := range normalized {
			full := append(append([]string{}, segs...), ks...)
			setPath(root, full, values[k])
		}
		return nil
	})
}

func (s *Store) Remove(ctx context.Context, path string) error {
	return s.write(ctx, path, func(root map[string]any, segs []string) error {
		removePath(root, segs)
		return nil
	})
}

// Close detiene las notificaciones y cierra el backend si corresponde.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	ws := s.watchers
	s.watchers = map[uint64]*watcher{}
	s.mu.Unlock()

	for _, w := range ws {
		w.stop()
	}
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type delivery struct {
	w    *watcher
	snap docstore.Snapshot
}

func (s *Store) write(ctx context.Context, path string, apply func(root map[string]any, segs []string) error) error {
	segs := docstore.SplitPath(path)
	if len(segs) == 0 {
		return docstore.ErrInvalidPath
	}
	rootKey := segs[0]

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return docstore.ErrClosed
	}

	err := s.backend.Mutate(ctx, rootKey, func(cur any, ok bool) (any, bool, error) {
		tree := map[string]any{}
		if ok && cur != nil {
			tree[rootKey] = Clone(cur)
		}
		if err := apply(tree, segs); err != nil {
			return nil, false, err
		}
		next, exists := tree[rootKey]
		next = compact(next)
		return next, exists && next != nil, nil
	})
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.version++
	v := s.version
	changed := docstore.JoinPath(segs...)

	pending := make([]delivery, 0)
	for _, w := range s.watchers {
		if !docstore.Overlaps(changed, w.path) {
			continue
		}
		snap, err := s.read(ctx, docstore.SplitPath(w.path))
		if err != nil {
			// el próximo cambio vuelve a entregar el valor completo
			continue
		}
		pending = append(pending, delivery{w: w, snap: snap})
	}
	s.mu.Unlock()

	for _, d := range pending {
		d.w.deliver(v, d.snap)
	}
	return nil
}

// watcher descarta snapshots más viejos que el último entregado.
// fn no debe escribir en el store de forma síncrona.
type watcher struct {
	id   uint64
	path string
	fn   func(docstore.Snapshot)

	mu        sync.Mutex
	active    bool
	delivered bool
	last      uint64
}

func (w *watcher) deliver(version uint64, snap docstore.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.active {
		return
	}
	if w.delivered && version <= w.last {
		return
	}
	w.delivered = true
	w.last = version
	w.fn(snap)
}

func (w *watcher) stop() {
	w.mu.Lock()
	w.active = false
	w.mu.Unlock()
}
