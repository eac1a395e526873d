package memory

import (
	"context"
	"sync"

	"automed-dashboard/internal/adapters/storage/tree"
)

// rootsBackend guarda cada nodo de primer nivel en un map protegido por mutex.
// Los valores nunca se modifican in-place: tree.Store aplica los cambios sobre una copia.
type rootsBackend struct {
	mu    sync.RWMutex
	roots map[string]any
}

// NewStore crea un árbol de documentos in-memory (modo dev y tests).
func NewStore() *tree.Store {
	return tree.NewStore(&rootsBackend{
		roots: make(map[string]any),
	})
}

func (b *rootsBackend) Load(ctx context.Context, root string) (any, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.roots[root]
	return v, ok, nil
}

func (b *rootsBackend) Mutate(ctx context.Context, root string, fn func(cur any, ok bool) (any, bool, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.roots[root]
	next, keep, err := fn(cur, ok)
	if err != nil {
		return err
	}
	if !keep {
		delete(b.roots, root)
		return nil
	}
	b.roots[root] = next
	return nil
}
