package tree

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Normalize convierte cualquier valor a su forma JSON genérica
// (map[string]any, []any, float64, string, bool) y poda nodos vacíos.
// Un resultado nil significa "sin datos".
func Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("tree: marshal value: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("tree: unmarshal value: %w", err)
	}
	return compact(out), nil
}

// compact elimina hijos nil y objetos vacíos (el árbol no guarda nodos vacíos).
func compact(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			c := compact(child)
			if c == nil {
				delete(node, k)
				continue
			}
			node[k] = c
		}
		if len(node) == 0 {
			return nil
		}
		return node
	case []any:
		empty := true
		for i, child := range node {
			node[i] = compact(child)
			if node[i] != nil {
				empty = false
			}
		}
		if empty {
			return nil
		}
		return node
	default:
		return v
	}
}

// Clone hace una copia profunda de un valor normalizado.
func Clone(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[k] = Clone(child)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = Clone(child)
		}
		return out
	default:
		return v
	}
}

func getPath(root any, segs []string) (any, bool) {
	cur := root
	for _, s := range segs {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[s]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(s)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
		if cur == nil {
			return nil, false
		}
	}
	return cur, cur != nil
}

func setPath(root map[string]any, segs []string, value any) {
	if len(segs) == 0 {
		return
	}
	if value == nil {
		removePath(root, segs)
		return
	}

	node := root
	for _, s := range segs[:len(segs)-1] {
		next, ok := childMap(node, s)
		if !ok {
			next = map[string]any{}
			node[s] = next
		}
		node = next
	}
	node[segs[len(segs)-1]] = value
}

func removePath(root map[string]any, segs []string) {
	if len(segs) == 0 {
		return
	}

	// cadena de padres para podar los nodos que queden vacíos
	parents := []map[string]any{root}
	node := root
	for _, s := range segs[:len(segs)-1] {
		next, ok := childMap(node, s)
		if !ok {
			return
		}
		parents = append(parents, next)
		node = next
	}
	delete(node, segs[len(segs)-1])

	for i := len(parents) - 1; i > 0; i-- {
		if len(parents[i]) > 0 {
			break
		}
		delete(parents[i-1], segs[i-1])
	}
}

// childMap devuelve el hijo s como objeto; las listas se convierten a objeto
// con keys numéricas para poder escribir dentro de ellas.
func childMap(node map[string]any, s string) (map[string]any, bool) {
	switch child := node[s].(type) {
	case map[string]any:
		return child, true
	case []any:
		m := make(map[string]any, len(child))
		for i, v := range child {
			if v == nil {
				continue
			}
			m[strconv.Itoa(i)] = v
		}
		node[s] = m
		return m, true
	default:
		return nil, false
	}
}
