package storage

import (
	"context"
	"strings"
)

// Namespaced scopes every key of an underlying store under a fixed prefix.
// Keys returns keys with the prefix stripped.
type Namespaced struct {
	inner  Store
	prefix string
}

func NewNamespaced(inner Store, prefix string) *Namespaced {
	return &Namespaced{inner: inner, prefix: prefix}
}

// VisitorPrefix is the namespace of one visitor's tracking state.
func VisitorPrefix(visitorID string) string {
	return VisitorKeyPrefix + visitorID + ":"
}

// VisitorKeyPrefix starts every visitor namespace.
const VisitorKeyPrefix = "visitor:"

// VisitorIDs lists the distinct visitor ids that own at least one key in s.
func VisitorIDs(ctx context.Context, s Store) ([]string, error) {
	keys, err := s.Keys(ctx, VisitorKeyPrefix)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, k := range keys {
		rest := strings.TrimPrefix(k, VisitorKeyPrefix)
		id, _, ok := strings.Cut(rest, ":")
		if !ok || id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.prefix+key)
}

func (n *Namespaced) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := n.inner.Keys(ctx, n.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, n.prefix)
	}
	return keys, nil
}
