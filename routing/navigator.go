package routing

import (
	"net/url"
	"sync"
)

type entry struct {
	path  string
	query url.Values
}

// Navigator keeps the current location and a history stack, like the browser
// history the front-end router wraps.
type Navigator struct {
	mu        sync.Mutex
	table     Table
	history   []entry
	index     int
	listeners []func(Route)
}

// NewNavigator starts at start (usually "/"). A nil table means DefaultTable.
func NewNavigator(table Table, start string) *Navigator {
	if table == nil {
		table = DefaultTable
	}
	path, query := splitURL(start)
	return &Navigator{
		table:   table,
		history: []entry{{path: normalizePath(path), query: query}},
	}
}

// Navigate pushes (or replaces) a history entry and updates the current
// location synchronously. Forward history is dropped on push.
func (n *Navigator) Navigate(path string, replace bool) {
	p, q := splitURL(path)
	e := entry{path: normalizePath(p), query: q}

	n.mu.Lock()
	if replace {
		n.history[n.index] = e
	} else {
		n.history = append(n.history[:n.index+1], e)
		n.index++
	}
	route, listeners := n.snapshot()
	n.mu.Unlock()

	notify(listeners, route)
}

// Back moves one entry back. It reports false at the start of history.
func (n *Navigator) Back() bool { return n.move(-1) }

// Forward moves one entry forward. It reports false at the end of history.
func (n *Navigator) Forward() bool { return n.move(1) }

func (n *Navigator) move(delta int) bool {
	n.mu.Lock()
	next := n.index + delta
	if next < 0 || next >= len(n.history) {
		n.mu.Unlock()
		return false
	}
	n.index = next
	route, listeners := n.snapshot()
	n.mu.Unlock()

	notify(listeners, route)
	return true
}

func (n *Navigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history[n.index].path
}

// SearchParams returns a copy of the current query.
func (n *Navigator) SearchParams() url.Values {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := url.Values{}
	for k, v := range n.history[n.index].query {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Route resolves the current location.
func (n *Navigator) Route() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	route, _ := n.snapshot()
	return route
}

// Len is the number of history entries.
func (n *Navigator) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.history)
}

// Listen registers fn to be called with the new route after every change.
func (n *Navigator) Listen(fn func(Route)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// snapshot must be called with mu held.
func (n *Navigator) snapshot() (Route, []func(Route)) {
	cur := n.history[n.index]
	route := n.table.ResolveRequest(NewRequest(cur.path, cur.query))
	listeners := append([]func(Route){}, n.listeners...)
	return route, listeners
}

func notify(listeners []func(Route), route Route) {
	for _, fn := range listeners {
		fn(route)
	}
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
