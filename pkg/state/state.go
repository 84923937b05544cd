// Package state reads the installation state of modules from a platform
// database.
//
// A [Store] answers the questions the toolkit asks before and after an
// update run: is a module installed, which modules are stuck in a
// transitional state, and which uninstalled modules are still required by
// installed ones. [SQLStore] reads the platform's own module tables from
// its PostgreSQL database, or from a SQLite copy, and [MemoryStore] serves
// tests and dry runs.
//
// A database that has not been initialized yet has no module tables. Every
// store treats that case as "nothing installed" instead of failing.
package state

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// State is the installation state of a module as recorded by the platform.
type State string

// Module states. [Unknown] means the database has no record of the module.
const (
	Unknown       State = ""
	Uninstalled   State = "uninstalled"
	Uninstallable State = "uninstallable"
	Installed     State = "installed"
	ToInstall     State = "to install"
	ToUpgrade     State = "to upgrade"
	ToRemove      State = "to remove"
)

// IsInstalled reports whether the module code is active: installed, or
// installed and waiting for an upgrade.
func (s State) IsInstalled() bool {
	return s == Installed || s == ToUpgrade
}

// IsDangling reports whether s is a transitional state left behind by an
// interrupted update.
func (s State) IsDangling() bool {
	switch s {
	case Unknown, Installed, Uninstalled, Uninstallable:
		return false
	}
	return true
}

// inUse reports whether a module in state s counts towards the installed
// set. Modules scheduled for installation already do.
func (s State) inUse() bool {
	switch s {
	case Unknown, Uninstalled, Uninstallable, ToRemove:
		return false
	}
	return true
}

// requires reports whether a module in state s pulls in its dependencies.
func (s State) requires() bool {
	return s == Installed || s == ToInstall || s == ToUpgrade
}

func (s State) String() string {
	if s == Unknown {
		return "unknown"
	}
	return string(s)
}

// Record is one module row.
type Record struct {
	Name  string `json:"name" yaml:"name"`
	State State  `json:"state" yaml:"state"`
}

// Store reads module states. Implementations are safe for concurrent use.
type Store interface {
	// State returns the state of name, or Unknown if the module is not
	// listed.
	State(ctx context.Context, name string) (State, error)
	// IsInstalled reports whether name is installed or to be upgraded.
	IsInstalled(ctx context.Context, name string) (bool, error)
	// Installed returns the sorted names of all modules in use, including
	// those scheduled for installation.
	Installed(ctx context.Context) ([]string, error)
	// Dangling returns the modules in a transitional state, sorted by name.
	Dangling(ctx context.Context) ([]Record, error)
	// MissingDependencies returns the sorted, distinct names of uninstalled
	// modules that an installed or scheduled module depends on.
	MissingDependencies(ctx context.Context) ([]string, error)
	// Close releases the store.
	Close() error
}

// NotInstalled returns the names from want that store does not report as
// installed, in the order given.
func NotInstalled(ctx context.Context, store Store, want []string) ([]string, error) {
	var missing []string
	for _, name := range want {
		ok, err := store.IsInstalled(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// MemoryStore is an in-memory [Store]. The zero value is an empty,
// uninitialized database.
type MemoryStore struct {
	mu      sync.RWMutex
	states  map[string]State
	depends map[string][]string
}

// NewMemoryStore returns a store holding the given states.
func NewMemoryStore(states map[string]State) *MemoryStore {
	m := &MemoryStore{}
	for name, st := range states {
		m.Set(name, st)
	}
	return m
}

// Set records the state of a module.
func (m *MemoryStore) Set(name string, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.states == nil {
		m.states = make(map[string]State)
	}
	m.states[name] = st
}

// SetDepends records the dependencies of a module.
func (m *MemoryStore) SetDepends(name string, deps ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.depends == nil {
		m.depends = make(map[string][]string)
	}
	m.depends[name] = slices.Clone(deps)
}

func (m *MemoryStore) State(_ context.Context, name string) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[name], nil
}

func (m *MemoryStore) IsInstalled(ctx context.Context, name string) (bool, error) {
	st, err := m.State(ctx, name)
	return st.IsInstalled(), err
}

func (m *MemoryStore) Installed(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := []string{}
	for name, st := range m.states {
		if st.inUse() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (m *MemoryStore) Dangling(context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := []Record{}
	for name, st := range m.states {
		if st.IsDangling() {
			records = append(records, Record{Name: name, State: st})
		}
	}
	slices.SortFunc(records, func(a, b Record) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return records, nil
}

func (m *MemoryStore) MissingDependencies(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	names := []string{}
	for name, deps := range m.depends {
		if !m.states[name].requires() {
			continue
		}
		for _, dep := range deps {
			if m.states[dep] == Uninstalled && !seen[dep] {
				seen[dep] = true
				names = append(names, dep)
			}
		}
	}
	slices.Sort(names)
	return names, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
