package state

import (
	"context"
	"reflect"
	"testing"
)

func TestStatePredicates(t *testing.T) {
	tests := []struct {
		state     State
		installed bool
		dangling  bool
	}{
		{Unknown, false, false},
		{Uninstalled, false, false},
		{Uninstallable, false, false},
		{Installed, true, false},
		{ToUpgrade, true, true},
		{ToInstall, false, true},
		{ToRemove, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.IsInstalled(); got != tt.installed {
				t.Errorf("IsInstalled() = %v, want %v", got, tt.installed)
			}
			if got := tt.state.IsDangling(); got != tt.dangling {
				t.Errorf("IsDangling() = %v, want %v", got, tt.dangling)
			}
		})
	}
}

// fixture describes the same database for the memory and SQL stores.
var fixture = []struct {
	name    string
	state   State
	depends []string
}{
	{"base", Installed, nil},
	{"sale", Installed, []string{"base", "product"}},
	{"product", Uninstalled, nil},
	{"stock", ToUpgrade, []string{"base", "barcode"}},
	{"barcode", Uninstalled, nil},
	{"crm", ToInstall, []string{"product"}},
	{"old", ToRemove, []string{"legacy"}},
	{"legacy", Uninstalled, nil},
	{"theme", Uninstallable, nil},
	{"draft", Uninstalled, []string{"barcode"}},
}

func memoryFixture() *MemoryStore {
	m := NewMemoryStore(nil)
	for _, f := range fixture {
		m.Set(f.name, f.state)
		if f.depends != nil {
			m.SetDepends(f.name, f.depends...)
		}
	}
	return m
}

// checkStore runs the shared store contract against the fixture.
func checkStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	st, err := store.State(ctx, "stock")
	if err != nil || st != ToUpgrade {
		t.Errorf("State(stock) = %v, %v", st, err)
	}
	st, err = store.State(ctx, "nope")
	if err != nil || st != Unknown {
		t.Errorf("State(nope) = %v, %v, want unknown", st, err)
	}

	for name, want := range map[string]bool{"base": true, "stock": true, "crm": false, "product": false, "nope": false} {
		got, err := store.IsInstalled(ctx, name)
		if err != nil || got != want {
			t.Errorf("IsInstalled(%s) = %v, %v, want %v", name, got, err, want)
		}
	}

	installed, err := store.Installed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"base", "crm", "sale", "stock"}; !reflect.DeepEqual(installed, want) {
		t.Errorf("Installed() = %v, want %v", installed, want)
	}

	dangling, err := store.Dangling(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantDangling := []Record{{"crm", ToInstall}, {"old", ToRemove}, {"stock", ToUpgrade}}
	if !reflect.DeepEqual(dangling, wantDangling) {
		t.Errorf("Dangling() = %v, want %v", dangling, wantDangling)
	}

	missing, err := store.MissingDependencies(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"barcode", "product"}; !reflect.DeepEqual(missing, want) {
		t.Errorf("MissingDependencies() = %v, want %v", missing, want)
	}

	notInstalled, err := NotInstalled(ctx, store, []string{"sale", "crm", "nope", "base"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"crm", "nope"}; !reflect.DeepEqual(notInstalled, want) {
		t.Errorf("NotInstalled() = %v, want %v", notInstalled, want)
	}
}

func TestMemoryStore(t *testing.T) {
	checkStore(t, memoryFixture())
}

func TestMemoryStoreEmpty(t *testing.T) {
	var m MemoryStore
	ctx := context.Background()

	installed, err := m.Installed(ctx)
	if err != nil || len(installed) != 0 {
		t.Errorf("Installed() = %v, %v", installed, err)
	}
	ok, err := m.IsInstalled(ctx, "base")
	if err != nil || ok {
		t.Errorf("IsInstalled(base) = %v, %v on an empty store", ok, err)
	}
}
