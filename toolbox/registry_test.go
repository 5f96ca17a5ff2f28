package toolbox

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&mockBackend{name: "a"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(&mockBackend{name: "a"}); !errors.Is(err, ErrBackendExists) {
		t.Errorf("Register() duplicate error = %v, want ErrBackendExists", err)
	}
	if err := r.Register(&mockBackend{}); err == nil {
		t.Error("Register() without name should fail")
	}
	if err := r.Register(nil); err == nil {
		t.Error("Register(nil) should fail")
	}
}

func TestRegistry_ListEnabled(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockBackend{name: "b", enabled: true})
	_ = r.Register(&mockBackend{name: "a", enabled: true})
	_ = r.Register(&mockBackend{name: "c"})

	if got := r.Names(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Names() = %v", got)
	}
	var enabled []string
	for _, b := range r.ListEnabled() {
		enabled = append(enabled, b.Name())
	}
	if !slices.Equal(enabled, []string{"a", "b"}) {
		t.Errorf("ListEnabled() = %v", enabled)
	}
}

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry()
	on := &mockBackend{name: "on", enabled: true}
	off := &mockBackend{name: "off", stopErr: errors.New("stuck")}
	_ = r.Register(on)
	_ = r.Register(off)

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll() error = %v", err)
	}
	if on.started != 1 || off.started != 0 {
		t.Errorf("started = %d/%d, want 1/0", on.started, off.started)
	}

	if err := r.StopAll(); err == nil {
		t.Error("StopAll() error = nil, want the stop failure")
	}
	if on.stopped != 1 || off.stopped != 1 {
		t.Errorf("stopped = %d/%d, want 1/1", on.stopped, off.stopped)
	}

	r.Unregister("on")
	if _, ok := r.Get("on"); ok {
		t.Error("Get() found an unregistered backend")
	}
	if on.stopped != 2 {
		t.Errorf("Unregister() did not stop the backend")
	}
}
