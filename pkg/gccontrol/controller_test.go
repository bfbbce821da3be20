package gccontrol

import (
	"runtime"
	"runtime/debug"
	"testing"
)

func gcPercent() int {
	p := debug.SetGCPercent(100)
	debug.SetGCPercent(p)
	return p
}

func TestDisableGCDuringRestores(t *testing.T) {
	orig := debug.SetGCPercent(150)
	defer debug.SetGCPercent(orig)

	c := NewController()
	c.DisableGCDuring(func() {
		if p := gcPercent(); p != -1 {
			t.Errorf("GC percent %d inside DisableGCDuring, wanted -1", p)
		}
		if !c.Disabled() {
			t.Error("controller does not report disabled")
		}
	})
	if p := gcPercent(); p != 150 {
		t.Errorf("GC percent %d after DisableGCDuring, wanted 150", p)
	}
}

func TestNestedDisable(t *testing.T) {
	orig := debug.SetGCPercent(100)
	defer debug.SetGCPercent(orig)

	c := NewController()
	c.DisableGC()
	c.DisableGC()
	c.EnableGC()
	if p := gcPercent(); p != -1 {
		t.Errorf("GC re-enabled with one DisableGC outstanding (percent %d)", p)
	}
	c.EnableGC()
	if p := gcPercent(); p != 100 {
		t.Errorf("GC percent %d, wanted 100", p)
	}
	c.EnableGC() // unbalanced, ignored
	if c.Disabled() {
		t.Error("unbalanced EnableGC left controller disabled")
	}
}

func TestForceGCWhileDisabled(t *testing.T) {
	orig := debug.SetGCPercent(100)
	defer debug.SetGCPercent(orig)

	c := NewController()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	c.DisableGCDuring(c.ForceGC)

	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	if after.NumGC <= before.NumGC {
		t.Errorf("no GC cycle ran: %d -> %d", before.NumGC, after.NumGC)
	}
	if c.LastForced().IsZero() {
		t.Error("LastForced not recorded")
	}
	if p := gcPercent(); p != 100 {
		t.Errorf("GC percent %d after forced GC, wanted 100", p)
	}
}
