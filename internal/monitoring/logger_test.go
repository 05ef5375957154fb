package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("loaded %d poses", 3)

	if got != "loaded 3 poses" {
		t.Errorf("custom logger received %q", got)
	}

	// nil installs a no-op
	got = ""
	SetLogger(nil)
	Logf("should be dropped")
	if got != "" {
		t.Errorf("no-op logger forwarded %q", got)
	}
}

func TestQuiet(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	calls := 0
	SetLogger(func(string, ...interface{}) { calls++ })

	restore := Quiet()
	Logf("muted")
	if calls != 0 {
		t.Errorf("expected muted logger, got %d calls", calls)
	}

	restore()
	Logf("audible")
	if calls != 1 {
		t.Errorf("expected restored logger to be called once, got %d", calls)
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
	Logf("test message: %s", "value")
}
