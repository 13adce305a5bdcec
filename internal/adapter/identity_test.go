package adapter

import (
	"bytes"
	"strings"
	"testing"
)

func TestIdentificationIsStable(t *testing.T) {
	for name, fn := range map[string]func() StringWrapper{
		"name":        Name,
		"author":      Author,
		"description": Description,
	} {
		first := fn()
		if first.Data == "" {
			t.Errorf("%s must not be empty", name)
		}
		if first.NeedsReleasing {
			t.Errorf("%s must not need releasing", name)
		}
		for i := 0; i < 3; i++ {
			if got := fn(); got != first {
				t.Errorf("%s changed between calls: %+v != %+v", name, got, first)
			}
		}
	}

	if Name().Data != "Mumble DBus Adapter" {
		t.Errorf("unexpected plugin name %q", Name().Data)
	}
	if v := Version(); v.Major != 1 || v.Minor != 0 || v.Patch != 0 {
		t.Errorf("unexpected version %s", v)
	}
}

func TestReleaseResource_CallsAbort(t *testing.T) {
	var out bytes.Buffer
	aborted := false

	func() {
		defer func() {
			if recover() == nil {
				t.Error("ReleaseResource must not return when abort does")
			}
		}()
		ReleaseResource(&out, func() { aborted = true })
	}()

	if !aborted {
		t.Error("abort was not called")
	}
	if !strings.Contains(out.String(), "Aborting") {
		t.Errorf("expected diagnostic, got %q", out.String())
	}
}
