package help

import (
	"strings"
	"testing"
)

func TestRenderListsKeys(t *testing.T) {
	out, err := Render("notty", 80)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"ctrl+r", "shift+tab", "Other/unknown"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help is missing %q:\n%s", want, out)
		}
	}
}

func TestOverlayClampsSize(t *testing.T) {
	m := New(10, 2, "")
	if m.Err() != nil {
		t.Fatalf("unexpected error: %v", m.Err())
	}
	if m.width != 32 || m.height != 8 {
		t.Fatalf("expected minimum size, got %dx%d", m.width, m.height)
	}
	if !strings.Contains(m.View(), "taxoselect") {
		t.Fatalf("expected rendered title in the view")
	}
}
