package util

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBrowserCommand(t *testing.T) {
	t.Parallel()

	url := LocalURL(20262)
	if url != "http://localhost:20262" {
		t.Fatalf("LocalURL=%q", url)
	}

	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", url}},
		{"darwin", "open", []string{url}},
		{"linux", "xdg-open", []string{url}},
	}
	for _, tt := range tests {
		name, args := browserCommand(tt.goos, url)
		if name != tt.name {
			t.Fatalf("%s: command=%q, want %q", tt.goos, name, tt.name)
		}
		if diff := cmp.Diff(tt.args, args); diff != "" {
			t.Fatalf("%s: args mismatch (-want +got):\n%s", tt.goos, diff)
		}
	}

	if got := len(fallbackCommands("linux", url)); got != 4 {
		t.Fatalf("linux fallbacks=%d, want 4", got)
	}
	if got := fallbackCommands("darwin", url); got != nil {
		t.Fatalf("darwin fallbacks=%v, want nil", got)
	}
}
