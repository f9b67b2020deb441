//go:build unix || windows

package debug

import "testing"

func TestResidentBytes(t *testing.T) {
	rss, err := residentBytes()
	if err != nil {
		t.Fatalf("residentBytes: %v", err)
	}
	if rss == 0 {
		t.Fatalf("expected non-zero rss")
	}
}
