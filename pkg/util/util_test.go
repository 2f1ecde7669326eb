package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00.000"},
		{1500 * time.Millisecond, "00:00:01.500"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03.000"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := FormatSeconds(2); got != "2.000" {
		t.Errorf("FormatSeconds(2) = %q", got)
	}
	if got := FormatSeconds(0.0333333); got != "0.033" {
		t.Errorf("FormatSeconds(0.0333333) = %q", got)
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"25/2", 12.5},
		{"0/0", 0},
		{"abc", 0},
		{"30", 0},
	}
	for _, tt := range tests {
		if got := ParseFrameRate(tt.in); got != tt.want {
			t.Errorf("ParseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if FileExists(nested) {
		t.Error("directories are not files")
	}

	path := filepath.Join(nested, "Clip.MOV")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("expected file to exist")
	}
	if got := GetExtension(path); got != ".mov" {
		t.Errorf("GetExtension = %q, want .mov", got)
	}
	if !HasExtension(path, []string{"mp4", ".mov"}) {
		t.Error("expected .mov to match")
	}
	if HasExtension(path, []string{".mp4", "mkv"}) {
		t.Error("unexpected match")
	}
}
