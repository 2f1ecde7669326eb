package playback

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/trimlab/internal/media"
)

// fakePlayer writes an executable shell script standing in for ffplay
func fakePlayer(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "ffplay")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func exited(p *process) bool {
	select {
	case <-p.done:
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestFFplayDriverReplaceReleasesPrevious(t *testing.T) {
	d, err := NewFFplayDriver(zerolog.Nop(), fakePlayer(t, "exec sleep 10"))
	if err != nil {
		t.Fatalf("NewFFplayDriver failed: %v", err)
	}
	defer d.Close()

	out := testOutput(media.FilterOff, media.OrientationDefault)
	if err := d.Replace(context.Background(), out); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	first := d.current

	if err := d.Replace(context.Background(), out); err != nil {
		t.Fatalf("second Replace failed: %v", err)
	}
	if !exited(first) {
		t.Fatal("previous ffplay still running after replace")
	}
	second := d.current
	if second == first {
		t.Fatal("current process not replaced")
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !exited(second) {
		t.Fatal("ffplay still running after close")
	}
	if err := d.Replace(context.Background(), out); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestFFplayDriverStartFailureKeepsPrevious(t *testing.T) {
	d, err := NewFFplayDriver(zerolog.Nop(), fakePlayer(t, "exec sleep 10"))
	if err != nil {
		t.Fatalf("NewFFplayDriver failed: %v", err)
	}
	defer d.Close()

	out := testOutput(media.FilterOff, media.OrientationDefault)
	if err := d.Replace(context.Background(), out); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	first := d.current

	d.playerPath = filepath.Join(t.TempDir(), "missing")
	if err := d.Replace(context.Background(), out); err == nil {
		t.Fatal("expected start failure")
	}
	if d.current != first {
		t.Error("current process changed after failed replace")
	}
	select {
	case <-first.done:
		t.Error("previous ffplay stopped by failed replace")
	default:
	}
}

func TestFFplayDriverWait(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"clean exit", "exit 0", false},
		{"player error", "exit 3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewFFplayDriver(zerolog.Nop(), fakePlayer(t, tt.body))
			if err != nil {
				t.Fatalf("NewFFplayDriver failed: %v", err)
			}
			defer d.Close()

			if err := d.Replace(context.Background(), testOutput(media.FilterOff, media.OrientationDefault)); err != nil {
				t.Fatalf("Replace failed: %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = d.Wait(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("Wait() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFFplayDriverWaitWithoutPlayback(t *testing.T) {
	d, err := NewFFplayDriver(zerolog.Nop(), fakePlayer(t, "exit 0"))
	if err != nil {
		t.Fatalf("NewFFplayDriver failed: %v", err)
	}
	if err := d.Wait(context.Background()); err != nil {
		t.Errorf("Wait with nothing playing = %v", err)
	}
}
