package tui

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/handiism/cover-mosaic/internal/artwork"
	"github.com/handiism/cover-mosaic/internal/catalog"
	"github.com/handiism/cover-mosaic/internal/config"
	"github.com/handiism/cover-mosaic/internal/mosaic"
)

type closeCounter struct {
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestWaitForEvent(t *testing.T) {
	events := make(chan mosaic.ProgressEvent, 1)
	events <- mosaic.ProgressEvent{Message: "hello", Level: mosaic.LevelInfo}
	close(events)

	msg, ok := waitForEvent(events)().(ProgressMsg)
	if !ok {
		t.Fatalf("first receive should yield a ProgressMsg")
	}
	if msg.Event.Message != "hello" {
		t.Errorf("Message = %q, want %q", msg.Event.Message, "hello")
	}

	if msg := waitForEvent(events)(); msg != nil {
		t.Errorf("closed channel should yield no message, got %#v", msg)
	}
}

func TestStartBuildClosesEvents(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Mosaic.CellSize = 8
	settings.Artwork.CacheDir = ""
	cfg, err := config.New(settings)
	if err != nil {
		t.Fatalf("config.New() error = %v", err)
	}

	m := NewModel(settings)
	events := m.events
	provider := artwork.ProviderFunc(func(ctx context.Context, artist, title string) (*artwork.Artwork, error) {
		return nil, artwork.ErrNotFound
	})
	m.builder = mosaic.NewBuilder(cfg, provider,
		mosaic.WithLogger(log.New(io.Discard)),
		mosaic.WithProgress(func(e mosaic.ProgressEvent) {
			select {
			case events <- e:
			default:
			}
		}),
	)
	m.output = filepath.Join(t.TempDir(), "out.png")

	closer := &closeCounter{}
	done, ok := m.startBuild([]catalog.Record{{Artist: "A", Title: "One"}}, closer)().(BuildDoneMsg)
	if !ok {
		t.Fatalf("startBuild should yield a BuildDoneMsg")
	}
	if done.Err != nil {
		t.Fatalf("build error = %v", done.Err)
	}
	if done.Result.Side != 1 {
		t.Errorf("Side = %d, want 1", done.Result.Side)
	}
	if closer.closed != 1 {
		t.Errorf("closer closed %d times, want 1", closer.closed)
	}

	// Draining terminates only when the channel is closed.
	n := 0
	for range events {
		n++
	}
	if n == 0 {
		t.Errorf("expected buffered progress events before close")
	}
}

func TestUpdateIgnoresEventsFromAbandonedBuild(t *testing.T) {
	m := NewModel(nil)

	stale := make(chan mosaic.ProgressEvent)
	close(stale)
	updated, cmd := m.Update(ProgressMsg{
		Event:  mosaic.ProgressEvent{Message: "old build", Level: mosaic.LevelInfo},
		source: stale,
	})
	if got := len(updated.(Model).logs); got != 0 {
		t.Errorf("stale event logged: %d entries", got)
	}
	if cmd == nil {
		t.Errorf("stale channel should still be drained")
	}

	updated, _ = m.Update(ProgressMsg{
		Event:  mosaic.ProgressEvent{Message: "current build", Level: mosaic.LevelInfo},
		source: m.events,
	})
	logs := updated.(Model).logs
	if len(logs) != 1 || logs[0].Message != "current build" {
		t.Errorf("logs = %#v, want the current event", logs)
	}
}

func TestUpdateHidesVerboseUnlessEnabled(t *testing.T) {
	m := NewModel(nil)
	verbose := ProgressMsg{Event: mosaic.ProgressEvent{Message: "detail", Level: mosaic.LevelVerbose}, source: m.events}

	updated, _ := m.Update(verbose)
	if got := len(updated.(Model).logs); got != 0 {
		t.Errorf("verbose event shown with verbose off: %d entries", got)
	}

	m.verbose = true
	updated, _ = m.Update(verbose)
	if got := len(updated.(Model).logs); got != 1 {
		t.Errorf("verbose event hidden with verbose on: %d entries", got)
	}
}
