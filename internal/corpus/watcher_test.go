package corpus

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/krisyotam/notes.krisyotam.com/internal/render"
	"github.com/krisyotam/notes.krisyotam.com/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(kind, path string) {
	l.mu.Lock()
	l.events = append(l.events, kind+":"+path)
	l.mu.Unlock()
}

func (l *eventLog) has(e string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, got := range l.events {
		if got == e {
			return true
		}
	}
	return false
}

func TestWatch_InvalidatesAndNotifies(t *testing.T) {
	root, store := testutil.TestRoot(t)
	logger := quietLogger()
	cache := NewCache(NewService(store, render.New(), nil, logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Warm the cache so the rebuild is observable.
	if _, err := cache.Snapshot(ctx); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	log := &eventLog{}
	go Watch(ctx, root, cache, logger, log.add)
	time.Sleep(100 * time.Millisecond)

	testutil.WriteFile(t, root, "new.org", "#+title: New\n\nBody.\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return log.has("created:new.org")
	}, "create event not observed")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		snap, err := cache.Snapshot(ctx)
		if err != nil {
			return false
		}
		_, ok := snap.BySlug("new")
		return ok
	}, "snapshot not rebuilt with new note")
}

func TestWatch_DeleteInvalidates(t *testing.T) {
	root, store := testutil.TestRoot(t)
	logger := quietLogger()
	cache := NewCache(NewService(store, render.New(), nil, logger))
	testutil.WriteFile(t, root, "gone.md", "# Gone\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := cache.Snapshot(ctx); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	log := &eventLog{}
	go Watch(ctx, root, cache, logger, log.add)
	time.Sleep(100 * time.Millisecond)

	if err := os.Remove(filepath.Join(root, "gone.md")); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return log.has("deleted:gone.md")
	}, "delete event not observed")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		snap, err := cache.Snapshot(ctx)
		if err != nil {
			return false
		}
		_, ok := snap.BySlug("gone")
		return !ok
	}, "deleted note still in snapshot")
}

func TestWatch_IgnoresIneligibleFiles(t *testing.T) {
	root, store := testutil.TestRoot(t)
	logger := quietLogger()
	cache := NewCache(NewService(store, render.New(), nil, logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := &eventLog{}
	go Watch(ctx, root, cache, logger, log.add)
	time.Sleep(100 * time.Millisecond)

	testutil.WriteFile(t, root, "scratch.txt", "not a note\n")
	testutil.WriteFile(t, root, "real.md", "# Real\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return log.has("created:real.md")
	}, "eligible file event not observed")

	if log.has("created:scratch.txt") {
		t.Error("ineligible file produced an event")
	}
}
