package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pylight/internal/editor"
	"github.com/dshills/pylight/internal/engine/buffer"
	"github.com/dshills/pylight/internal/log"
	"github.com/dshills/pylight/internal/renderer/backend"
	"github.com/dshills/pylight/internal/renderer/style"
)

func TestFollowTheme(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(settings, []byte(`{"theme": "Dark"}`), 0o644))

	a := newApp()
	a.settingsPath = settings
	a.logger = log.Discard()

	term, _ := backend.NewSimulation(20, 5)
	defer term.Shutdown()
	doc := editor.New("main.py", buffer.NewFromString("x = 1"), editor.DefaultOptions())
	viewer := editor.NewViewer(doc, term, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- viewer.Run(ctx) }()

	a.followTheme(ctx, viewer)
	require.NoError(t, os.WriteFile(settings, []byte(`{"theme": "Dracula"}`), 0o644))

	palette := func() string {
		got := make(chan string, 1)
		if !viewer.Apply(func(d *editor.Document) { got <- d.Palette().Name }) {
			return ""
		}
		select {
		case name := <-got:
			return name
		case <-time.After(time.Second):
			return ""
		}
	}
	assert.Eventually(t, func() bool { return palette() == style.ThemeDracula },
		5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-errc:
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not stop")
	}
}
