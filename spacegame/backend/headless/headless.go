package headless

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/valerio/go-spacegame/spacegame/backend"
	"github.com/valerio/go-spacegame/spacegame/input/action"
)

// Script maps a frame number (starting at 1) to the input delivered on it.
type Script map[int][]backend.InputEvent

// Backend implements the Backend interface for scripted runs and tests. It
// replays a script, then asks the panel to quit once maxFrames have run.
type Backend struct {
	config         backend.Config
	frameCount     int
	maxFrames      int
	script         Script
	snapshotConfig SnapshotConfig
	out            io.Writer
	last           *backend.View
}

// SnapshotConfig holds configuration for text snapshots of the panel
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
}

func New(maxFrames int, script Script, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		script:         script,
		snapshotConfig: snapshotConfig,
	}
}

// SetOutput makes the backend print the final panel to w when it quits.
func (h *Backend) SetOutput(w io.Writer) {
	h.out = w
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	h.frameCount = 0

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)
	return nil
}

// Update lays out the view, saves snapshots and returns the scripted input
// for the frame.
func (h *Backend) Update(view *backend.View) ([]backend.InputEvent, error) {
	h.frameCount++
	h.last = view

	if view.Stepper != nil {
		backend.LayoutStepper(view.Stepper, 0, 0)
	}

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(view)
	}

	events := append([]backend.InputEvent(nil), h.script[h.frameCount]...)

	if h.frameCount >= h.maxFrames {
		slog.Info("Headless execution completed", "frames", h.frameCount)
		if h.out != nil {
			if _, err := io.WriteString(h.out, backend.FormatView(view)); err != nil {
				return nil, fmt.Errorf("failed to write panel: %w", err)
			}
		}
		events = append(events, backend.Command(action.PanelQuit))
	}

	return events, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Frames returns how many frames have been rendered.
func (h *Backend) Frames() int {
	return h.frameCount
}

// LastView returns the most recently rendered view.
func (h *Backend) LastView() *backend.View {
	return h.last
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "spacegame-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	return config, nil
}

func (h *Backend) saveSnapshot(view *backend.View) {
	path := filepath.Join(h.snapshotConfig.Directory, fmt.Sprintf("panel_frame_%d.txt", h.frameCount))

	if err := os.WriteFile(path, []byte(backend.FormatView(view)), 0644); err != nil {
		slog.Error("Failed to save snapshot", "frame", h.frameCount, "error", err)
	}
}
