package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"github.com/valerio/go-spacegame/spacegame/backend"
	"github.com/valerio/go-spacegame/spacegame/backend/terminal/render"
	"github.com/valerio/go-spacegame/spacegame/input"
	"github.com/valerio/go-spacegame/spacegame/input/action"
	"github.com/valerio/go-spacegame/spacegame/input/event"
)

const (
	minTermWidth  = 60
	minTermHeight = 16
	logCapacity   = 200
)

// Terminals send a held key as a stream of plain key presses. The first
// auto-repeat follows the host's repeat delay, so it gets a wider window
// than the presses after it.
const (
	firstRepeatTimeout = 700 * time.Millisecond
	keyTimeout         = 100 * time.Millisecond
)

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen tcell.Screen
	clock  clockwork.Clock
	config backend.Config

	logBuffer *render.LogBuffer
	logLevel  *slog.LevelVar

	mu         sync.Mutex
	eventQueue []backend.InputEvent // filled by the signal handler

	lastKey     string
	lastKeyTime time.Time
	repeating   bool

	stopSignals chan struct{}
}

// New creates a terminal backend drawing to the real terminal.
func New() *Backend {
	return &Backend{clock: clockwork.NewRealClock()}
}

// NewWithScreen creates a backend drawing to the given screen. Tests pass a
// tcell simulation screen and a fake clock.
func NewWithScreen(screen tcell.Screen, clock clockwork.Clock) *Backend {
	return &Backend{screen: screen, clock: clock}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	t.config = config

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)

	// Logs go to the log pane from now on
	t.logBuffer = render.NewLogBuffer(logCapacity)
	t.logLevel = new(slog.LevelVar)
	t.logLevel.Set(slog.LevelInfo)
	if config.ShowDebug {
		t.logLevel.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.stopSignals = make(chan struct{})
	go t.handleSignals(t.stopSignals)

	slog.Info("Terminal backend initialized")
	return nil
}

// Update renders the view and returns the input received since the last call
func (t *Backend) Update(view *backend.View) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if evt, ok := t.translateKey(ev); ok {
				events = append(events, evt)
			}
		case *tcell.EventMouse:
			x, y := ev.Position()
			events = append(events, backend.Pointer(x, y, ev.Buttons()&tcell.Button1 != 0))
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	t.mu.Lock()
	events = append(events, t.eventQueue...)
	t.eventQueue = nil
	t.mu.Unlock()

	t.render(view)
	t.screen.Show()

	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.stopSignals != nil {
		close(t.stopSignals)
		t.stopSignals = nil
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

// LogLevel is the minimum level shown in the log pane.
func (t *Backend) LogLevel() slog.Level {
	return t.logLevel.Level()
}

func (t *Backend) handleSignals(stop <-chan struct{}) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer signal.Stop(signals)

	select {
	case <-signals:
		t.mu.Lock()
		t.eventQueue = append(t.eventQueue, backend.Command(action.PanelQuit))
		t.mu.Unlock()
	case <-stop:
	}
}

// translateKey maps a terminal key to either a panel command or, for the
// activation keys, a key event for the focused button.
func (t *Backend) translateKey(ev *tcell.EventKey) (backend.InputEvent, bool) {
	name := keyName(ev)
	if name == "" {
		return backend.InputEvent{}, false
	}

	if name == event.KeyEnter || name == event.KeySpace {
		now := t.clock.Now()
		window := firstRepeatTimeout
		if t.repeating {
			window = keyTimeout
		}
		repeat := name == t.lastKey && now.Sub(t.lastKeyTime) < window
		t.lastKey = name
		t.lastKeyTime = now
		t.repeating = repeat
		return backend.Key(name, repeat), true
	}

	if act, ok := input.GetDefaultMapping(name); ok {
		slog.Debug("Key command", "key", name, "action", action.GetInfo(act).Description)
		return backend.Command(act), true
	}
	return backend.InputEvent{}, false
}

func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return event.KeySpace
		}
		return string(ev.Rune())
	case tcell.KeyEnter:
		return event.KeyEnter
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyCtrlC:
		return "Ctrl+C"
	case tcell.KeyTab:
		return "Tab"
	case tcell.KeyUp:
		return "Up"
	case tcell.KeyDown:
		return "Down"
	case tcell.KeyLeft:
		return "Left"
	case tcell.KeyRight:
		return "Right"
	case tcell.KeyDelete:
		return "Delete"
	case tcell.KeyF11:
		return "F11"
	case tcell.KeyF12:
		return "F12"
	}
	return ""
}

func (t *Backend) changeLogLevel(direction int) {
	levels := []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

	old := t.logLevel.Level()
	idx := 1
	for i, l := range levels {
		if l == old {
			idx = i
		}
	}
	// more verbose means a lower level
	idx = max(0, min(len(levels)-1, idx-direction))

	if levels[idx] != old {
		t.logLevel.Set(levels[idx])
		slog.Info("Log filter changed", "from", old, "to", levels[idx])
	}
}
