package spacegame

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/valerio/go-spacegame/spacegame/backend"
	"github.com/valerio/go-spacegame/spacegame/input"
	"github.com/valerio/go-spacegame/spacegame/input/action"
	"github.com/valerio/go-spacegame/spacegame/orders"
	"github.com/valerio/go-spacegame/spacegame/session"
	"github.com/valerio/go-spacegame/spacegame/timing"
	"github.com/valerio/go-spacegame/spacegame/widget"
)

const (
	defaultMinQuantity = 1
	defaultMaxQuantity = 99
)

// Options configures the order panel.
type Options struct {
	GameID string
	TurnID string

	// OrderType is sent as "type" with every created order when set.
	OrderType string

	MinQuantity int
	MaxQuantity int
	Quantity    int

	Clock   clockwork.Clock // defaults to the real clock
	Limiter timing.Limiter  // defaults to a ticker at timing.TargetFPS
}

// Console is the interactive order panel for one turn. Each frame it hands
// the backend a view, then routes the returned input to the widgets and the
// command manager.
type Console struct {
	session *session.Session
	book    *orders.Book
	backend backend.Backend
	opts    Options

	stepper *widget.Stepper
	router  *widget.Router
	manager *input.Manager
	limiter timing.Limiter

	ctx      context.Context
	running  bool
	selected int
	status   string
}

func NewConsole(sess *session.Session, be backend.Backend, opts Options) *Console {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.MinQuantity <= 0 {
		opts.MinQuantity = defaultMinQuantity
	}
	if opts.MaxQuantity < opts.MinQuantity {
		opts.MaxQuantity = max(defaultMaxQuantity, opts.MinQuantity)
	}
	if opts.Limiter == nil {
		opts.Limiter = timing.NewTickerLimiter(opts.Clock)
	}

	c := &Console{
		session: sess,
		book:    orders.NewBook(sess),
		backend: be,
		opts:    opts,
		limiter: opts.Limiter,
		manager: input.NewManager(input.NewHandler(opts.Clock)),
	}

	c.stepper = widget.NewStepper(opts.MinQuantity, opts.MaxQuantity, opts.Quantity, opts.Clock)
	c.router = widget.NewRouter(c.stepper.Dec, c.stepper.Inc)

	c.manager.On(action.PanelQuit, func() { c.running = false })
	c.manager.On(action.PanelRefresh, c.refresh)
	c.manager.On(action.PanelCreateOrder, c.createOrder)
	c.manager.On(action.PanelCancelOrder, c.cancelSelected)
	c.manager.On(action.PanelSubmitTurn, c.submit)
	c.manager.On(action.PanelSelectNext, func() { c.moveSelection(1) })
	c.manager.On(action.PanelSelectPrev, func() { c.moveSelection(-1) })
	c.manager.On(action.PanelFocusNext, c.router.FocusNext)
	c.manager.On(action.StepperIncrement, func() { c.stepper.Step(1) })
	c.manager.On(action.StepperDecrement, func() { c.stepper.Step(-1) })

	return c
}

// Run drives the panel until the user quits, the backend fails or ctx is
// cancelled. The session must already be authenticated.
func (c *Console) Run(ctx context.Context) error {
	if _, err := c.session.RequireUser(); err != nil {
		return err
	}

	err := c.backend.Init(backend.Config{Title: c.title()})
	if err != nil {
		return err
	}
	defer func() {
		c.stepper.Close()
		if s, ok := c.limiter.(interface{ Stop() }); ok {
			s.Stop()
		}
		if err := c.backend.Cleanup(); err != nil {
			slog.Error("Failed to clean up backend", "error", err)
		}
	}()

	c.ctx = ctx
	c.running = true
	c.refresh()

	for c.running {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		events, err := c.backend.Update(c.view())
		if err != nil {
			return fmt.Errorf("backend update failed: %w", err)
		}
		c.handleEvents(events)

		if c.running {
			c.limiter.WaitForNextFrame()
		}
	}

	slog.Info("Order panel closed", "game", c.opts.GameID, "turn", c.opts.TurnID)
	return nil
}

func (c *Console) Book() *orders.Book {
	return c.book
}

func (c *Console) Stepper() *widget.Stepper {
	return c.stepper
}

// Status is the message shown on the status line.
func (c *Console) Status() string {
	return c.status
}

func (c *Console) handleEvents(events []backend.InputEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case backend.EventPointer:
			c.router.Pointer(ev.X, ev.Y, ev.Primary)
		case backend.EventKey:
			c.router.Key(ev.Key, ev.Repeat)
		case backend.EventCommand:
			c.command(ev.Action)
		}
	}
}

func (c *Console) command(act action.Action) {
	info := action.GetInfo(act)

	if info.Category == action.CategoryDebug {
		if h, ok := c.backend.(backend.ActionHandler); ok {
			h.HandleAction(act)
		}
		return
	}

	if !c.manager.Trigger(act) {
		return
	}
	if info.Category == action.CategoryNetwork {
		// the request may have taken several frames
		c.limiter.Reset()
	}
}

func (c *Console) refresh() {
	c.book.Load(c.ctx, c.opts.GameID, c.opts.TurnID)
	status := c.book.TurnStatus(c.ctx, c.opts.GameID, c.opts.TurnID)

	c.clampSelection()
	c.status = fmt.Sprintf("%d orders, %d players in turn status", len(c.book.Orders()), len(status))
}

func (c *Console) createOrder() {
	if c.book.IsSubmitted() {
		c.status = "Turn already submitted"
		return
	}

	data := map[string]any{"quantity": c.stepper.Value()}
	if c.opts.OrderType != "" {
		data["type"] = c.opts.OrderType
	}

	order, err := c.book.Create(c.ctx, c.opts.GameID, c.opts.TurnID, data)
	if err != nil {
		slog.Error("Failed to create order", "game", c.opts.GameID, "turn", c.opts.TurnID, "error", err)
		c.status = err.Error()
		return
	}

	c.selected = len(c.book.Orders()) - 1
	c.status = fmt.Sprintf("Created order %s", order.ID())
}

func (c *Console) cancelSelected() {
	if c.book.IsSubmitted() {
		c.status = "Turn already submitted"
		return
	}

	list := c.book.Orders()
	if len(list) == 0 {
		c.status = "No order selected"
		return
	}

	id := list[c.selected].ID()
	if err := c.book.Cancel(c.ctx, c.opts.GameID, c.opts.TurnID, id); err != nil {
		slog.Error("Failed to cancel order", "order", id, "error", err)
		c.status = err.Error()
		return
	}

	c.clampSelection()
	c.status = fmt.Sprintf("Cancelled order %s", id)
}

func (c *Console) submit() {
	if _, err := c.book.Submit(c.ctx, c.opts.GameID, c.opts.TurnID); err != nil {
		slog.Error("Failed to submit turn", "game", c.opts.GameID, "turn", c.opts.TurnID, "error", err)
		c.status = err.Error()
		return
	}
	c.status = "Turn submitted"
}

func (c *Console) moveSelection(delta int) {
	n := len(c.book.Orders())
	if n == 0 {
		return
	}
	c.selected = (c.selected + delta + n) % n
}

func (c *Console) clampSelection() {
	c.selected = max(0, min(c.selected, len(c.book.Orders())-1))
}

func (c *Console) title() string {
	return fmt.Sprintf("Game %s / Turn %s", c.opts.GameID, c.opts.TurnID)
}

func (c *Console) view() *backend.View {
	list := c.book.Orders()
	lines := make([]string, len(list))
	for i, o := range list {
		lines[i] = formatOrder(o)
	}

	title := c.title()
	if u := c.session.User(); u != nil {
		title += " [" + u.Username + "]"
	}

	return &backend.View{
		Title:     title,
		Orders:    lines,
		Selected:  c.selected,
		Stepper:   c.stepper,
		Focused:   c.router.Focused(),
		Status:    c.status,
		Submitted: c.book.IsSubmitted(),
		Loading:   c.book.IsLoading(),
	}
}

func formatOrder(o orders.Order) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, o.Raw); err != nil {
		return "#" + o.ID()
	}
	return "#" + o.ID() + " " + buf.String()
}
