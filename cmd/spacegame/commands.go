package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-spacegame/spacegame"
	"github.com/valerio/go-spacegame/spacegame/backend"
	"github.com/valerio/go-spacegame/spacegame/backend/headless"
	"github.com/valerio/go-spacegame/spacegame/backend/terminal"
	"github.com/valerio/go-spacegame/spacegame/gamemap"
	"github.com/valerio/go-spacegame/spacegame/orders"
	"github.com/valerio/go-spacegame/spacegame/session"
	"github.com/valerio/go-spacegame/spacegame/timing"
	"golang.org/x/term"
)

var turnFlags = []cli.Flag{
	cli.StringFlag{Name: "game, g", Usage: "Game id"},
	cli.StringFlag{Name: "turn, t", Usage: "Turn id"},
}

func loginCommand() cli.Command {
	return cli.Command{
		Name:  "login",
		Usage: "Log in and save the access token",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "username, u", Usage: "Account name"},
			cli.StringFlag{Name: "password, p", Usage: "Password (read from stdin when omitted)", EnvVar: "SPACEGAME_PASSWORD"},
		},
		Action: func(c *cli.Context) error {
			username, err := required(c, "username")
			if err != nil {
				return err
			}
			password, err := passwordFrom(c, os.Stdin)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()
			sess, err := openSession(ctx, c)
			if err != nil {
				return err
			}
			if err := sess.Login(ctx, username, password); err != nil {
				return err
			}

			greet(c.App.Writer, "Logged in", sess.User())
			return nil
		},
	}
}

func registerCommand() cli.Command {
	return cli.Command{
		Name:  "register",
		Usage: "Create an account and log in",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "username, u", Usage: "Account name"},
			cli.StringFlag{Name: "first-name", Usage: "First name"},
			cli.StringFlag{Name: "last-name", Usage: "Last name"},
			cli.StringFlag{Name: "email", Usage: "Email address"},
			cli.StringFlag{Name: "password, p", Usage: "Password (read from stdin when omitted)", EnvVar: "SPACEGAME_PASSWORD"},
		},
		Action: func(c *cli.Context) error {
			username, err := required(c, "username")
			if err != nil {
				return err
			}
			email, err := required(c, "email")
			if err != nil {
				return err
			}
			password, err := passwordFrom(c, os.Stdin)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()
			sess, err := openSession(ctx, c)
			if err != nil {
				return err
			}
			err = sess.Register(ctx, username, c.String("first-name"), c.String("last-name"), email, password)
			if err != nil {
				return err
			}

			greet(c.App.Writer, "Registered and logged in", sess.User())
			return nil
		},
	}
}

func logoutCommand() cli.Command {
	return cli.Command{
		Name:  "logout",
		Usage: "Forget the saved access token",
		Action: func(c *cli.Context) error {
			ctx, cancel := commandContext()
			defer cancel()
			sess, err := openSession(ctx, c)
			if err != nil {
				return err
			}
			sess.Logout()
			fmt.Fprintln(c.App.Writer, "Logged out")
			return nil
		},
	}
}

func whoamiCommand() cli.Command {
	return cli.Command{
		Name:  "whoami",
		Usage: "Show the logged in user",
		Action: func(c *cli.Context) error {
			ctx, cancel := commandContext()
			defer cancel()
			sess, err := requireLogin(ctx, c)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, sess.User().Raw)
		},
	}
}

func ordersCommand() cli.Command {
	return cli.Command{
		Name:  "orders",
		Usage: "List, create and cancel orders for a turn",
		Subcommands: []cli.Command{
			{
				Name:   "list",
				Usage:  "List your orders",
				Flags:  turnFlags,
				Action: withBook(listOrders),
			},
			{
				Name:  "create",
				Usage: "Place an order",
				Flags: append([]cli.Flag{
					cli.StringFlag{Name: "data, d", Usage: "Order as a JSON object"},
					cli.StringFlag{Name: "type", Usage: "Order type, when --data is not given"},
					cli.IntFlag{Name: "quantity, n", Usage: "Order quantity, when --data is not given", Value: 1},
				}, turnFlags...),
				Action: withBook(createOrder),
			},
			{
				Name:      "cancel",
				Usage:     "Cancel an order",
				ArgsUsage: "<order id>",
				Flags:     turnFlags,
				Action:    withBook(cancelOrder),
			},
		},
	}
}

func statusCommand() cli.Command {
	return cli.Command{
		Name:  "status",
		Usage: "Show who has submitted the turn",
		Flags: turnFlags,
		Action: withBook(func(t turnContext) error {
			return printJSON(t.cli.App.Writer, t.book.TurnStatus(t.ctx, t.game, t.turn))
		}),
	}
}

func submitCommand() cli.Command {
	return cli.Command{
		Name:  "submit",
		Usage: "Submit your orders for the turn",
		Flags: turnFlags,
		Action: withBook(func(t turnContext) error {
			result, err := t.book.Submit(t.ctx, t.game, t.turn)
			if err != nil {
				return err
			}
			return printJSON(t.cli.App.Writer, result)
		}),
	}
}

func mapCommand() cli.Command {
	return cli.Command{
		Name:  "map",
		Usage: "Print the galaxy map of a game",
		Flags: turnFlags[:1],
		Action: func(c *cli.Context) error {
			game, err := required(c, "game")
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			result := gamemap.NewLoader(configFromFlags(c).APIURL).Load(ctx, game)
			if result.Error != "" {
				return errors.New(result.Error)
			}
			return printJSON(c.App.Writer, result.MapData)
		},
	}
}

func playCommand() cli.Command {
	return cli.Command{
		Name:  "play",
		Usage: "Open the interactive order panel",
		Flags: append([]cli.Flag{
			cli.StringFlag{Name: "type", Usage: "Order type sent with created orders"},
			cli.IntFlag{Name: "quantity, n", Usage: "Initial order quantity", Value: 1},
			cli.IntFlag{Name: "max-quantity", Usage: "Largest order quantity", Value: 99},
			cli.BoolFlag{Name: "headless", Usage: "Print the panel once instead of opening it"},
			cli.IntFlag{Name: "frames", Usage: "Frames to run in headless mode", Value: 1},
			cli.IntFlag{Name: "snapshot-interval", Usage: "Save panel snapshots every N frames in headless mode (0 = disabled)"},
			cli.StringFlag{Name: "snapshot-dir", Usage: "Directory to save panel snapshots (default: temp directory)"},
			cli.BoolFlag{Name: "debug", Usage: "Show debug logs in the log pane"},
		}, turnFlags...),
		Action: runPanel,
	}
}

func runPanel(c *cli.Context) error {
	game, err := required(c, "game")
	if err != nil {
		return err
	}
	turn, err := required(c, "turn")
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()
	sess, err := requireLogin(ctx, c)
	if err != nil {
		return err
	}

	opts := spacegame.Options{
		GameID:      game,
		TurnID:      turn,
		OrderType:   c.String("type"),
		Quantity:    c.Int("quantity"),
		MaxQuantity: c.Int("max-quantity"),
	}

	var be backend.Backend
	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames option with a positive value")
		}
		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"))
		if err != nil {
			return err
		}
		h := headless.New(frames, nil, snapshots)
		h.SetOutput(c.App.Writer)
		be = h
		opts.Limiter = timing.NewNoOpLimiter()
	} else {
		be = terminal.New()
	}

	return spacegame.NewConsole(sess, be, opts).Run(ctx)
}

type turnContext struct {
	ctx  context.Context
	cli  *cli.Context
	book *orders.Book
	game string
	turn string
}

// withBook wraps an action that works on the orders of one turn.
func withBook(fn func(turnContext) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		game, err := required(c, "game")
		if err != nil {
			return err
		}
		turn, err := required(c, "turn")
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()
		sess, err := requireLogin(ctx, c)
		if err != nil {
			return err
		}

		return fn(turnContext{ctx: ctx, cli: c, book: orders.NewBook(sess), game: game, turn: turn})
	}
}

func listOrders(t turnContext) error {
	t.book.Load(t.ctx, t.game, t.turn)
	return printJSON(t.cli.App.Writer, t.book.Orders())
}

func createOrder(t turnContext) error {
	data, err := orderData(t.cli.String("data"), t.cli.String("type"), t.cli.Int("quantity"))
	if err != nil {
		return err
	}

	order, err := t.book.Create(t.ctx, t.game, t.turn, data)
	if err != nil {
		return err
	}
	return printJSON(t.cli.App.Writer, order)
}

func cancelOrder(t turnContext) error {
	id := t.cli.Args().First()
	if id == "" {
		return errors.New("missing order id")
	}
	if err := t.book.Cancel(t.ctx, t.game, t.turn, id); err != nil {
		return err
	}
	fmt.Fprintf(t.cli.App.Writer, "Cancelled order %s\n", id)
	return nil
}

// greet reports a successful login. The auth response may leave out the user.
func greet(w io.Writer, msg string, u *session.User) {
	if u == nil || u.Username == "" {
		fmt.Fprintln(w, msg)
		return
	}
	fmt.Fprintf(w, "%s as %s\n", msg, u.Username)
}

// orderData builds the order body from --data, or from --type and
// --quantity when --data is empty.
func orderData(raw, orderType string, quantity int) (json.RawMessage, error) {
	if raw != "" {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return nil, fmt.Errorf("--data must be a JSON object: %w", err)
		}
		return json.RawMessage(raw), nil
	}

	data := map[string]any{"quantity": quantity}
	if orderType != "" {
		data["type"] = orderType
	}
	return json.Marshal(data)
}

func required(c *cli.Context, name string) (string, error) {
	v := c.String(name)
	if v == "" {
		return "", fmt.Errorf("missing required flag --%s", name)
	}
	return v, nil
}

func passwordFrom(c *cli.Context, stdin io.Reader) (string, error) {
	if p := c.String("password"); p != "" {
		return p, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		if len(pw) == 0 {
			return "", errors.New("missing password")
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("missing password")
	}
	return line, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
