package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

// Options carry root flags and the process environment.
type Options struct {
	Group bool // list grouped by pending/done

	Server         string // overrides config and TADA_SERVER
	Theme          string
	ConfigPath     string
	ConfigRequired bool // ConfigPath was named explicitly

	Out, Err io.Writer
	Getenv   func(string) string
}

func (o Options) withDefaults() Options {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	return o
}

// env is what every subcommand runs against.
type env struct {
	opt    Options
	cfg    config.Config
	cfgSrc string
	client *api.Client
	log    *slog.Logger
}

func (e *env) ok(msg string)   { ui.OK(e.opt.Out, msg) }
func (e *env) fail(msg string) { ui.Fail(e.opt.Err, msg) }

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// With no subcommand it opens the interactive list.
func Run(args []string, opt Options) int {
	opt = opt.withDefaults()
	cmd, a := "ui", []string(nil)
	if len(args) > 0 {
		cmd, a = args[0], args[1:]
	}
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		PrintHelp(opt.Out)
		return 0
	}

	e, closeLog, err := setup(opt)
	if err != nil {
		ui.Fail(opt.Err, err.Error())
		return 1
	}
	defer closeLog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case "ui":
		return e.doTUI(tui.ScreenTodos)

	case "signup":
		return e.doTUI(tui.ScreenSignup)

	case "ls":
		return e.doList(ctx)

	case "add":
		if len(a) == 0 {
			e.fail("usage: todo add <title...>")
			return 2
		}
		return e.doAdd(ctx, strings.Join(a, " "))

	case "edit":
		if len(a) < 2 {
			e.fail("usage: todo edit <index> <title...>")
			return 2
		}
		n, code := e.indexArg("edit", a[:1])
		if code != 0 {
			return code
		}
		return e.doEdit(ctx, n, strings.Join(a[1:], " "))

	case "done":
		n, code := e.indexArg("done", a)
		if code != 0 {
			return code
		}
		return e.doToggle(ctx, n)

	case "rm":
		n, code := e.indexArg("rm", a)
		if code != 0 {
			return code
		}
		return e.doRemove(ctx, n)

	case "user":
		if len(a) != 2 {
			e.fail("usage: todo user <username> <email>")
			return 2
		}
		return e.doCreateUser(ctx, a[0], a[1])

	case "config":
		if len(a) == 1 && a[0] == "init" {
			return e.doConfigInit()
		}
		if len(a) != 0 {
			e.fail("usage: todo config [init]")
			return 2
		}
		return e.doConfigShow()
	}

	e.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `todo - a tiny client for the todo backend

Usage:
  todo [flags] [subcommand] [args]

Subcommands:
  ui                       Interactive list (default)
  ls                       List items
  add <title...>           Add a new item (title can be multiple words)
  edit <index> <title...>  Rename item at 1-based index
  done <index>             Toggle done for item at 1-based index
  rm <index>               Remove item at 1-based index
  user <username> <email>  Create a user account
  signup                   Interactive user form
  config [init]            Show effective config, or write it to the config file

Flags:
  --server URL   backend base URL (env TADA_SERVER, default %s)
  --config PATH  config file (default ~/.tada/config.yaml)
  --theme NAME   classic | neon | mono (env TADA_THEME)
  --group        group ls output by pending/done

Examples:
  todo add "Buy milk"
  todo ls
  todo edit 1 "Buy oat milk"
  todo done 2
  todo rm 3
  todo user ada ada@example.com
`, api.DefaultBaseURL)
}

// setup resolves config (defaults < file < env < flags), the logger and the
// API client.
func setup(opt Options) (*env, io.Closer, error) {
	path := opt.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	cfg, err := config.Load(path, opt.ConfigRequired)
	if err != nil {
		return nil, nil, err
	}
	if cfg, err = cfg.ApplyEnv(opt.Getenv); err != nil {
		return nil, nil, err
	}
	if opt.Server != "" {
		cfg.Server = strings.TrimRight(opt.Server, "/")
	}
	if opt.Theme != "" {
		cfg.Theme = opt.Theme
	}
	ui.SetTheme(cfg.Theme)

	log, closer, err := logging.Open(cfg.LogFile, slog.LevelDebug)
	if err != nil {
		return nil, nil, err
	}
	client, err := api.New(cfg.Server, api.WithTimeout(cfg.Timeout), api.WithLogger(log))
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return &env{opt: opt, cfg: cfg, cfgSrc: path, client: client, log: log}, closer, nil
}

func (e *env) indexArg(cmd string, a []string) (int, int) {
	if len(a) != 1 {
		e.fail("usage: todo " + cmd + " <index>")
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		e.fail(cmd + ": not a number: " + a[0])
		return 0, 2
	}
	return n, 0
}

// -------------- subcommand impls ----------------

func (e *env) doTUI(start tui.Screen) int {
	if err := tui.Run(e.client, tui.Options{Start: start, Logger: e.log}); err != nil {
		e.fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (e *env) doList(ctx context.Context) int {
	items, err := e.client.ListTodos(ctx)
	if err != nil {
		e.fail("load: " + err.Error())
		return 1
	}
	t := ui.Current()

	// Header + progress
	d, p := model.Stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if e.opt.Group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items, 1)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	ui.PrintPanel(e.opt.Out, lines)
	return 0
}

func (e *env) doAdd(ctx context.Context, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		e.fail("add: empty title")
		return 2
	}
	if err := e.client.CreateTodo(ctx, title); err != nil {
		e.fail("add: " + err.Error())
		return 1
	}
	e.ok("added")
	return 0
}

// pick re-reads the list and resolves a 1-based index against it.
func (e *env) pick(ctx context.Context, userIndex int) (model.Item, int) {
	items, err := e.client.ListTodos(ctx)
	if err != nil {
		e.fail("load: " + err.Error())
		return model.Item{}, 1
	}
	if userIndex < 1 || userIndex > len(items) {
		e.fail(fmt.Sprintf("index out of range: have %d, got %d", len(items), userIndex))
		fmt.Fprintln(e.opt.Err, ui.Current().Muted.Render("Hint: run `todo ls` to see valid indexes"))
		return model.Item{}, 2
	}
	return items[userIndex-1], 0
}

func (e *env) doEdit(ctx context.Context, userIndex int, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		e.fail("edit: empty title")
		return 2
	}
	it, code := e.pick(ctx, userIndex)
	if code != 0 {
		return code
	}
	if err := e.client.SetTitle(ctx, it.ID, title); err != nil {
		e.fail("edit: " + err.Error())
		return 1
	}
	e.ok("edited")
	return 0
}

func (e *env) doToggle(ctx context.Context, userIndex int) int {
	it, code := e.pick(ctx, userIndex)
	if code != 0 {
		return code
	}
	if err := e.client.SetCompleted(ctx, it.ID, !it.Completed); err != nil {
		e.fail("done: " + err.Error())
		return 1
	}
	e.ok("toggled")
	return 0
}

func (e *env) doRemove(ctx context.Context, userIndex int) int {
	it, code := e.pick(ctx, userIndex)
	if code != 0 {
		return code
	}
	if err := e.client.DeleteTodo(ctx, it.ID); err != nil {
		e.fail("rm: " + err.Error())
		return 1
	}
	e.ok("removed")
	return 0
}

func (e *env) doCreateUser(ctx context.Context, username, email string) int {
	u := model.NewUserFor(username, email)
	if err := u.Validate(); err != nil {
		e.fail("user: " + err.Error())
		return 2
	}
	created, err := e.client.CreateUser(ctx, u)
	if err != nil {
		e.log.Warn("create user", "error", err)
		e.fail(tui.AckUserFailed + " " + err.Error())
		return 1
	}
	e.log.Info("user created", "id", created.ID, "username", created.Username, "email", created.Email)
	e.ok(tui.AckUserCreated)
	fmt.Fprintln(e.opt.Out, ui.Current().Muted.Render(fmt.Sprintf("id %s  %s <%s>", created.ID, created.Username, created.Email)))
	return 0
}

func (e *env) doConfigShow() int {
	out, err := e.cfg.Marshal()
	if err != nil {
		e.fail(err.Error())
		return 1
	}
	fmt.Fprintln(e.opt.Out, ui.Current().Muted.Render("# "+e.cfgSrc))
	fmt.Fprint(e.opt.Out, out)
	return 0
}

func (e *env) doConfigInit() int {
	if err := config.Save(e.cfgSrc, e.cfg); err != nil {
		e.fail("config: " + err.Error())
		return 1
	}
	e.ok("wrote " + e.cfgSrc)
	return 0
}

// -------------- rendering helpers --------------

// flatLines numbers items from start so grouped output keeps list indexes.
func flatLines(items []model.Item, start int) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", start+i)
		box := t.Muted.Render(t.BoxUnchecked)
		title := ansi.Truncate(it.Title, 80, "...")
		if it.Completed {
			box = t.Success.Render(t.BoxChecked)
			title = t.Done.Render(title)
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(idx), box, title))
	}
	return out
}

// groupLines splits pending from done. Indexes still refer to the server
// order so `todo done N` works with either view.
func groupLines(items []model.Item) []string {
	t := ui.Current()
	var pend, done []string
	for i, it := range items {
		line := flatLines([]model.Item{it}, i+1)[0]
		if it.Completed {
			done = append(done, line)
		} else {
			pend = append(pend, line)
		}
	}
	section := func(name string, rows []string) []string {
		out := []string{t.Accent.Render(name)}
		if len(rows) == 0 {
			return append(out, t.Muted.Render("(none)"))
		}
		return append(out, rows...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
