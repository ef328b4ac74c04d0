// Package tui is the interactive client: a page shell around the todo list,
// plus a form for creating user accounts.
package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/ui"
)

type Screen int

const (
	ScreenTodos Screen = iota
	ScreenSignup
)

type Options struct {
	Start  Screen
	Logger *slog.Logger
}

// App switches between the todo view and the user form.
type App struct {
	screen Screen
	todos  todoView
	signup userForm

	width, height int
}

func New(b Backend, opt Options) App {
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := App{
		screen: opt.Start,
		todos:  newTodoView(b, log),
		signup: newUserForm(b, log),
		width:  80,
		height: 24,
	}
	if a.screen == ScreenTodos {
		a.todos.loaded = true
	}
	a.resize()
	return a
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(b Backend, opt Options) error {
	m := New(b, opt)
	defer m.todos.slot.Stop()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Init loads the list when the todo view is the first thing rendered.
func (a App) Init() tea.Cmd {
	if a.screen == ScreenTodos {
		return a.todos.reload()
	}
	return a.signup.focusCmd()
}

func (a *App) showTodos() tea.Cmd {
	a.screen = ScreenTodos
	if a.todos.loaded {
		return nil
	}
	a.todos.loaded = true
	return a.todos.reload()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.screen {
		case ScreenTodos:
			if !a.todos.capturesKeys() {
				switch {
				case msg.String() == "q":
					return a, tea.Quit
				case msg.String() == "u":
					a.screen = ScreenSignup
					cmd = a.signup.focusCmd()
					return a, cmd
				}
			}
		case ScreenSignup:
			if msg.String() == "esc" {
				cmd = a.showTodos()
				return a, cmd
			}
		}

	// Results are routed by type so that a reply landing while the other
	// screen is showing still updates its owner.
	case listLoadedMsg, mutatedMsg:
		a.todos, cmd = a.todos.Update(msg)
		a.resize()
		return a, cmd
	case userCreatedMsg:
		a.signup, cmd = a.signup.Update(msg)
		return a, cmd
	}

	switch a.screen {
	case ScreenSignup:
		a.signup, cmd = a.signup.Update(msg)
	default:
		a.todos, cmd = a.todos.Update(msg)
		a.resize()
	}
	return a, cmd
}

func (a *App) resize() {
	// border + padding on each side, plus the header block
	a.todos.SetSize(a.width-4, a.height-lipgloss.Height(header())-3)
}

func (a App) View() string {
	body := a.todos.View()
	if a.screen == ScreenSignup {
		body = a.signup.View()
	}
	return ui.Panel(header() + "\n\n" + body)
}

// header is the static page shell.
func header() string {
	t := ui.Current()
	return t.Title.Render("📝 Todo App") + "\n" +
		t.Subtitle.Render("Manage your tasks quickly and efficiently")
}
