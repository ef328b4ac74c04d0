package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

// Acknowledgments shown after a create-user call.
const (
	AckUserCreated = "User created successfully!"
	AckUserFailed  = "Error creating user."
)

type formStatus int

const (
	formIdle formStatus = iota
	formInvalid
	formPending
	formCreated
	formFailed
)

type userCreatedMsg struct {
	user *model.User
	err  error
}

const (
	fieldUsername = iota
	fieldEmail
	fieldCount
)

// userForm creates an account from a username and an email. Field values are
// kept after a successful submit.
type userForm struct {
	backend Backend
	log     *slog.Logger

	inputs [fieldCount]textinput.Model
	focus  int
	status formStatus
	detail string
}

func newUserForm(b Backend, log *slog.Logger) userForm {
	f := userForm{backend: b, log: log}
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 120
		f.inputs[i] = ti
	}
	f.inputs[fieldUsername].Prompt = "Username: "
	f.inputs[fieldUsername].Placeholder = "ada"
	f.inputs[fieldEmail].Prompt = "Email:    "
	f.inputs[fieldEmail].Placeholder = "ada@example.com"
	f.inputs[fieldUsername].Focus()
	return f
}

func (f *userForm) focusCmd() tea.Cmd {
	return f.inputs[f.focus].Focus()
}

func (f *userForm) moveFocus(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f userForm) submit() (userForm, tea.Cmd) {
	u := model.NewUserFor(f.inputs[fieldUsername].Value(), f.inputs[fieldEmail].Value())
	if err := u.Validate(); err != nil {
		f.status, f.detail = formInvalid, err.Error()
		return f, nil
	}
	f.status, f.detail = formPending, ""
	b := f.backend
	return f, func() tea.Msg {
		created, err := b.CreateUser(context.Background(), u)
		return userCreatedMsg{user: created, err: err}
	}
}

func (f userForm) Update(msg tea.Msg) (userForm, tea.Cmd) {
	switch msg := msg.(type) {
	case userCreatedMsg:
		if msg.err != nil {
			f.log.Warn("create user", "error", msg.err)
			f.status = formFailed
			return f, nil
		}
		f.log.Info("user created",
			"id", msg.user.ID, "username", msg.user.Username,
			"email", msg.user.Email, "created_at", msg.user.CreatedAt)
		f.status = formCreated
		return f, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			cmd := f.moveFocus(1)
			return f, cmd
		case "shift+tab", "up":
			cmd := f.moveFocus(-1)
			return f, cmd
		case "enter":
			if f.focus < fieldCount-1 {
				cmd := f.moveFocus(1)
				return f, cmd
			}
			return f.submit()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f userForm) View() string {
	t := ui.Current()
	var b strings.Builder
	b.WriteString(t.Accent.Render("Create user") + "\n\n")
	for i := range f.inputs {
		b.WriteString(f.inputs[i].View() + "\n")
	}
	b.WriteString("\n")
	switch f.status {
	case formInvalid:
		b.WriteString(t.Error.Render(f.detail))
	case formPending:
		b.WriteString(t.Muted.Render("Creating..."))
	case formCreated:
		b.WriteString(t.Success.Render(t.SymDone + " " + AckUserCreated))
	case formFailed:
		b.WriteString(t.Error.Render("✖ " + AckUserFailed))
	}
	b.WriteString("\n\n" + t.Help.Render("tab next field • enter submit • esc back to todos"))
	return ui.Panel(b.String())
}
