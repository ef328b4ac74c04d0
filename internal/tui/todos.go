package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/reload"
	"github.com/idilsaglam/tada/internal/ui"
)

// listLoadedMsg carries the result of one reload.
type listLoadedMsg struct {
	token reload.Token
	items []model.Item
	err   error
}

// mutatedMsg reports that a create, edit, toggle or delete call returned.
type mutatedMsg struct {
	op  string
	err error
}

var (
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind = key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "toggle"))
	deleteBind = key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete"))
	reloadBind = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	signupBind = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "new user"))
)

// todoView shows the server's list. It never edits items locally: every
// mutation is followed by a full reload and the reload result replaces
// whatever was on screen.
type todoView struct {
	backend Backend
	log     *slog.Logger
	slot    *reload.Slot

	list   list.Model
	items  []model.Item
	loaded bool

	// Inline add and edit share the draft input.
	adding  bool
	editing bool
	editID  model.ID
	draft   textinput.Model
}

func newTodoView(b Backend, log *slog.Logger) todoView {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Help
	l.Styles.PaginationStyle = ui.Current().Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{addBind, editBind, toggleBind, deleteBind, reloadBind, signupBind}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Add a new todo"
	ti.CharLimit = 200

	v := todoView{
		backend: b,
		log:     log,
		slot:    &reload.Slot{},
		list:    l,
		draft:   ti,
	}
	v.list.Title = v.title()
	return v
}

// reload starts a fresh read of the collection, superseding any read still
// in flight.
func (v todoView) reload() tea.Cmd {
	ctx, tok := v.slot.Begin(context.Background())
	b := v.backend
	return func() tea.Msg {
		items, err := b.ListTodos(ctx)
		return listLoadedMsg{token: tok, items: items, err: err}
	}
}

func (v todoView) add(title string) tea.Cmd {
	b := v.backend
	return func() tea.Msg {
		return mutatedMsg{op: "add", err: b.CreateTodo(context.Background(), title)}
	}
}

func (v todoView) edit(id model.ID, title string) tea.Cmd {
	b := v.backend
	return func() tea.Msg {
		return mutatedMsg{op: "edit", err: b.SetTitle(context.Background(), id, title)}
	}
}

func (v todoView) toggle(it model.Item) tea.Cmd {
	b := v.backend
	return func() tea.Msg {
		return mutatedMsg{op: "toggle", err: b.SetCompleted(context.Background(), it.ID, !it.Completed)}
	}
}

func (v todoView) remove(it model.Item) tea.Cmd {
	b := v.backend
	return func() tea.Msg {
		return mutatedMsg{op: "delete", err: b.DeleteTodo(context.Background(), it.ID)}
	}
}

func (v todoView) selected() (model.Item, bool) {
	it, ok := v.list.SelectedItem().(listItem)
	return it.Item, ok
}

// capturesKeys reports whether key presses belong to an input (the add or
// edit box, or the list filter) rather than to the view's own bindings.
func (v todoView) capturesKeys() bool {
	return v.inputOpen() || v.list.FilterState() == list.Filtering
}

func (v todoView) inputOpen() bool { return v.adding || v.editing }

func (v *todoView) closeInput() {
	v.adding, v.editing = false, false
	v.editID = ""
	v.draft.SetValue("")
	v.draft.Blur()
}

func (v todoView) Update(msg tea.Msg) (todoView, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		if !v.slot.Current(msg.token) {
			v.log.Debug("dropping superseded reload", "token", msg.token)
			return v, nil
		}
		v.slot.Done(msg.token)
		if msg.err != nil {
			v.log.Warn("load todos", "error", msg.err)
			return v, nil
		}
		v.items = msg.items
		v.list.Title = v.title()
		cmd := v.list.SetItems(toListItems(msg.items))
		return v, cmd

	case mutatedMsg:
		if msg.err != nil {
			v.log.Warn(msg.op+" todo", "error", msg.err)
		}
		if msg.op == "add" {
			v.draft.SetValue("")
		}
		return v, v.reload()
	}

	if v.inputOpen() {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter":
				title := strings.TrimSpace(v.draft.Value())
				if title == "" {
					return v, nil
				}
				if v.editing {
					id := v.editID
					v.closeInput()
					return v, v.edit(id, title)
				}
				return v, v.add(title)
			case "esc":
				v.closeInput()
				return v, nil
			}
		}
		var cmd tea.Cmd
		v.draft, cmd = v.draft.Update(msg)
		return v, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok && v.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(k, addBind):
			v.adding = true
			v.draft.SetValue("")
			cmd := v.draft.Focus()
			return v, cmd
		case key.Matches(k, editBind):
			it, ok := v.selected()
			if !ok {
				return v, nil
			}
			v.editing, v.editID = true, it.ID
			v.draft.SetValue(it.Title)
			v.draft.CursorEnd()
			cmd := v.draft.Focus()
			return v, cmd
		case key.Matches(k, toggleBind):
			if it, ok := v.selected(); ok {
				return v, v.toggle(it)
			}
			return v, nil
		case key.Matches(k, deleteBind):
			if it, ok := v.selected(); ok {
				return v, v.remove(it)
			}
			return v, nil
		case key.Matches(k, reloadBind):
			return v, v.reload()
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *todoView) SetSize(w, h int) {
	if v.inputOpen() {
		h -= 4
	}
	v.list.SetSize(w, h)
}

func (v todoView) View() string {
	content := v.list.View()
	if v.inputOpen() {
		label := "Add new item"
		if v.editing {
			label = "Edit item"
		}
		box := ui.Panel(ui.Current().Accent.Render(label) + "\n" + v.draft.View())
		content += "\n" + box
	}
	return content
}

// title is the list header with live counts.
func (v todoView) title() string {
	t := ui.Current()
	done, pending := model.Stats(v.items)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), len(v.items),
	)
}
