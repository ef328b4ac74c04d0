package tui

import (
	"net/http"
	"strings"
	"testing"

	"github.com/idilsaglam/tada/internal/backendtest"
	"github.com/idilsaglam/tada/internal/model"
)

func fillAndSubmit(t *testing.T, a App, username, email string) App {
	t.Helper()
	a.signup.inputs[fieldUsername].SetValue(username)
	a.signup.inputs[fieldEmail].SetValue(email)
	a, _ = update(t, a, keyEnter) // next field
	if a.signup.focus != fieldEmail {
		t.Fatalf("focus = %d after enter on username", a.signup.focus)
	}
	a, cmd := update(t, a, keyEnter)
	if cmd == nil {
		return a
	}
	return settle(t, a, cmd)
}

func TestUserFormCreated(t *testing.T) {
	srv := backendtest.New(t)
	a := newTestApp(t, srv, ScreenSignup)
	if a.Init() == nil {
		t.Fatal("signup screen should focus its first field")
	}

	a = fillAndSubmit(t, a, "ada", "ada@example.com")

	v := a.View()
	if !strings.Contains(v, AckUserCreated) || strings.Contains(v, AckUserFailed) {
		t.Fatalf("view:\n%s", v)
	}
	calls := srv.Calls()
	if len(calls) != 1 || calls[0].Method != http.MethodPost || calls[0].Path != "/users/" {
		t.Fatalf("calls = %v", paths(calls))
	}
	body := calls[0].Body
	if body["username"] != "ada" || body["email"] != "ada@example.com" || body["password"] != model.PlaceholderPassword {
		t.Fatalf("body = %v", body)
	}
	// Fields stay filled in after success.
	if a.signup.inputs[fieldUsername].Value() != "ada" || a.signup.inputs[fieldEmail].Value() != "ada@example.com" {
		t.Fatal("fields were reset")
	}
	if len(srv.Users()) != 1 {
		t.Fatalf("users = %+v", srv.Users())
	}
}

func TestUserFormServerError(t *testing.T) {
	srv := backendtest.New(t)
	srv.ForceStatus(http.MethodPost, "/users/", http.StatusInternalServerError)
	a := newTestApp(t, srv, ScreenSignup)

	a = fillAndSubmit(t, a, "ada", "ada@example.com")

	v := a.View()
	if !strings.Contains(v, AckUserFailed) || strings.Contains(v, AckUserCreated) {
		t.Fatalf("view:\n%s", v)
	}
}

func TestUserFormMalformedBodyIsFailure(t *testing.T) {
	srv := backendtest.New(t)
	srv.ForceBody(http.MethodPost, "/users/", http.StatusCreated, "<html>")
	a := newTestApp(t, srv, ScreenSignup)

	a = fillAndSubmit(t, a, "ada", "ada@example.com")
	if a.signup.status != formFailed {
		t.Fatalf("status = %d", a.signup.status)
	}
}

func TestUserFormAcceptsNaiveTimestampAndNumericID(t *testing.T) {
	srv := backendtest.New(t)
	srv.ForceBody(http.MethodPost, "/users/", http.StatusCreated,
		`{"id":7,"username":"ada","email":"ada@example.com","created_at":"2024-05-01T12:00:00.123456"}`)
	a := newTestApp(t, srv, ScreenSignup)

	a = fillAndSubmit(t, a, "ada", "ada@example.com")
	if a.signup.status != formCreated {
		t.Fatalf("status = %d", a.signup.status)
	}
	if v := a.View(); !strings.Contains(v, AckUserCreated) {
		t.Fatalf("view:\n%s", v)
	}
}

func TestUserFormRequiresFields(t *testing.T) {
	srv := backendtest.New(t)
	a := newTestApp(t, srv, ScreenSignup)

	a = fillAndSubmit(t, a, "ada", "  ")
	if a.signup.status != formInvalid {
		t.Fatalf("status = %d", a.signup.status)
	}
	if len(srv.Calls()) != 0 {
		t.Fatalf("calls = %v", paths(srv.Calls()))
	}
}

func TestScreenSwitching(t *testing.T) {
	srv := backendtest.New(t)
	a := newTestApp(t, srv, ScreenSignup)

	// Leaving the form loads the list the first time only.
	a, cmd := update(t, a, keyEsc)
	if a.screen != ScreenTodos || cmd == nil {
		t.Fatal("esc did not switch to todos with a load")
	}
	a = settle(t, a, cmd)

	a, _ = update(t, a, runeKey('u'))
	if a.screen != ScreenSignup {
		t.Fatal("u did not open the user form")
	}
	a, cmd = update(t, a, keyEsc)
	if cmd != nil {
		t.Fatal("list reloaded on second visit")
	}
	if got := paths(srv.Calls()); len(got) != 1 || got[0] != "GET /todos/" {
		t.Fatalf("calls = %v", got)
	}
}
