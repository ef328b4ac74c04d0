package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/tada/internal/backendtest"
	"github.com/idilsaglam/tada/internal/model"
)

func newClient(t *testing.T, srv *backendtest.Server) *Client {
	t.Helper()
	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	if _, err := New("ftp://example.com"); err == nil {
		t.Fatal("expected error for ftp scheme")
	}
	c, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if c.BaseURL() != DefaultBaseURL {
		t.Fatalf("BaseURL = %q", c.BaseURL())
	}
}

func TestListTodosKeepsServerOrder(t *testing.T) {
	srv := backendtest.New(t,
		model.Item{ID: "5", Title: "z"},
		model.Item{ID: "2", Title: "a", Completed: true},
	)
	items, err := newClient(t, srv).ListTodos(context.Background())
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(items) != 2 || items[0].ID != "5" || items[1].ID != "2" {
		t.Fatalf("unexpected order: %+v", items)
	}
	calls := srv.Calls()
	if len(calls) != 1 || calls[0].Method != http.MethodGet || calls[0].Path != "/todos/" {
		t.Fatalf("calls = %+v", calls)
	}
	if _, err := uuid.Parse(calls[0].Header.Get("X-Request-ID")); err != nil {
		t.Fatalf("request id not a uuid: %v", err)
	}
}

func TestListTodosEmptyIsNotNil(t *testing.T) {
	srv := backendtest.New(t)
	items, err := newClient(t, srv).ListTodos(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("items = %#v", items)
	}
}

func TestCreateTodoSendsOnlyTitle(t *testing.T) {
	srv := backendtest.New(t)
	if err := newClient(t, srv).CreateTodo(context.Background(), "buy milk"); err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	calls := srv.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %+v", calls)
	}
	c := calls[0]
	if c.Method != http.MethodPost || c.Path != "/todos/" {
		t.Fatalf("call = %s %s", c.Method, c.Path)
	}
	if len(c.Body) != 1 || c.Body["title"] != "buy milk" {
		t.Fatalf("body = %v", c.Body)
	}
	if ct := c.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q", ct)
	}
}

func TestSetCompletedAndDelete(t *testing.T) {
	srv := backendtest.New(t, model.Item{ID: "3", Title: "x"})
	c := newClient(t, srv)
	ctx := context.Background()

	if err := c.SetCompleted(ctx, "3", true); err != nil {
		t.Fatalf("SetCompleted: %v", err)
	}
	if got := srv.Todos(); !got[0].Completed {
		t.Fatalf("server item not completed: %+v", got)
	}
	if err := c.DeleteTodo(ctx, "3"); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	if got := srv.Todos(); len(got) != 0 {
		t.Fatalf("item not deleted: %+v", got)
	}

	calls := srv.Calls()
	if calls[0].Method != http.MethodPut || calls[0].Path != "/todos/3" || calls[0].Body["completed"] != true {
		t.Fatalf("put call = %+v", calls[0])
	}
	if calls[1].Method != http.MethodDelete || calls[1].Path != "/todos/3" {
		t.Fatalf("delete call = %+v", calls[1])
	}
}

func TestStatusError(t *testing.T) {
	srv := backendtest.New(t)
	err := newClient(t, srv).DeleteTodo(context.Background(), "99")
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("err = %v, want 404", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Path != "/todos/99" {
		t.Fatalf("status error = %#v", se)
	}
}

func TestCreateUser(t *testing.T) {
	srv := backendtest.New(t)
	u, err := newClient(t, srv).CreateUser(context.Background(), model.NewUserFor("ada", "ada@example.com"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Username != "ada" || u.ID == "" || u.CreatedAt == "" {
		t.Fatalf("user = %+v", u)
	}
	body := srv.Calls()[0].Body
	if body["password"] != model.PlaceholderPassword || body["email"] != "ada@example.com" {
		t.Fatalf("body = %v", body)
	}
}

func TestCreateUserFailures(t *testing.T) {
	srv := backendtest.New(t)
	srv.ForceStatus(http.MethodPost, "/users/", http.StatusInternalServerError)
	c := newClient(t, srv)
	if _, err := c.CreateUser(context.Background(), model.NewUserFor("a", "b")); !IsStatus(err, 500) {
		t.Fatalf("err = %v, want 500", err)
	}

	srv2 := backendtest.New(t)
	srv2.ForceBody(http.MethodPost, "/users/", http.StatusCreated, "not json")
	if _, err := newClient(t, srv2).CreateUser(context.Background(), model.NewUserFor("a", "b")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCreateUserAcceptsAnyJSON(t *testing.T) {
	cases := []struct {
		name, body string
		wantID     model.ID
		wantAt     string
	}{
		{"numeric id naive time", `{"id":7,"username":"ada","email":"a@b","created_at":"2024-05-01T12:00:00.123456"}`, "7", "2024-05-01T12:00:00.123456"},
		{"string id", `{"id":"3fa85f64-5717-4562-b3fc-2c963f66afa6","username":"ada"}`, "3fa85f64-5717-4562-b3fc-2c963f66afa6", ""},
		{"unrelated object", `{"ok":true}`, "", ""},
		{"odd shape", `["ada"]`, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := backendtest.New(t)
			srv.ForceBody(http.MethodPost, "/users/", http.StatusCreated, tc.body)
			u, err := newClient(t, srv).CreateUser(context.Background(), model.NewUserFor("ada", "a@b"))
			if err != nil {
				t.Fatalf("CreateUser: %v", err)
			}
			if u.ID != tc.wantID || u.CreatedAt != tc.wantAt {
				t.Fatalf("user = %+v", u)
			}
		})
	}
}

func TestSetTitle(t *testing.T) {
	srv := backendtest.New(t, model.Item{ID: "4", Title: "old", Completed: true})
	if err := newClient(t, srv).SetTitle(context.Background(), "4", "new"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	c := srv.Calls()[0]
	if c.Method != http.MethodPut || c.Path != "/todos/4" || len(c.Body) != 1 || c.Body["title"] != "new" {
		t.Fatalf("call = %+v", c)
	}
	if got := srv.Todos()[0]; got.Title != "new" || !got.Completed {
		t.Fatalf("server item = %+v", got)
	}
}

type recordingTransport struct {
	n    int
	next http.RoundTripper
}

func (rt *recordingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	rt.n++
	return rt.next.RoundTrip(r)
}

func TestWithHTTPClient(t *testing.T) {
	srv := backendtest.New(t)
	rt := &recordingTransport{next: http.DefaultTransport}
	hc := &http.Client{Transport: rt}
	c, err := New(srv.URL, WithHTTPClient(hc), WithTimeout(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListTodos(context.Background()); err != nil {
		t.Fatal(err)
	}
	if rt.n != 1 {
		t.Fatalf("transport saw %d requests, want 1", rt.n)
	}
	if hc.Timeout != 0 || c.http.Timeout != time.Second {
		t.Fatalf("timeouts: caller %v, client %v", hc.Timeout, c.http.Timeout)
	}
}

func TestContextCancel(t *testing.T) {
	srv := backendtest.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newClient(t, srv).ListTodos(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestWithTimeout(t *testing.T) {
	c, err := New("http://localhost:1", WithTimeout(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if c.http.Timeout != time.Second {
		t.Fatalf("timeout = %v", c.http.Timeout)
	}
	if http.DefaultClient.Timeout != 0 {
		t.Fatal("default client mutated")
	}
}
