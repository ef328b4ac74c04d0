// Package backendtest runs an in-memory copy of the todo/users backend for
// tests. It records every request so tests can assert on the exact calls a
// view or command made.
package backendtest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/idilsaglam/tada/internal/model"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

type Server struct {
	*httptest.Server

	mu     sync.Mutex
	todos  []model.Item
	nextID int
	users  []model.User
	calls  []Call
	forced map[string]int
	raw    map[string]reply
}

type reply struct {
	code int
	body string
}

// New starts a server seeded with items and stops it when the test ends.
// Seeded items without an ID get one assigned.
func New(t testing.TB, seed ...model.Item) *Server {
	t.Helper()
	s := &Server{
		nextID: 1,
		forced: map[string]int{},
		raw:    map[string]reply{},
	}
	for _, it := range seed {
		if it.ID == "" {
			it.ID = model.ID(strconv.Itoa(s.nextID))
		}
		if n, err := strconv.Atoi(it.ID.String()); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
		s.todos = append(s.todos, it)
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Get("/todos/", s.handleList)
	r.Post("/todos/", s.handleCreate)
	r.Put("/todos/{id}", s.handleUpdate)
	r.Delete("/todos/{id}", s.handleDelete)
	r.Post("/users/", s.handleCreateUser)
	return r
}

// ForceStatus makes every request matching method and route (a chi pattern
// such as "/todos/{id}") answer with code and an error body.
func (s *Server) ForceStatus(method, route string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced[method+" "+route] = code
}

// ForceBody makes matching requests answer code with the given raw body.
func (s *Server) ForceBody(method, route string, code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[method+" "+route] = reply{code: code, body: body}
}

// Calls returns a copy of every request seen so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// ResetCalls forgets recorded requests.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Todos returns the current server-side list.
func (s *Server) Todos() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Item(nil), s.todos...)
}

func (s *Server) Users() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.User(nil), s.users...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := Call{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
		if r.Body != nil {
			b, _ := io.ReadAll(r.Body)
			if len(b) > 0 {
				_ = json.Unmarshal(b, &c.Body)
			}
			r.Body = io.NopCloser(bytes.NewReader(b))
		}
		s.mu.Lock()
		s.calls = append(s.calls, c)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// override answers the request if a test forced a status or body for it.
func (s *Server) override(w http.ResponseWriter, r *http.Request, route string) bool {
	key := r.Method + " " + route
	s.mu.Lock()
	code, forced := s.forced[key]
	rep, raw := s.raw[key]
	s.mu.Unlock()
	switch {
	case forced:
		writeJSON(w, code, map[string]string{"detail": http.StatusText(code)})
		return true
	case raw:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.code)
		_, _ = io.WriteString(w, rep.body)
		return true
	}
	return false
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.override(w, r, "/todos/") {
		return
	}
	items := s.Todos()
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if s.override(w, r, "/todos/") {
		return
	}
	var in struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	it := model.Item{ID: model.ID(strconv.Itoa(s.nextID)), Title: in.Title}
	s.nextID++
	s.todos = append(s.todos, it)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.override(w, r, "/todos/{id}") {
		return
	}
	var in struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	id := model.ID(chi.URLParam(r, "id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID != id {
			continue
		}
		if in.Title != nil {
			s.todos[i].Title = *in.Title
		}
		if in.Completed != nil {
			s.todos[i].Completed = *in.Completed
		}
		writeJSON(w, http.StatusOK, s.todos[i])
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Todo not found"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if s.override(w, r, "/todos/{id}") {
		return
	}
	id := model.ID(chi.URLParam(r, "id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Todo not found"})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if s.override(w, r, "/users/") {
		return
	}
	var in model.NewUser
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	u := model.User{
		ID:        model.ID(uuid.NewString()),
		Username:  in.Username,
		Email:     in.Email,
		CreatedAt: time.Now().UTC().Format(naiveTime),
	}
	s.mu.Lock()
	s.users = append(s.users, u)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, u)
}

// naiveTime matches the zone-less timestamps the real backend emits.
const naiveTime = "2006-01-02T15:04:05.000000"

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
