package tui

import (
	"context"

	"github.com/idilsaglam/tada/internal/model"
)

// Backend is the slice of api.Client the views call.
type Backend interface {
	ListTodos(ctx context.Context) ([]model.Item, error)
	CreateTodo(ctx context.Context, title string) error
	SetCompleted(ctx context.Context, id model.ID, completed bool) error
	SetTitle(ctx context.Context, id model.ID, title string) error
	DeleteTodo(ctx context.Context, id model.ID) error
	CreateUser(ctx context.Context, u model.NewUser) (*model.User, error)
}
