package actor

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("actor not found")

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Actor, error)
	GetByEmail(ctx context.Context, email string) (*Actor, error)
	List(ctx context.Context) ([]*Actor, error)
	Create(ctx context.Context, a *Actor) (*Actor, error)
	Delete(ctx context.Context, id uint) (bool, error)
}
