// Package crud is the list-page pattern shared by every admin screen: load a
// collection, render it, and reconcile the local copy after each mutation the
// backend confirms.
package crud

import (
	"context"

	"github.com/cyberpit/site/pkg/api"
)

// Keyed is an entity with a backend id.
type Keyed interface {
	Key() string
}

// Lister is the one capability every endpoint group has.
type Lister[T any] interface {
	List(ctx context.Context) api.Result[[]T]
}

type Creator[T any] interface {
	Create(ctx context.Context, v T) api.Result[T]
}

// Updater sends body as a partial or full update of id.
type Updater[T any] interface {
	Update(ctx context.Context, id string, body any) api.Result[T]
}

type Deleter interface {
	Delete(ctx context.Context, id string) api.Result[api.Empty]
}

// BatchDeleter removes several ids in one call.
type BatchDeleter interface {
	DeleteMany(ctx context.Context, ids []string) api.Result[api.Empty]
}

// Clearer removes the whole collection in one call.
type Clearer interface {
	DeleteAll(ctx context.Context) api.Result[api.Empty]
}

// Capabilities reports which optional operations an endpoint group supports.
type Capabilities struct {
	Create, Update, Delete, DeleteMany, Clear bool
}

func capabilitiesOf[T any](ep Lister[T]) Capabilities {
	_, create := ep.(Creator[T])
	_, update := ep.(Updater[T])
	_, del := ep.(Deleter)
	_, many := ep.(BatchDeleter)
	_, clr := ep.(Clearer)
	return Capabilities{
		Create:     create,
		Update:     update,
		Delete:     del,
		DeleteMany: many || del,
		Clear:      clr || many || del,
	}
}
