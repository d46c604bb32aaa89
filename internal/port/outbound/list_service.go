package outbound

import (
	"context"

	"vittlify/internal/domain/entity"
)

// ListService defines the outbound port for the remote list backend. Every call
// is one authenticated round trip; failures are *domain.Error values.
type ListService interface {
	AllLists(ctx context.Context) ([]entity.Record, error)
	ListInfo(ctx context.Context, guid string) (*entity.Record, error)
	// ListItems returns the items of a list; unfinished restricts it to items not yet done.
	ListItems(ctx context.Context, guid string, unfinished bool) ([]entity.Record, error)
	Completed(ctx context.Context) ([]entity.Record, error)
	Item(ctx context.Context, guid string) (*entity.Record, error)
	SetDone(ctx context.Context, guid string, done bool) (*entity.Record, error)
	Modify(ctx context.Context, guid, comments string) (*entity.Record, error)
	AddItem(ctx context.Context, listGUID, name, comments string) (*entity.Record, error)
	Move(ctx context.Context, guid, toListGUID string) error
	Categorize(ctx context.Context, guid, categoryName string) error
	Categories(ctx context.Context, listGUID string) ([]entity.Category, error)
}
