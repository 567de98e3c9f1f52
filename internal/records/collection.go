package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/marketdesk/pkg/enums"
	"github.com/angelmondragon/marketdesk/pkg/recordstore"
)

// Store is the record store surface the collections need.
type Store interface {
	List(ctx context.Context, appID string) ([]recordstore.Record, error)
	Get(ctx context.Context, appID, recordID string) (*recordstore.Record, error)
	Create(ctx context.Context, appID string, fields any) (*recordstore.Record, error)
	Update(ctx context.Context, appID, recordID string, fields any) (*recordstore.Record, error)
	Delete(ctx context.Context, appID, recordID string) error
}

// Handle is the untyped CRUD view of a collection used by the HTTP layer.
type Handle interface {
	Entity() enums.Entity
	AppID() string
	ListRecords(ctx context.Context) (any, error)
	GetRecord(ctx context.Context, recordID string) (any, error)
	CreateRecord(ctx context.Context, patch map[string]any) (any, error)
	UpdateRecord(ctx context.Context, recordID string, patch map[string]any) (any, error)
	DeleteRecord(ctx context.Context, recordID string) error
}

// Collection reads and writes one entity stored under a fixed app id.
type Collection[F any] struct {
	store  Store
	entity enums.Entity
	appID  string
}

// NewCollection binds entity to appID on store.
func NewCollection[F any](store Store, entity enums.Entity, appID string) (*Collection[F], error) {
	if store == nil {
		return nil, fmt.Errorf("record store required")
	}
	if !entity.IsValid() {
		return nil, fmt.Errorf("invalid entity %q", entity)
	}
	if strings.TrimSpace(appID) == "" {
		return nil, fmt.Errorf("app id required for %s", entity)
	}
	return &Collection[F]{store: store, entity: entity, appID: appID}, nil
}

func (c *Collection[F]) Entity() enums.Entity { return c.entity }

func (c *Collection[F]) AppID() string { return c.appID }

// List returns all records in store order.
func (c *Collection[F]) List(ctx context.Context) ([]Record[F], error) {
	raws, err := c.store.List(ctx, c.appID)
	if err != nil {
		return nil, err
	}
	return decodeAll[F](raws)
}

func (c *Collection[F]) Get(ctx context.Context, recordID string) (Record[F], error) {
	raw, err := c.store.Get(ctx, c.appID, recordID)
	if err != nil {
		return Record[F]{}, err
	}
	return decode[F](*raw)
}

// Create validates patch against the entity fields and stores it.
func (c *Collection[F]) Create(ctx context.Context, patch map[string]any) (Record[F], error) {
	clean, err := SanitizePatch(c.entity, patch)
	if err != nil {
		return Record[F]{}, err
	}
	raw, err := c.store.Create(ctx, c.appID, clean)
	if err != nil {
		return Record[F]{}, err
	}
	return decode[F](*raw)
}

// Update applies a validated partial patch.
func (c *Collection[F]) Update(ctx context.Context, recordID string, patch map[string]any) (Record[F], error) {
	clean, err := SanitizePatch(c.entity, patch)
	if err != nil {
		return Record[F]{}, err
	}
	raw, err := c.store.Update(ctx, c.appID, recordID, clean)
	if err != nil {
		return Record[F]{}, err
	}
	return decode[F](*raw)
}

func (c *Collection[F]) Delete(ctx context.Context, recordID string) error {
	return c.store.Delete(ctx, c.appID, recordID)
}

func (c *Collection[F]) ListRecords(ctx context.Context) (any, error) {
	return c.List(ctx)
}

func (c *Collection[F]) GetRecord(ctx context.Context, recordID string) (any, error) {
	return c.Get(ctx, recordID)
}

func (c *Collection[F]) CreateRecord(ctx context.Context, patch map[string]any) (any, error) {
	return c.Create(ctx, patch)
}

func (c *Collection[F]) UpdateRecord(ctx context.Context, recordID string, patch map[string]any) (any, error) {
	return c.Update(ctx, recordID, patch)
}

func (c *Collection[F]) DeleteRecord(ctx context.Context, recordID string) error {
	return c.Delete(ctx, recordID)
}
