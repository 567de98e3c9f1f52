package records

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/marketdesk/pkg/enums"
	"github.com/angelmondragon/marketdesk/pkg/recordstore"
)

// AppIDs maps each entity to its record-store collection.
type AppIDs struct {
	Categories string
	Sellers    string
	Products   string
	Orders     string
}

// For returns the app id bound to entity, or "" for unknown entities.
func (a AppIDs) For(entity enums.Entity) string {
	switch entity {
	case enums.EntityCategories:
		return a.Categories
	case enums.EntitySellers:
		return a.Sellers
	case enums.EntityProducts:
		return a.Products
	case enums.EntityOrders:
		return a.Orders
	}
	return ""
}

// Catalog groups the four entity collections and renders reference strings for them.
type Catalog struct {
	Categories *Collection[Category]
	Sellers    *Collection[Seller]
	Products   *Collection[Product]
	Orders     *Collection[Order]

	baseURL string
	appIDs  AppIDs
}

func NewCatalog(store Store, baseURL string, ids AppIDs) (*Catalog, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("record store base url required")
	}
	categories, err := NewCollection[Category](store, enums.EntityCategories, ids.Categories)
	if err != nil {
		return nil, err
	}
	sellers, err := NewCollection[Seller](store, enums.EntitySellers, ids.Sellers)
	if err != nil {
		return nil, err
	}
	products, err := NewCollection[Product](store, enums.EntityProducts, ids.Products)
	if err != nil {
		return nil, err
	}
	orders, err := NewCollection[Order](store, enums.EntityOrders, ids.Orders)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		Categories: categories,
		Sellers:    sellers,
		Products:   products,
		Orders:     orders,
		baseURL:    baseURL,
		appIDs:     ids,
	}, nil
}

// AppIDs returns the configured collection ids.
func (c *Catalog) AppIDs() AppIDs {
	return c.appIDs
}

// RecordURL renders the reference string pointing at recordID of entity.
func (c *Catalog) RecordURL(entity enums.Entity, recordID string) string {
	return recordstore.BuildRecordURL(c.baseURL, c.appIDs.For(entity), recordID)
}

// Handle returns the untyped CRUD view for entity.
func (c *Catalog) Handle(entity enums.Entity) (Handle, error) {
	switch entity {
	case enums.EntityCategories:
		return c.Categories, nil
	case enums.EntitySellers:
		return c.Sellers, nil
	case enums.EntityProducts:
		return c.Products, nil
	case enums.EntityOrders:
		return c.Orders, nil
	}
	return nil, fmt.Errorf("invalid entity %q", entity)
}

// Snapshot holds whichever collections a Load call asked for.
type Snapshot struct {
	Categories []Record[Category]
	Sellers    []Record[Seller]
	Products   []Record[Product]
	Orders     []Record[Order]
}

// Load lists the requested entities concurrently. Any failure fails the whole load.
// With no entities every collection is loaded.
func (c *Catalog) Load(ctx context.Context, entities ...enums.Entity) (*Snapshot, error) {
	if len(entities) == 0 {
		entities = enums.Entities()
	}

	wanted := make([]enums.Entity, 0, len(entities))
	seen := make(map[enums.Entity]bool, len(entities))
	for _, entity := range entities {
		if !entity.IsValid() {
			return nil, fmt.Errorf("invalid entity %q", entity)
		}
		if !seen[entity] {
			seen[entity] = true
			wanted = append(wanted, entity)
		}
	}

	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)
	for _, entity := range wanted {
		switch entity {
		case enums.EntityCategories:
			g.Go(func() error {
				list, err := c.Categories.List(gctx)
				snap.Categories = list
				return err
			})
		case enums.EntitySellers:
			g.Go(func() error {
				list, err := c.Sellers.List(gctx)
				snap.Sellers = list
				return err
			})
		case enums.EntityProducts:
			g.Go(func() error {
				list, err := c.Products.List(gctx)
				snap.Products = list
				return err
			})
		case enums.EntityOrders:
			g.Go(func() error {
				list, err := c.Orders.List(gctx)
				snap.Orders = list
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
