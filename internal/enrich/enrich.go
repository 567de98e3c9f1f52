package enrich

import (
	"context"

	"github.com/angelmondragon/marketdesk/internal/records"
	"github.com/angelmondragon/marketdesk/pkg/enums"
)

// EnrichedProduct is a product with its category and seller labels resolved.
type EnrichedProduct struct {
	records.Record[records.Product]
	CategoryLabel string `json:"category_label"`
	SellerLabel   string `json:"seller_label"`
}

// EnrichedOrder is an order with its product label resolved.
type EnrichedOrder struct {
	records.Record[records.Order]
	ProductLabel string `json:"product_label"`
}

type ProductMaps struct {
	Categories map[string]records.Record[records.Category]
	Sellers    map[string]records.Record[records.Seller]
}

type OrderMaps struct {
	Products map[string]records.Record[records.Product]
}

// EnrichProducts returns one enriched product per input, in input order.
func EnrichProducts(products []records.Record[records.Product], maps ProductMaps) []EnrichedProduct {
	out := make([]EnrichedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, EnrichedProduct{
			Record:        p,
			CategoryLabel: ResolveLabel(deref(p.Fields.CategoryRef), maps.Categories, "name"),
			SellerLabel:   ResolveLabel(deref(p.Fields.SellerRef), maps.Sellers, "company_name"),
		})
	}
	return out
}

// EnrichOrders returns one enriched order per input, in input order.
func EnrichOrders(orders []records.Record[records.Order], maps OrderMaps) []EnrichedOrder {
	out := make([]EnrichedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, EnrichedOrder{
			Record:       o,
			ProductLabel: ResolveLabel(deref(o.Fields.ProductRef), maps.Products, "name"),
		})
	}
	return out
}

// Loader lists the collections enrichment reads from.
type Loader interface {
	Load(ctx context.Context, entities ...enums.Entity) (*records.Snapshot, error)
}

// Service builds enriched views from fresh collection loads.
type Service struct {
	loader Loader
}

func NewService(loader Loader) *Service {
	return &Service{loader: loader}
}

// Products loads products with categories and sellers and resolves their labels.
func (s *Service) Products(ctx context.Context) ([]EnrichedProduct, error) {
	snap, err := s.loader.Load(ctx, enums.EntityProducts, enums.EntityCategories, enums.EntitySellers)
	if err != nil {
		return nil, err
	}
	return EnrichProducts(snap.Products, ProductMaps{
		Categories: records.Index(snap.Categories),
		Sellers:    records.Index(snap.Sellers),
	}), nil
}

// Orders loads orders with products and resolves the product label.
func (s *Service) Orders(ctx context.Context) ([]EnrichedOrder, error) {
	snap, err := s.loader.Load(ctx, enums.EntityOrders, enums.EntityProducts)
	if err != nil {
		return nil, err
	}
	return EnrichOrders(snap.Orders, OrderMaps{Products: records.Index(snap.Products)}), nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
