package dashboard

import (
	"context"
	"errors"

	"github.com/angelmondragon/marketdesk/internal/records"
	"github.com/angelmondragon/marketdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
	"github.com/angelmondragon/marketdesk/pkg/logger"
)

// Loader lists collections concurrently.
type Loader interface {
	Load(ctx context.Context, entities ...enums.Entity) (*records.Snapshot, error)
}

// OrderStore reads and patches orders.
type OrderStore interface {
	Get(ctx context.Context, recordID string) (records.Record[records.Order], error)
	Update(ctx context.Context, recordID string, patch map[string]any) (records.Record[records.Order], error)
}

// Service serves the dashboard overview and order status moves.
type Service struct {
	loader Loader
	orders OrderStore
	logg   *logger.Logger
}

func NewService(loader Loader, orders OrderStore, logg *logger.Logger) (*Service, error) {
	if loader == nil {
		return nil, errors.New("loader required")
	}
	if orders == nil {
		return nil, errors.New("order store required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Service{loader: loader, orders: orders, logg: logg}, nil
}

// Overview loads all four collections and builds the dashboard.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	overview := Build(snap)
	return &overview, nil
}

// AdvanceStatus moves an order to the next status of the fulfilment flow.
// Delivered and cancelled orders have no next status.
func (s *Service) AdvanceStatus(ctx context.Context, orderID string) (records.Record[records.Order], error) {
	current, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return records.Record[records.Order]{}, err
	}

	status := current.Fields.StatusOrDefault()
	next, ok := status.Next()
	if !ok {
		return records.Record[records.Order]{}, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no next status").
			WithDetails(map[string]any{"status": status.String()})
	}

	updated, err := s.orders.Update(ctx, orderID, map[string]any{"status": next.String()})
	if err != nil {
		return records.Record[records.Order]{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": orderID,
		"from":     status.String(),
		"to":       next.String(),
	}), "order.status_advanced")
	return updated, nil
}
