package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/marketdesk/api/responses"
	"github.com/angelmondragon/marketdesk/internal/dashboard"
	"github.com/angelmondragon/marketdesk/internal/records"
	"github.com/angelmondragon/marketdesk/pkg/logger"
)

// DashboardService builds the overview and advances order statuses.
type DashboardService interface {
	Overview(ctx context.Context) (*dashboard.Overview, error)
	AdvanceStatus(ctx context.Context, orderID string) (records.Record[records.Order], error)
}

func DashboardOverview(svc DashboardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		overview, err := svc.Overview(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

// AdvanceOrder moves an order to its next status.
func AdvanceOrder(svc DashboardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := recordIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		order, err := svc.AdvanceStatus(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
