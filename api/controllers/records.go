package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/marketdesk/api/responses"
	"github.com/angelmondragon/marketdesk/api/validators"
	"github.com/angelmondragon/marketdesk/internal/enrich"
	"github.com/angelmondragon/marketdesk/internal/records"
	"github.com/angelmondragon/marketdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
	"github.com/angelmondragon/marketdesk/pkg/logger"
)

// RecordHandles resolves the CRUD view of an entity.
type RecordHandles interface {
	Handle(entity enums.Entity) (records.Handle, error)
}

// EnrichedLister serves list views with resolved reference labels.
type EnrichedLister interface {
	Products(ctx context.Context) ([]enrich.EnrichedProduct, error)
	Orders(ctx context.Context) ([]enrich.EnrichedOrder, error)
}

func handleFor(handles RecordHandles, entity enums.Entity) (records.Handle, error) {
	h, err := handles.Handle(entity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "unknown entity")
	}
	return h, nil
}

func recordIDParam(r *http.Request) (string, error) {
	return validators.RecordID(chi.URLParam(r, "recordId"))
}

// ListRecords returns every record of entity. Products and orders come enriched when lister is set.
func ListRecords(entity enums.Entity, handles RecordHandles, lister EnrichedLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logg.WithEntity(r.Context(), entity.String())

		if lister != nil {
			switch entity {
			case enums.EntityProducts:
				list, err := lister.Products(ctx)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				responses.WriteSuccess(w, list)
				return
			case enums.EntityOrders:
				list, err := lister.Orders(ctx)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				responses.WriteSuccess(w, list)
				return
			}
		}

		h, err := handleFor(handles, entity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		list, err := h.ListRecords(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetRecord(entity enums.Entity, handles RecordHandles, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logg.WithEntity(r.Context(), entity.String())
		id, err := recordIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		h, err := handleFor(handles, entity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rec, err := h.GetRecord(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}

func CreateRecord(entity enums.Entity, handles RecordHandles, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logg.WithEntity(r.Context(), entity.String())
		patch, err := validators.DecodeJSONObject(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		h, err := handleFor(handles, entity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rec, err := h.CreateRecord(ctx, patch)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		logg.Info(ctx, "record.created")
		responses.WriteSuccessStatus(w, http.StatusCreated, rec)
	}
}

func UpdateRecord(entity enums.Entity, handles RecordHandles, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logg.WithEntity(r.Context(), entity.String())
		id, err := recordIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		patch, err := validators.DecodeJSONObject(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		h, err := handleFor(handles, entity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rec, err := h.UpdateRecord(ctx, id, patch)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		logg.Info(logg.WithRecordID(ctx, id), "record.updated")
		responses.WriteSuccess(w, rec)
	}
}

func DeleteRecord(entity enums.Entity, handles RecordHandles, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logg.WithEntity(r.Context(), entity.String())
		id, err := recordIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		h, err := handleFor(handles, entity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := h.DeleteRecord(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		logg.Info(logg.WithRecordID(ctx, id), "record.deleted")
		responses.WriteNoContent(w)
	}
}
