package controllers

import (
	"net/http"

	"github.com/tanakritw/officestock-backend/api/responses"
	"github.com/tanakritw/officestock-backend/api/validators"
	"github.com/tanakritw/officestock-backend/internal/storages"
	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
	"github.com/tanakritw/officestock-backend/pkg/logger"
)

type storageRequest struct {
	StorageName string `json:"storage_name" validate:"required"`
	Location    string `json:"location" validate:"required"`
}

func StorageCreate(svc *storages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storage service unavailable"))
			return
		}

		var payload storageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storage, err := svc.Create(r.Context(), storages.CreateStorageInput{
			StorageName: payload.StorageName,
			Location:    payload.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, storage)
	}
}

func StorageList(svc *storages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storage service unavailable"))
			return
		}

		list, err := svc.List(r.Context(), r.URL.Query().Get("location"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func StorageGet(svc *storages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storage service unavailable"))
			return
		}

		storageID, err := validators.ParseIDParam(r, "storageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storage, err := svc.Get(r.Context(), storageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, storage)
	}
}

func StorageUpdate(svc *storages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storage service unavailable"))
			return
		}

		storageID, err := validators.ParseIDParam(r, "storageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload storageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storage, err := svc.Update(r.Context(), storageID, storages.UpdateStorageInput{
			StorageName: payload.StorageName,
			Location:    payload.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, storage)
	}
}

func StorageDelete(svc *storages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storage service unavailable"))
			return
		}

		storageID, err := validators.ParseIDParam(r, "storageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), storageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deleted": storageID})
	}
}
