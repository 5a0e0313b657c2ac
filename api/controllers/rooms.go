package controllers

import (
	"net/http"

	"github.com/tanakritw/officestock-backend/api/responses"
	"github.com/tanakritw/officestock-backend/api/validators"
	"github.com/tanakritw/officestock-backend/internal/rooms"
	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
	"github.com/tanakritw/officestock-backend/pkg/logger"
)

type roomRenameRequest struct {
	OldName string `json:"old_name" validate:"required"`
	NewName string `json:"new_name" validate:"required"`
}

type roomDeleteRequest struct {
	Location string `json:"location" validate:"required"`
}

// RoomRename moves every storage slot in a room to a new room name.
func RoomRename(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "room service unavailable"))
			return
		}

		var payload roomRenameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Rename(r.Context(), payload.OldName, payload.NewName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// RoomDelete removes a room and everything referencing it in one transaction.
func RoomDelete(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "room service unavailable"))
			return
		}

		var payload roomDeleteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), payload.Location); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deleted": payload.Location})
	}
}
