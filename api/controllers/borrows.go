package controllers

import (
	"net/http"

	"github.com/tanakritw/officestock-backend/api/responses"
	"github.com/tanakritw/officestock-backend/api/validators"
	"github.com/tanakritw/officestock-backend/internal/borrows"
	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
	"github.com/tanakritw/officestock-backend/pkg/logger"
)

// Amounts carry no validation tags: the engine tags every non-positive
// amount, zero included, as INVALID_AMOUNT.
type borrowRequest struct {
	ItemID int64  `json:"item_id" validate:"required,gt=0"`
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Amount int    `json:"amount"`
	Note   string `json:"note"`
}

type returnRequest struct {
	ReturnAmount int    `json:"return_amount"`
	Condition    string `json:"condition"`
	Note         string `json:"note"`
}

// BorrowCreate takes stock out on loan.
func BorrowCreate(svc borrows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "borrow service unavailable"))
			return
		}

		var payload borrowRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Borrow(r.Context(), borrows.BorrowInput{
			ItemID: payload.ItemID,
			UserID: payload.UserID,
			Amount: payload.Amount,
			Note:   payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// BorrowReturn brings borrowed stock back, fully or partially.
func BorrowReturn(svc borrows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "borrow service unavailable"))
			return
		}

		borrowID, err := validators.ParseIDParam(r, "borrowID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload returnRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Return(r.Context(), borrows.ReturnInput{
			BorrowID:     borrowID,
			ReturnAmount: payload.ReturnAmount,
			Condition:    payload.Condition,
			Note:         payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
