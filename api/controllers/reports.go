package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/tanakritw/officestock-backend/api/responses"
	"github.com/tanakritw/officestock-backend/api/validators"
	"github.com/tanakritw/officestock-backend/internal/reports"
	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
	"github.com/tanakritw/officestock-backend/pkg/logger"
)

type dashboardResponse struct {
	Summary   *reports.Summary   `json:"summary"`
	RoomStats []reports.RoomStat `json:"room_stats"`
	Chart     []reports.ChartRow `json:"chart"`
}

// Dashboard assembles the index view: headline numbers, per-room stats and
// the stock level chart.
func Dashboard(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stats, err := svc.RoomStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		chart, err := svc.ChartRows(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboardResponse{
			Summary:   summary,
			RoomStats: stats,
			Chart:     chart,
		})
	}
}

// RoomItems lists the items of one room, or every room when no location is
// given.
func RoomItems(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		items, err := svc.RoomItems(r.Context(), r.URL.Query().Get("location"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// WithdrawHistory lists ledger withdrawals filtered by room and date range.
func WithdrawHistory(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		filter, err := historyFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.WithdrawHistory(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}

// BorrowHistory lists every borrow record, optionally filtered by room.
func BorrowHistory(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		entries, err := svc.BorrowHistory(r.Context(), r.URL.Query().Get("location"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}

// ActiveBorrows lists borrows still out, newest first.
func ActiveBorrows(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		entries, err := svc.ActiveBorrows(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}

// ExportItems streams an inventory CSV, optionally narrowed to one room.
func ExportItems(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		location := r.URL.Query().Get("location")
		items, err := svc.RoomItems(r.Context(), location)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var buf bytes.Buffer
		if err := reports.WriteItemsCSV(&buf, items); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "csv export failed"))
			return
		}

		filename := "inventory_all.csv"
		if location != "" {
			filename = fmt.Sprintf("inventory_%s.csv", location)
		}
		writeCSV(w, filename, buf.Bytes())
	}
}

// ExportHistory streams a withdraw history CSV with the same filters as the
// history listing.
func ExportHistory(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		filter, err := historyFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.WithdrawHistory(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var buf bytes.Buffer
		if err := reports.WriteWithdrawHistoryCSV(&buf, entries); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "csv export failed"))
			return
		}

		writeCSV(w, "withdraw_history.csv", buf.Bytes())
	}
}

func historyFilter(r *http.Request) (reports.HistoryFilter, error) {
	start, err := validators.ParseDateQuery(r, "start_date")
	if err != nil {
		return reports.HistoryFilter{}, err
	}
	end, err := validators.ParseDateQuery(r, "end_date")
	if err != nil {
		return reports.HistoryFilter{}, err
	}
	return reports.HistoryFilter{
		Location: r.URL.Query().Get("location"),
		Start:    start,
		End:      end,
	}, nil
}

func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
