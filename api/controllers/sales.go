package controllers

import (
	"net/http"

	"github.com/osegura/ventapos-backend/api/responses"
	"github.com/osegura/ventapos-backend/api/validators"
	"github.com/osegura/ventapos-backend/internal/sales"
	pkgerrors "github.com/osegura/ventapos-backend/pkg/errors"
	"github.com/osegura/ventapos-backend/pkg/logger"
)

// PostSaleLines accepts a bare JSON array of line inputs and posts them
// against the path-identified order in one unit of work.
func PostSaleLines(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		orderID, err := validators.ParsePathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var inputs []sales.LineInput
		if err := validators.DecodeJSONArray(r, &inputs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.PostLines(r.Context(), orderID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "sale lines posted", lines)
	}
}

// GetOrder returns an order with its posted lines.
func GetOrder(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		orderID, err := validators.ParsePathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "order retrieved", order)
	}
}
