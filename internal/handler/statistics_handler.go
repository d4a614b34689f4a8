package handler

import (
	"net/http"

	"github.com/catatuang/catatuang-gateway/internal/service"

	"go.uber.org/zap"
)

func statisticsHandler(svc *service.StatisticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/statistics")
		defer span.End()

		txType := r.URL.Query().Get("type")
		if txType == "" {
			txType = "expense"
		}
		period := r.URL.Query().Get("period")
		if period == "" {
			period = "month"
		}

		overview, err := svc.Overview(ctx, txType, period)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, overview)
	}
}

func comparisonHandler(svc *service.StatisticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/statistics/comparison")
		defer span.End()

		month := r.URL.Query().Get("month")
		if month == "" {
			writeError(w, http.StatusBadRequest, "parameter month wajib diisi (yyyy-MM)")
			return
		}

		result, err := svc.Compare(ctx, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func comparisonMonthsHandler(svc *service.StatisticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/statistics/months")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Months())
	}
}
