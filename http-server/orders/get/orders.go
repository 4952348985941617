package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"frag-golang/internal/storage"
)

type ResponseOrders struct {
	Orders []*storage.Order `json:"orders"`
	Status string           `json:"status"`
	Error  string           `json:"error"`
}

type GetOrders interface {
	GetOrdersMonth(ctx context.Context, year int, month int, search string) ([]*storage.Order, error)
}

func GetOrdersFilter(log *slog.Logger, getOrders GetOrders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.get.GetOrdersFilter"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		yearStr := r.URL.Query().Get("year")
		monthStr := r.URL.Query().Get("month")
		search := r.URL.Query().Get("search")

		var year, month int
		var err error

		// Без поискового запроса год и месяц обязательны
		if search == "" {
			if yearStr == "" || monthStr == "" {
				log.Error("Missing year or month in query parameters")
				http.Error(w, "Missing year or month", http.StatusBadRequest)
				return
			}

			year, err = strconv.Atoi(yearStr)
			if err != nil {
				log.Error("Invalid year", slog.String("error", err.Error()))
				http.Error(w, "Invalid year", http.StatusBadRequest)
				return
			}

			month, err = strconv.Atoi(monthStr)
			if err != nil {
				log.Error("Invalid month", slog.String("error", err.Error()))
				http.Error(w, "Invalid month", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := getOrders.GetOrdersMonth(ctx, year, month, search)
		if err != nil {
			log.Error("Ошибка при получении списка заказов", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseOrders{Error: "В базе не найдено заказов"})
			return
		}

		render.JSON(w, r, ResponseOrders{
			Orders: orders,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
