package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"frag-golang/internal/storage"
)

type ResponseFragments struct {
	Fragments []*storage.Fragment `json:"fragments"`
	Status    string              `json:"status"`
	Error     string              `json:"error"`
}

type FragmentReader interface {
	GetOrder(ctx context.Context, orderNum string) (*storage.Order, error)
	GetOrderFragments(ctx context.Context, orderID int64) ([]*storage.Fragment, error)
}

func GetOrderFragments(log *slog.Logger, reader FragmentReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.fragments.get.GetOrderFragments"

		orderNum := chi.URLParam(r, "orderNum")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := reader.GetOrder(ctx, orderNum)
		if err != nil {
			log.Error("не удалось получить заказ", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Заказ не найден", http.StatusNotFound)
			return
		}

		fragments, err := reader.GetOrderFragments(ctx, order.ID)
		if err != nil {
			log.Error("не удалось получить партии заказа", slog.String("op", op), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseFragments{Error: "не удалось получить партии заказа"})
			return
		}

		render.JSON(w, r, ResponseFragments{
			Fragments: fragments,
			Status:    strconv.Itoa(http.StatusOK),
		})
	}
}
