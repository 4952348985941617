package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"frag-golang/internal/storage"
)

type OrderDetails interface {
	GetOrder(ctx context.Context, orderNum string) (*storage.Order, error)
	GetOrderProducts(ctx context.Context, orderID int64) ([]*storage.OrderProduct, error)
	GetOrderFragments(ctx context.Context, orderID int64) ([]*storage.Fragment, error)
}

// GetOrderDetails отдаёт заказ целиком: шапку, изделия и сохранённые партии.
// С этого ответа фронт открывает форму разбивки.
func GetOrderDetails(log *slog.Logger, order OrderDetails) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.get.GetOrderDetails"

		orderNum := chi.URLParam(r, "orderNum")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ord, err := order.GetOrder(ctx, orderNum)
		if err != nil {
			log.Error("не удалось получить заказ", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Заказ не найден", http.StatusNotFound)
			return
		}

		products, err := order.GetOrderProducts(ctx, ord.ID)
		if err != nil {
			log.Error("не удалось получить изделия заказа", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		fragments, err := order.GetOrderFragments(ctx, ord.ID)
		if err != nil {
			log.Error("не удалось получить партии заказа", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, storage.OrderDetails{
			Order:     ord,
			Products:  products,
			Fragments: fragments,
		})
	}
}
