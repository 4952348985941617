package recalculate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"frag-golang/internal/service/fragment"
	"frag-golang/internal/storage"
)

type Recalculator interface {
	Recalculate(ctx context.Context, orderNum string, productID int64, drafts []storage.Fragment) (*fragment.Recalculation, error)
}

type Request struct {
	OrderNum  string             `json:"order_num"`
	ProductID int64              `json:"product_id"`
	Fragments []storage.Fragment `json:"fragments"`
}

// RecalculateFragments — живой пересчёт с формы разбивки: фронт шлёт текущее
// состояние черновиков, обратно уходит стоимость каждой партии и вердикт.
// Пустой список черновиков засевается значениями по умолчанию.
func RecalculateFragments(log *slog.Logger, recalc Recalculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fragments.recalculate.RecalculateFragments"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := recalc.Recalculate(ctx, req.OrderNum, req.ProductID, req.Fragments)
		if err != nil {
			if fragment.IsValidationError(err) {
				log.Warn("Пересчёт по неизвестному изделию", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			log.Error("Ошибка пересчёта разбивки", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, res)
	}
}
