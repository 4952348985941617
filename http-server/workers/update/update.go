package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"frag-golang/internal/storage"
)

type WorkerUpdater interface {
	UpdateWorker(ctx context.Context, id int64, upd storage.UpdateWorker) error
}

func UpdateWorker(log *slog.Logger, updater WorkerUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.update.UpdateWorker"

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.UpdateWorker
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := updater.UpdateWorker(ctx, id, req); err != nil {
			log.Error("Ошибка обновления работника", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Ошибка обновления", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status":    strconv.Itoa(http.StatusOK),
			"worker_id": id,
		})
	}
}
