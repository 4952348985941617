package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"frag-golang/internal/storage"
)

type WorkerSaver interface {
	SaveWorker(ctx context.Context, worker storage.SaveWorker) (int64, error)
}

type Response struct {
	WorkerID int64  `json:"worker_id"`
	Status   string `json:"status"`
	Error    string `json:"error"`
}

func SaveWorker(log *slog.Logger, saver WorkerSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.save.SaveWorker"

		var req storage.SaveWorker
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		if req.Name == "" {
			http.Error(w, "Не указано имя работника", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := saver.SaveWorker(ctx, req)
		if err != nil {
			log.Error("Ошибка сохранения работника", slog.String("op", op), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "не удалось сохранить работника"})
			return
		}

		render.JSON(w, r, Response{
			WorkerID: id,
			Status:   strconv.Itoa(http.StatusOK),
		})
	}
}
