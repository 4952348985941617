package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"frag-golang/internal/storage"
)

type ResponseWorkers struct {
	Workers []*storage.Worker `json:"workers"`
	Status  string            `json:"status"`
	Error   string            `json:"error"`
}

type WorkerReader interface {
	GetWorkers(ctx context.Context, onlyActive bool) ([]*storage.Worker, error)
}

func GetWorkers(log *slog.Logger, reader WorkerReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.get.GetWorkers"

		// По умолчанию отдаём только действующих, админка просит всех
		onlyActive := r.URL.Query().Get("all") == ""

		workers, err := reader.GetWorkers(r.Context(), onlyActive)
		if err != nil {
			log.Error("Ошибка получения списка работников", slog.String("op", op), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseWorkers{Error: "не удалось получить список работников"})
			return
		}

		render.JSON(w, r, ResponseWorkers{
			Workers: workers,
			Status:  strconv.Itoa(http.StatusOK),
		})
	}
}
