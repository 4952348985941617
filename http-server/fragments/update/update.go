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

type FragmentUpdater interface {
	UpdateFragment(ctx context.Context, id string, upd storage.FragmentUpdate) error
}

var knownStatuses = map[string]struct{}{
	storage.FragmentStatusPending:    {},
	storage.FragmentStatusInProgress: {},
	storage.FragmentStatusCompleted:  {},
	storage.FragmentStatusCancelled:  {},
}

// UpdateFragment меняет ход выполнения партии: статус, готовность,
// плановую дату, исполнителя. Количество здесь менять нельзя — оно правится
// только через форму разбивки, иначе разъедется сумма по изделию.
func UpdateFragment(log *slog.Logger, updater FragmentUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fragments.update.UpdateFragment"

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.FragmentUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		if req.Status != nil {
			if _, ok := knownStatuses[*req.Status]; !ok {
				http.Error(w, "Неизвестный статус партии", http.StatusBadRequest)
				return
			}
		}

		if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
			http.Error(w, "Готовность должна быть от 0 до 100", http.StatusBadRequest)
			return
		}

		if req.Date != nil {
			if _, err := time.Parse(storage.DateLayout, *req.Date); err != nil {
				http.Error(w, "Неверная дата", http.StatusBadRequest)
				return
			}
		}

		log.Info("Обновление партии", slog.String("id", id))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := updater.UpdateFragment(ctx, id, req)
		if err != nil {
			log.Error("Ошибка обновления партии", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Ошибка обновления", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status":      strconv.Itoa(http.StatusOK),
			"fragment_id": id,
		})
	}
}
