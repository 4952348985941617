package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"frag-golang/internal/service/fragment"
	"frag-golang/internal/storage"
)

// Ключ идемпотентности живёт столько, сколько реально может висеть
// повторная отправка формы.
const idempotencyTTL = 10 * time.Minute

type Saver interface {
	SaveFragments(ctx context.Context, orderNum string, productID int64, drafts []storage.Fragment) ([]*storage.Fragment, error)
}

type Request struct {
	OrderNum  string             `json:"order_num"`
	ProductID int64              `json:"product_id"`
	Fragments []storage.Fragment `json:"fragments"`
}

type Response struct {
	Fragments []*storage.Fragment `json:"fragments"`
	Status    string              `json:"status"`
	Error     string              `json:"error"`
}

// SaveOrderFragments принимает черновики разбивки выбранного изделия,
// проверяет их и записывает итоговый список партий заказа. Частичного
// сохранения нет: при любой ошибке проверки форма получает отказ целиком.
// Повторная отправка с тем же Idempotency-Key отклоняется, пока жив ключ.
func SaveOrderFragments(log *slog.Logger, saver Saver) http.HandlerFunc {
	var (
		mu   sync.Mutex
		seen = make(map[uuid.UUID]time.Time)
	)

	takeKey := func(key uuid.UUID, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()

		for k, t := range seen {
			if now.Sub(t) > idempotencyTTL {
				delete(seen, k)
			}
		}

		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = now
		return true
	}

	releaseKey := func(key uuid.UUID) {
		mu.Lock()
		defer mu.Unlock()
		delete(seen, key)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fragments.save.SaveOrderFragments"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		if req.OrderNum == "" || req.ProductID == 0 {
			log.Error("Не указан заказ или изделие", slog.String("op", op))
			http.Error(w, "Не указан заказ или изделие", http.StatusBadRequest)
			return
		}

		var key uuid.UUID
		var hasKey bool
		if keyStr := r.Header.Get("Idempotency-Key"); keyStr != "" {
			var err error
			key, err = uuid.Parse(keyStr)
			if err != nil {
				http.Error(w, "Неверный Idempotency-Key", http.StatusBadRequest)
				return
			}
			hasKey = true

			if !takeKey(key, time.Now()) {
				log.Warn("Повторная отправка формы разбивки", slog.String("op", op), slog.String("key", keyStr))
				w.WriteHeader(http.StatusConflict)
				render.JSON(w, r, Response{Error: "сохранение уже выполняется или выполнено"})
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		final, err := saver.SaveFragments(ctx, req.OrderNum, req.ProductID, req.Fragments)
		if err != nil {
			// Ошибка ввода исправима, ключ отпускаем, чтобы форму можно
			// было отправить снова после правки.
			if hasKey {
				releaseKey(key)
			}

			if fragment.IsValidationError(err) {
				log.Warn("Разбивка не прошла проверку", slog.String("op", op), slog.String("error", err.Error()))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, Response{Error: err.Error()})
				return
			}

			log.Error("Ошибка при сохранении разбивки", slog.String("op", op), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "не удалось сохранить разбивку, попробуйте ещё раз"})
			return
		}

		render.JSON(w, r, Response{
			Fragments: final,
			Status:    strconv.Itoa(http.StatusOK),
		})
	}
}
