package fragment

import (
	"time"

	"github.com/shopspring/decimal"

	"frag-golang/internal/storage"
)

// DraftPatch — точечное изменение одного черновика партии с формы.
type DraftPatch struct {
	Quantity *int    `json:"quantity"`
	Date     *string `json:"date"`
	Status   *string `json:"status"`
	Progress *int    `json:"progress"`
	WorkerID *int64  `json:"worker_id"`
}

// Seed собирает стартовый список черновиков для выбранного изделия.
// Если по изделию уже есть сохранённые партии — берём их (с нормализацией
// даты), иначе одна партия на четверть количества.
func Seed(product storage.OrderProduct, existing []*storage.Fragment, today time.Time) []storage.Fragment {
	var drafts []storage.Fragment
	for _, f := range existing {
		if f.ProductID != product.ID {
			continue
		}
		d := *f
		d.Date = normalizeDate(d.Date)
		d.Seq = len(drafts) + 1
		drafts = append(drafts, d)
	}
	if len(drafts) > 0 {
		return drafts
	}

	quantity := (product.Quantity + 3) / 4
	if quantity < 1 {
		quantity = 1
	}

	return []storage.Fragment{{
		OrderID:   product.OrderID,
		ProductID: product.ID,
		Seq:       1,
		Quantity:  quantity,
		Date:      today.Format(storage.DateLayout),
		Status:    storage.FragmentStatusPending,
		Progress:  0,
		Value:     Value(product, quantity),
	}}
}

// AddDraft добавляет партию на один день позже последней, но не раньше сегодня.
func AddDraft(drafts []storage.Fragment, product storage.OrderProduct, today time.Time) []storage.Fragment {
	date := today
	if len(drafts) > 0 {
		prev, err := time.Parse(storage.DateLayout, drafts[len(drafts)-1].Date)
		if err == nil {
			date = prev.AddDate(0, 0, 1)
		}
	}
	if date.Before(today) {
		date = today
	}

	return append(drafts, storage.Fragment{
		OrderID:   product.OrderID,
		ProductID: product.ID,
		Seq:       len(drafts) + 1,
		Quantity:  1,
		Date:      date.Format(storage.DateLayout),
		Status:    storage.FragmentStatusPending,
		Progress:  0,
		Value:     Value(product, 1),
	})
}

// RemoveDraft убирает партию по индексу. Последнюю партию убрать нельзя,
// список не должен становиться пустым.
func RemoveDraft(drafts []storage.Fragment, index int) []storage.Fragment {
	if len(drafts) <= 1 || index < 0 || index >= len(drafts) {
		return drafts
	}

	out := make([]storage.Fragment, 0, len(drafts)-1)
	out = append(out, drafts[:index]...)
	out = append(out, drafts[index+1:]...)
	for i := range out {
		out[i].Seq = i + 1
	}
	return out
}

// UpdateDraft меняет названные поля партии по индексу. Никаких пересчётов
// зависимых полей здесь нет, стоимость выводится заново при отображении.
func UpdateDraft(drafts []storage.Fragment, index int, patch DraftPatch) []storage.Fragment {
	if index < 0 || index >= len(drafts) {
		return drafts
	}

	d := &drafts[index]
	if patch.Quantity != nil {
		d.Quantity = *patch.Quantity
	}
	if patch.Date != nil {
		d.Date = *patch.Date
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	if patch.Progress != nil {
		d.Progress = *patch.Progress
	}
	if patch.WorkerID != nil {
		d.WorkerID = patch.WorkerID
	}
	return drafts
}

// Value — пропорциональная стоимость партии: q / T * V, ноль при T = 0.
func Value(product storage.OrderProduct, quantity int) decimal.Decimal {
	if product.Quantity == 0 {
		return decimal.Zero
	}
	return product.TotalPrice.
		Mul(decimal.NewFromInt(int64(quantity))).
		DivRound(decimal.NewFromInt(int64(product.Quantity)), 2)
}

// Фронт местами шлёт дату как ISO-таймстамп, в базе держим YYYY-MM-DD.
func normalizeDate(date string) string {
	if t, err := time.Parse(storage.DateLayout, date); err == nil {
		return t.Format(storage.DateLayout)
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.Format(storage.DateLayout)
	}
	return date
}
