package fragment

import (
	"fmt"
	"time"

	"frag-golang/internal/storage"
)

// Finalize собирает итоговый список партий заказа: партии остальных изделий
// проходят без изменений, партии выбранного изделия заменяются текущими
// черновиками. Каждому черновику без идентификатора выдаётся стабильный id,
// проставляются владельцы и заново считается стоимость.
func Finalize(order storage.Order, product storage.OrderProduct, drafts []storage.Fragment, existing []*storage.Fragment, now time.Time) []*storage.Fragment {
	final := make([]*storage.Fragment, 0, len(existing)+len(drafts))

	for _, f := range existing {
		if f.ProductID != product.ID {
			final = append(final, f)
		}
	}

	for i, d := range drafts {
		f := d
		f.Seq = i + 1
		f.OrderID = order.ID
		f.ProductID = product.ID
		f.Value = Value(product, f.Quantity)
		if f.ID == "" {
			f.ID = fmt.Sprintf("%d-%d-%d", order.ID, f.Seq, now.UnixMilli())
		}
		if f.Status == "" {
			f.Status = storage.FragmentStatusPending
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = now
		}
		f.UpdatedAt = now
		final = append(final, &f)
	}

	return final
}
