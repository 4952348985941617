package fragment

import (
	"errors"
	"fmt"

	"frag-golang/internal/config"
	"frag-golang/internal/storage"
)

var (
	ErrZeroTotal       = errors.New("общее количество в партиях равно нулю")
	ErrExcessTotal     = errors.New("суммарное количество партий больше количества изделия")
	ErrShortTotal      = errors.New("суммарное количество партий меньше количества изделия")
	ErrDraftIncomplete = errors.New("в партии не заполнено количество или дата")
	ErrUnknownProduct  = errors.New("изделие не найдено в заказе")
	ErrUnknownPolicy   = errors.New("неизвестная политика разбивки")
)

// Validate решает, можно ли сохранять текущий набор партий.
// strict — сумма количеств должна совпасть с количеством изделия,
// partial — достаточно, чтобы сумма была больше нуля и не превышала его.
// При отказе сохранения не происходит вовсе, частичной записи нет.
func Validate(drafts []storage.Fragment, product storage.OrderProduct, policy string) error {
	total := 0
	for i, d := range drafts {
		if d.Quantity <= 0 || d.Date == "" {
			return fmt.Errorf("партия %d: %w", i+1, ErrDraftIncomplete)
		}
		total += d.Quantity
	}

	if total == 0 {
		return ErrZeroTotal
	}

	switch policy {
	case config.PolicyStrict:
		if total > product.Quantity {
			return fmt.Errorf("%w: %d из %d", ErrExcessTotal, total, product.Quantity)
		}
		if total < product.Quantity {
			return fmt.Errorf("%w: %d из %d", ErrShortTotal, total, product.Quantity)
		}
	case config.PolicyPartial:
		if total > product.Quantity {
			return fmt.Errorf("%w: %d из %d", ErrExcessTotal, total, product.Quantity)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
	}

	return nil
}

// IsValidationError отличает пользовательскую ошибку ввода от внутренней.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrZeroTotal) ||
		errors.Is(err, ErrExcessTotal) ||
		errors.Is(err, ErrShortTotal) ||
		errors.Is(err, ErrDraftIncomplete) ||
		errors.Is(err, ErrUnknownProduct)
}
