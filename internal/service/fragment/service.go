package fragment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"frag-golang/internal/storage"
)

type FragmentStorage interface {
	GetOrder(ctx context.Context, orderNum string) (*storage.Order, error)
	GetOrderProducts(ctx context.Context, orderID int64) ([]*storage.OrderProduct, error)
	GetOrderFragments(ctx context.Context, orderID int64) ([]*storage.Fragment, error)
	ReplaceOrderFragments(ctx context.Context, orderID int64, fragments []*storage.Fragment) error
}

type Service struct {
	storage FragmentStorage
	policy  string
	now     func() time.Time
}

func NewService(storage FragmentStorage, policy string) *Service {
	return &Service{
		storage: storage,
		policy:  policy,
		now:     time.Now,
	}
}

// Recalculation — ответ на пересчёт разбивки с формы: черновики с заново
// выведенной стоимостью и вердикт по действующей политике.
type Recalculation struct {
	Fragments     []storage.Fragment `json:"fragments"`
	TotalQuantity int                `json:"total_quantity"`
	TotalValue    decimal.Decimal    `json:"total_value"`
	Valid         bool               `json:"valid"`
	Reason        string             `json:"reason,omitempty"`
}

// SaveFragments проверяет черновики выбранного изделия, сводит их с партиями
// остальных изделий заказа и записывает итоговый список одной транзакцией.
func (s *Service) SaveFragments(ctx context.Context, orderNum string, productID int64, drafts []storage.Fragment) ([]*storage.Fragment, error) {
	const op = "service.fragment.SaveFragments"

	order, products, existing, err := s.loadOrder(ctx, orderNum)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Ошибки проверки уходят пользователю как есть, без служебного префикса.
	product := findProduct(products, productID)
	if product == nil {
		return nil, fmt.Errorf("изделие id=%d: %w", productID, ErrUnknownProduct)
	}

	if err := Validate(drafts, *product, s.policy); err != nil {
		return nil, err
	}

	final := Finalize(*order, *product, drafts, existing, s.now())

	if err := s.storage.ReplaceOrderFragments(ctx, order.ID, final); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return final, nil
}

// Recalculate ничего не сохраняет: фронт присылает рабочее состояние формы,
// обратно уходят черновики со свежей стоимостью. Пустой список черновиков
// означает первое открытие формы, тогда список засевается.
func (s *Service) Recalculate(ctx context.Context, orderNum string, productID int64, drafts []storage.Fragment) (*Recalculation, error) {
	const op = "service.fragment.Recalculate"

	_, products, existing, err := s.loadOrder(ctx, orderNum)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	product := findProduct(products, productID)
	if product == nil {
		return nil, fmt.Errorf("изделие id=%d: %w", productID, ErrUnknownProduct)
	}

	if len(drafts) == 0 {
		drafts = Seed(*product, existing, s.now())
	}

	res := &Recalculation{
		Fragments:  drafts,
		TotalValue: decimal.Zero,
		Valid:      true,
	}
	for i := range res.Fragments {
		res.Fragments[i].Seq = i + 1
		res.Fragments[i].Value = Value(*product, res.Fragments[i].Quantity)
		res.TotalQuantity += res.Fragments[i].Quantity
		res.TotalValue = res.TotalValue.Add(res.Fragments[i].Value)
	}

	if err := Validate(res.Fragments, *product, s.policy); err != nil {
		res.Valid = false
		res.Reason = err.Error()
	}

	return res, nil
}

func (s *Service) loadOrder(ctx context.Context, orderNum string) (*storage.Order, []*storage.OrderProduct, []*storage.Fragment, error) {
	order, err := s.storage.GetOrder(ctx, orderNum)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("заказ %s: %w", orderNum, err)
	}

	var (
		products  []*storage.OrderProduct
		fragments []*storage.Fragment
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.storage.GetOrderProducts(gCtx, order.ID)
		if err != nil {
			return fmt.Errorf("products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		fragments, err = s.storage.GetOrderFragments(gCtx, order.ID)
		if err != nil {
			return fmt.Errorf("fragments: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	return order, products, fragments, nil
}

func findProduct(products []*storage.OrderProduct, id int64) *storage.OrderProduct {
	for _, p := range products {
		if p.ID == id {
			return p
		}
	}
	return nil
}
