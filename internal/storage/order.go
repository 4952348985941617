package storage

import "github.com/shopspring/decimal"

type Order struct {
	ID       int64  `json:"id"`
	OrderNum string `json:"order_num"`
	Creator  int    `json:"creator"`
	Customer string `json:"customer"`
	DopInfo  string `json:"dop_info"`
}

type OrderProduct struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"order_id"`
	Name       string          `json:"name"`
	Size       string          `json:"size"`
	Color      string          `json:"color"`
	Fabric     string          `json:"fabric"`
	Model      string          `json:"model"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// UnitPrice выводится из общей цены, отдельно в базе не хранится.
func (p OrderProduct) UnitPrice() decimal.Decimal {
	if p.Quantity == 0 {
		return decimal.Zero
	}
	return p.TotalPrice.DivRound(decimal.NewFromInt(int64(p.Quantity)), 2)
}

type OrderDetails struct {
	Order     *Order          `json:"order"`
	Products  []*OrderProduct `json:"products"`
	Fragments []*Fragment     `json:"fragments"`
}
