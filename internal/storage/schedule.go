package storage

import "github.com/shopspring/decimal"

// ScheduleRow — строка производственного графика для отчёта ПДО.
type ScheduleRow struct {
	OrderNum    string          `json:"order_num"`
	Customer    string          `json:"customer"`
	ProductName string          `json:"product_name"`
	Seq         int             `json:"seq"`
	Quantity    int             `json:"quantity"`
	Date        string          `json:"date"`
	Status      string          `json:"status"`
	Progress    int             `json:"progress"`
	Value       decimal.Decimal `json:"value"`
	WorkerName  *string         `json:"worker_name"`
}
