package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FragmentStatusPending    = "pending"
	FragmentStatusInProgress = "in_progress"
	FragmentStatusCompleted  = "completed"
	FragmentStatusCancelled  = "cancelled"
)

// DateLayout — формат плановой даты партии, как её шлёт фронт.
const DateLayout = "2006-01-02"

type Fragment struct {
	ID        string          `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Seq       int             `json:"seq"`
	Quantity  int             `json:"quantity"`
	Date      string          `json:"date"`
	Status    string          `json:"status"`
	Progress  int             `json:"progress"`
	Value     decimal.Decimal `json:"value"`
	WorkerID  *int64          `json:"worker_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type FragmentUpdate struct {
	Status   *string `json:"status"`
	Progress *int    `json:"progress"`
	Date     *string `json:"date"`
	WorkerID *int64  `json:"worker_id"`
}
