package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"frag-golang/internal/storage"
)

type ScheduleFilter struct {
	From     time.Time
	To       time.Time
	OrderNum string
}

func (s *Storage) GetScheduleRows(ctx context.Context, filter ScheduleFilter) ([]storage.ScheduleRow, error) {
	const op = "storage.mysql.GetScheduleRows"

	stmt := `SELECT o.order_num, o.customer, p.name, f.seq, f.quantity, f.date, f.status, f.progress, f.value, w.name
			 FROM track_fragments f
			 JOIN track_orders o ON o.id = f.order_id
			 JOIN track_products p ON p.id = f.product_id
			 LEFT JOIN track_workers w ON w.id = f.worker_id
			 WHERE f.date >= ? AND f.date <= ?`

	args := []interface{}{filter.From, filter.To}

	if filter.OrderNum != "" {
		stmt += ` AND o.order_num LIKE ?`
		args = append(args, "%"+filter.OrderNum+"%")
	}

	stmt += ` ORDER BY f.date, o.order_num, f.seq`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения графика производства: %w", op, err)
	}
	defer rows.Close()

	var schedule []storage.ScheduleRow
	for rows.Next() {
		var row storage.ScheduleRow
		var date time.Time
		var workerName sql.NullString

		err := rows.Scan(&row.OrderNum, &row.Customer, &row.ProductName, &row.Seq, &row.Quantity,
			&date, &row.Status, &row.Progress, &row.Value, &workerName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		row.Date = date.Format(storage.DateLayout)
		if workerName.Valid {
			row.WorkerName = &workerName.String
		}

		schedule = append(schedule, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка сканирования строк: %w", op, err)
	}

	return schedule, nil
}
