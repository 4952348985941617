package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"frag-golang/internal/storage"
)

var ErrOrderNotFound = errors.New("заказ не найден")

func (s *Storage) GetOrdersMonth(ctx context.Context, year int, month int, search string) ([]*storage.Order, error) {
	const op = "storage.mysql.GetOrdersMonth"

	var stmt string
	var args []interface{}

	if search != "" {
		stmt = `SELECT id, order_num, creator, customer, dop_info
				FROM track_orders
				WHERE order_num LIKE ? OR customer LIKE ?`
		args = append(args, "%"+search+"%", "%"+search+"%")
	} else {
		startOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		endOfMonth := startOfMonth.AddDate(0, 1, 0)

		stmt = `SELECT id, order_num, creator, customer, dop_info
				FROM track_orders
				WHERE creation_date >= ? AND creation_date < ?`
		args = []interface{}{startOfMonth, endOfMonth}
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения заказов за месяц: %w", op, err)
	}
	defer rows.Close()

	var orders []*storage.Order
	for rows.Next() {
		var order storage.Order
		var dopInfo sql.NullString

		err := rows.Scan(&order.ID, &order.OrderNum, &order.Creator, &order.Customer, &dopInfo)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if dopInfo.Valid {
			order.DopInfo = dopInfo.String
		}

		orders = append(orders, &order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка сканирования строк: %w", op, err)
	}

	return orders, nil
}

func (s *Storage) GetOrder(ctx context.Context, orderNum string) (*storage.Order, error) {
	const op = "storage.mysql.GetOrder"

	stmt := `SELECT id, order_num, creator, customer, dop_info
			 FROM track_orders
			 WHERE order_num = ?`

	var order storage.Order
	var dopInfo sql.NullString

	err := s.db.QueryRowContext(ctx, stmt, orderNum).
		Scan(&order.ID, &order.OrderNum, &order.Creator, &order.Customer, &dopInfo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %s: %w", op, orderNum, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if dopInfo.Valid {
		order.DopInfo = dopInfo.String
	}

	return &order, nil
}

func (s *Storage) GetOrderProducts(ctx context.Context, orderID int64) ([]*storage.OrderProduct, error) {
	const op = "storage.mysql.GetOrderProducts"

	stmt := `SELECT id, order_id, name, size, color, fabric, model, quantity, total_price
			 FROM track_products
			 WHERE order_id = ?
			 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, stmt, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения изделий заказа: %w", op, err)
	}
	defer rows.Close()

	var products []*storage.OrderProduct
	for rows.Next() {
		var p storage.OrderProduct

		err := rows.Scan(&p.ID, &p.OrderID, &p.Name, &p.Size, &p.Color, &p.Fabric, &p.Model, &p.Quantity, &p.TotalPrice)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		products = append(products, &p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка сканирования строк: %w", op, err)
	}

	return products, nil
}
