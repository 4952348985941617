package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"frag-golang/internal/storage"
)

var ErrFragmentNotFound = errors.New("партия не найдена")

func (s *Storage) GetOrderFragments(ctx context.Context, orderID int64) ([]*storage.Fragment, error) {
	const op = "storage.mysql.GetOrderFragments"

	stmt := `SELECT id, order_id, product_id, seq, quantity, date, status, progress, value, worker_id, created_at, updated_at
			 FROM track_fragments
			 WHERE order_id = ?
			 ORDER BY product_id, seq`

	rows, err := s.db.QueryContext(ctx, stmt, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения партий заказа: %w", op, err)
	}
	defer rows.Close()

	var fragments []*storage.Fragment
	for rows.Next() {
		var f storage.Fragment
		var date time.Time
		var workerID sql.NullInt64

		err := rows.Scan(&f.ID, &f.OrderID, &f.ProductID, &f.Seq, &f.Quantity, &date,
			&f.Status, &f.Progress, &f.Value, &workerID, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		f.Date = date.Format(storage.DateLayout)
		if workerID.Valid {
			f.WorkerID = &workerID.Int64
		}

		fragments = append(fragments, &f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка сканирования строк: %w", op, err)
	}

	return fragments, nil
}

// ReplaceOrderFragments записывает итоговый список партий заказа целиком:
// старые строки заказа сносятся и вставляется то, что пришло после сведения.
func (s *Storage) ReplaceOrderFragments(ctx context.Context, orderID int64, fragments []*storage.Fragment) error {
	const op = "storage.mysql.ReplaceOrderFragments"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}

	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM track_fragments WHERE order_id = ?`, orderID)
	if err != nil {
		return fmt.Errorf("%s: ошибка очистки старых партий: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO track_fragments
			(id, order_id, product_id, seq, quantity, date, status, progress, value, worker_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	for _, f := range fragments {
		var workerID interface{}
		if f.WorkerID != nil {
			workerID = *f.WorkerID
		}

		_, err := stmt.ExecContext(ctx, f.ID, f.OrderID, f.ProductID, f.Seq, f.Quantity, f.Date,
			f.Status, f.Progress, f.Value, workerID, f.CreatedAt, f.UpdatedAt)
		if err != nil {
			return fmt.Errorf("%s: ошибка записи партии id=%s: %w", op, f.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Storage) UpdateFragment(ctx context.Context, id string, upd storage.FragmentUpdate) error {
	const op = "storage.mysql.UpdateFragment"

	var set []string
	var args []interface{}

	if upd.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.Progress != nil {
		set = append(set, "progress = ?")
		args = append(args, *upd.Progress)
	}
	if upd.Date != nil {
		set = append(set, "date = ?")
		args = append(args, *upd.Date)
	}
	if upd.WorkerID != nil {
		set = append(set, "worker_id = ?")
		args = append(args, *upd.WorkerID)
	}

	if len(set) == 0 {
		return fmt.Errorf("%s: пустое обновление", op)
	}

	set = append(set, "updated_at = NOW()")
	args = append(args, id)

	stmt := fmt.Sprintf(`UPDATE track_fragments SET %s WHERE id = ?`, strings.Join(set, ", "))

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления партии id=%s: %w", op, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: id=%s: %w", op, id, ErrFragmentNotFound)
	}

	return nil
}
