package mysql

import (
	"context"
	"fmt"
	"strings"

	"frag-golang/internal/storage"
)

func (s *Storage) GetWorkers(ctx context.Context, onlyActive bool) ([]*storage.Worker, error) {
	const op = "storage.mysql.GetWorkers"

	stmt := `SELECT id, name, position, is_active FROM track_workers`
	if onlyActive {
		stmt += ` WHERE is_active = TRUE`
	}
	stmt += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения списка работников: %w", op, err)
	}
	defer rows.Close()

	var workers []*storage.Worker
	for rows.Next() {
		var w storage.Worker

		err := rows.Scan(&w.ID, &w.Name, &w.Position, &w.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		workers = append(workers, &w)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка сканирования строк: %w", op, err)
	}

	return workers, nil
}

func (s *Storage) SaveWorker(ctx context.Context, worker storage.SaveWorker) (int64, error) {
	const op = "storage.mysql.SaveWorker"

	stmt := `INSERT INTO track_workers (name, position, is_active) VALUES (?, ?, TRUE)`

	res, err := s.db.ExecContext(ctx, stmt, worker.Name, worker.Position)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения работника: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) UpdateWorker(ctx context.Context, id int64, upd storage.UpdateWorker) error {
	const op = "storage.mysql.UpdateWorker"

	var set []string
	var args []interface{}

	if upd.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Position != nil {
		set = append(set, "position = ?")
		args = append(args, *upd.Position)
	}
	if upd.IsActive != nil {
		set = append(set, "is_active = ?")
		args = append(args, *upd.IsActive)
	}

	if len(set) == 0 {
		return fmt.Errorf("%s: пустое обновление", op)
	}

	args = append(args, id)

	stmt := fmt.Sprintf(`UPDATE track_workers SET %s WHERE id = ?`, strings.Join(set, ", "))

	_, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления работника id=%d: %w", op, id, err)
	}

	return nil
}
