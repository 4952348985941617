package schedule

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"frag-golang/internal/storage"
	"frag-golang/internal/storage/mysql"
)

type ScheduleStorage interface {
	GetScheduleRows(ctx context.Context, filter mysql.ScheduleFilter) ([]storage.ScheduleRow, error)
}

type Service struct {
	storage ScheduleStorage
}

func NewService(storage ScheduleStorage) *Service {
	return &Service{storage: storage}
}

var statusLabels = map[string]string{
	storage.FragmentStatusPending:    "Ожидает",
	storage.FragmentStatusInProgress: "В работе",
	storage.FragmentStatusCompleted:  "Готово",
	storage.FragmentStatusCancelled:  "Отменено",
}

// GenerateExcel собирает производственный график по партиям за период.
func (s *Service) GenerateExcel(ctx context.Context, filter mysql.ScheduleFilter) ([]byte, error) {
	const op = "service.schedule.GenerateExcel"

	schedule, err := s.storage.GetScheduleRows(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "График производства"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	headers := []string{"Дата", "№ Заказа", "Заказчик", "Изделие", "Партия", "Кол-во", "Статус", "Готовность, %", "Стоимость", "Исполнитель"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	totalQuantity := 0
	totalValue := decimal.Zero

	for i, row := range schedule {
		worker := ""
		if row.WorkerName != nil {
			worker = *row.WorkerName
		}

		status := row.Status
		if label, ok := statusLabels[status]; ok {
			status = label
		}

		value, _ := row.Value.Float64()
		values := []interface{}{
			row.Date,
			row.OrderNum,
			row.Customer,
			row.ProductName,
			row.Seq,
			row.Quantity,
			status,
			row.Progress,
			value,
			worker,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}

		totalQuantity += row.Quantity
		totalValue = totalValue.Add(row.Value)
	}

	// Итоговая строка
	totalRow := len(schedule) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "ИТОГО")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", totalRow), totalQuantity)
	totalValueFloat, _ := totalValue.Float64()
	f.SetCellValue(sheet, fmt.Sprintf("I%d", totalRow), totalValueFloat)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("J%d", totalRow), headerStyle)

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "D", 20)
	f.SetColWidth(sheet, "G", "J", 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("%s: ошибка записи файла: %w", op, err)
	}

	return buf.Bytes(), nil
}
