package schedule

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"frag-golang/internal/storage"
	"frag-golang/internal/storage/mysql"
)

type MockScheduleStorage struct {
	mock.Mock
}

func (m *MockScheduleStorage) GetScheduleRows(ctx context.Context, filter mysql.ScheduleFilter) ([]storage.ScheduleRow, error) {
	args := m.Called(ctx, filter)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	rows, ok := args.Get(0).([]storage.ScheduleRow)
	if !ok {
		return nil, fmt.Errorf("expected []storage.ScheduleRow, got %T", args.Get(0))
	}

	return rows, args.Error(1)
}

func TestGenerateExcel(t *testing.T) {
	mockStorage := new(MockScheduleStorage)

	worker := "Иванов И.И."
	rows := []storage.ScheduleRow{
		{OrderNum: "Q6-100", Customer: "ООО Заказчик", ProductName: "Шкаф-купе 2200", Seq: 1,
			Quantity: 40, Date: "2026-03-02", Status: storage.FragmentStatusPending, Progress: 0,
			Value: decimal.NewFromInt(200)},
		{OrderNum: "Q6-100", Customer: "ООО Заказчик", ProductName: "Шкаф-купе 2200", Seq: 2,
			Quantity: 60, Date: "2026-03-03", Status: storage.FragmentStatusInProgress, Progress: 30,
			Value: decimal.NewFromInt(300), WorkerName: &worker},
	}

	mockStorage.On("GetScheduleRows", mock.Anything, mock.Anything).Return(rows, nil)

	service := NewService(mockStorage)

	filter := mysql.ScheduleFilter{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	data, err := service.GenerateExcel(context.Background(), filter)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := "График производства"

	// Шапка
	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Дата", header)

	// Строки партий
	date, _ := f.GetCellValue(sheet, "A2")
	assert.Equal(t, "2026-03-02", date)

	status, _ := f.GetCellValue(sheet, "G3")
	assert.Equal(t, "В работе", status)

	workerCell, _ := f.GetCellValue(sheet, "J3")
	assert.Equal(t, worker, workerCell)

	// Итоговая строка
	total, _ := f.GetCellValue(sheet, "A4")
	assert.Equal(t, "ИТОГО", total)

	totalQuantity, _ := f.GetCellValue(sheet, "F4")
	assert.Equal(t, "100", totalQuantity)

	totalValue, _ := f.GetCellValue(sheet, "I4")
	assert.Equal(t, "500", totalValue)

	mockStorage.AssertExpectations(t)
}

func TestGenerateExcel_StorageError(t *testing.T) {
	mockStorage := new(MockScheduleStorage)

	mockStorage.On("GetScheduleRows", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	service := NewService(mockStorage)

	_, err := service.GenerateExcel(context.Background(), mysql.ScheduleFilter{})

	assert.Error(t, err)
}
