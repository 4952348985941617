package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"frag-golang/internal/storage"
	"frag-golang/internal/storage/mysql"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, filter mysql.ScheduleFilter) ([]byte, error)
}

func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GenerateReportExcel"

		fromStr := r.URL.Query().Get("from")
		toStr := r.URL.Query().Get("to")
		orderNum := r.URL.Query().Get("order_num")

		// Без явного периода отчёт собирается за текущий месяц
		now := time.Now()
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		fDate, err := time.Parse(storage.DateLayout, fromStr)
		if err != nil && fromStr != "" {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		if fromStr == "" {
			fDate = startOfMonth
		}

		tDate, err := time.Parse(storage.DateLayout, toStr)
		if err != nil && toStr != "" {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		if toStr == "" {
			tDate = startOfMonth.AddDate(0, 1, -1)
		}

		filter := mysql.ScheduleFilter{
			From:     fDate,
			To:       tDate,
			OrderNum: orderNum,
		}

		// Excel собирается дольше обычного запроса
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, filter)
		if err != nil {
			log.Error("failed to generate excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("Schedule_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
