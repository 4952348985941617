package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getfragments "frag-golang/http-server/fragments/get"
	recalcfragments "frag-golang/http-server/fragments/recalculate"
	savefragments "frag-golang/http-server/fragments/save"
	upfragments "frag-golang/http-server/fragments/update"
	generate_excel "frag-golang/http-server/generate-report/generate-excel"
	getorder "frag-golang/http-server/orders/get"
	getworkers "frag-golang/http-server/workers/get"
	saveworkers "frag-golang/http-server/workers/save"
	upworkers "frag-golang/http-server/workers/update"
	"frag-golang/internal/config"
	"frag-golang/internal/middleware/auth"
	"frag-golang/internal/service/fragment"
	"frag-golang/internal/service/schedule"
	"frag-golang/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, fragService *fragment.Service, schedService *schedule.Service) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Список заказов за месяц либо по поисковой строке
	router.Get("/api/orders", getorder.GetOrdersFilter(log, storage))
	router.Get("/api/orders/order/{orderNum}", getorder.GetOrderDetails(log, storage))

	// Форма разбивки: партии заказа, живой пересчёт, сохранение
	router.Get("/api/fragments/{orderNum}", getfragments.GetOrderFragments(log, storage))
	router.Post("/api/fragments/recalculate", recalcfragments.RecalculateFragments(log, fragService))
	router.Post("/api/fragments/save", savefragments.SaveOrderFragments(log, fragService))

	// Ход выполнения партии: статус, готовность, исполнитель
	router.Put("/api/fragments/update/{id}", upfragments.UpdateFragment(log, storage))

	// Исполнители для назначения на партии
	router.Get("/api/workers/all", getworkers.GetWorkers(log, storage))

	// Производственный график в excel
	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, schedService))

	// Админка: справочник работников
	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/workers", getworkers.GetWorkers(log, storage))
	adminRouter.Post("/workers/save", saveworkers.SaveWorker(log, storage))
	adminRouter.Put("/workers/update/{id}", upworkers.UpdateWorker(log, storage))

	router.Mount("/api/admin", adminRouter)

	// Статика фронтенда, vue
	frontendDir := "./frontend-dist"
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Warn("Папка фронтенда не найдена, отдаём только API", "path", frontendDir)
		return router
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	// SPA fallback: любой другой путь → index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, r.URL.Path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
