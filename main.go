package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"skillstream-backend/config"
	"skillstream-backend/controllers/authentication"
	"skillstream-backend/controllers/httpCors"
	"skillstream-backend/controllers/progress"
	"skillstream-backend/models/courses"
	"skillstream-backend/models/users"
	"skillstream-backend/services"
)

func main() {
	cfg := config.Load()

	// Инициализируем базу данных
	if err := config.InitDB(cfg); err != nil {
		log.Fatalf("Ошибка инициализации базы данных: %v", err)
	}

	// Выполняем миграцию базы данных
	err := config.DB.AutoMigrate(
		&users.User{},
		&courses.Module{},
		&courses.Video{},
		&courses.VideoProgress{},
	)
	if err != nil {
		log.Fatalf("Ошибка миграции базы данных: %v", err)
	}

	// Проверка подключения к базе данных
	sqlDB, err := config.DB.DB()
	if err != nil {
		log.Fatalf("Ошибка получения подключения к базе данных: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	log.Println("Подключение к базе данных успешно")

	accounts := services.NewAccountService(config.DB)
	tokens := services.NewTokenService(cfg)
	progressSvc := services.NewProgressService(config.DB)

	r := mux.NewRouter()

	r.HandleFunc("/api/register", func(w http.ResponseWriter, req *http.Request) {
		authentication.Register(w, req, accounts)
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/login", func(w http.ResponseWriter, req *http.Request) {
		authentication.Login(w, req, accounts, tokens)
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/profile", authentication.AuthMiddleware(tokens, func(w http.ResponseWriter, req *http.Request) {
		authentication.GetProfile(w, req, accounts)
	})).Methods(http.MethodGet)

	r.HandleFunc("/api/progress", authentication.AuthMiddleware(tokens, func(w http.ResponseWriter, req *http.Request) {
		progress.GetProgress(w, req, progressSvc)
	})).Methods(http.MethodGet)

	r.HandleFunc("/api/watched-videos", authentication.AuthMiddleware(tokens, func(w http.ResponseWriter, req *http.Request) {
		progress.GetWatchedVideos(w, req, progressSvc)
	})).Methods(http.MethodGet)

	r.HandleFunc("/api/update-progress", authentication.AuthMiddleware(tokens, func(w http.ResponseWriter, req *http.Request) {
		progress.UpdateProgress(w, req, progressSvc)
	})).Methods(http.MethodPost)

	r.HandleFunc("/api/current-module", authentication.AuthMiddleware(tokens, func(w http.ResponseWriter, req *http.Request) {
		progress.GetCurrentModule(w, req, progressSvc)
	})).Methods(http.MethodGet)

	r.HandleFunc("/api/next-module", authentication.AuthMiddleware(tokens, func(w http.ResponseWriter, req *http.Request) {
		progress.GetNextModule(w, req, progressSvc)
	})).Methods(http.MethodGet)

	handler := httpCors.CorsSettings().Handler(r)

	// Запускаем сервер
	log.Printf("Сервер запущен на порту %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
