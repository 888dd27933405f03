package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config описывает внешнее окружение клиента: адреса двух бэкенд-сервисов,
// токен бота и параметры базы данных для хранения сессий.
type Config struct {
	APIURL   string // общий API (каталог направлений, брони)
	AuthURL  string // сервис аутентификации (/token, /register)
	BotToken string
	OpsAddr  string // адрес служебного HTTP-интерфейса

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string
}

// Load читает конфигурацию из переменных окружения (и .env, если он есть).
// Значения по умолчанию соответствуют локальной разработке; в продуктиве
// адреса сервисов задаются снаружи (например, маршрутами Ingress).
func Load() Config {
	godotenv.Load()
	return Config{
		APIURL:   getenv("API_URL", "http://localhost:8000"),
		AuthURL:  getenv("AUTH_URL", "http://localhost:8001"),
		BotToken: os.Getenv("BOT_TOKEN"),
		OpsAddr:  getenv("OPS_ADDR", ":8080"),
		DBHost:   getenv("DB_HOST", "localhost"),
		DBPort:   getenv("DB_PORT", "5432"),
		DBUser:   os.Getenv("DB_USER"),
		DBPass:   os.Getenv("DB_PASS"),
		DBName:   os.Getenv("DB_NAME"),
	}
}

// DSN собирает строку подключения к базе данных сессий.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName,
	)
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
