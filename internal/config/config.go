package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	// Path to the question bank JSON file.
	BankPath string

	CORSOrigins []string

	AuthHMACSecret string
	AdminPassHash  string // bcrypt

	// Exam-mode policy (mirrors the paper exam: 50 questions, 2 points each, pass at 70).
	ExamQuestions int
	ExamPointsPer float64
	ExamPassScore float64

	// Default question count for a practice round when the client doesn't ask for one.
	PracticeDefault int

	TelegramToken string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:  addr,
		PublicURL: os.Getenv("PUBLIC_URL"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BankPath: envOr("BANK_PATH", "./data/questions.json"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),

		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminPassHash:  envOr("ADMIN_PASS_HASH", ""),

		ExamQuestions: envInt("EXAM_QUESTIONS", 50),
		ExamPointsPer: envFloat("EXAM_POINTS_PER", 2),
		ExamPassScore: envFloat("EXAM_PASS_SCORE", 70),

		PracticeDefault: envInt("PRACTICE_DEFAULT", 10),

		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
