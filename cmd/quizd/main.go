package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/netzero-prep/netzero-quiz/internal/api/http"
	"github.com/netzero-prep/netzero-quiz/internal/auth"
	"github.com/netzero-prep/netzero-quiz/internal/bank"
	"github.com/netzero-prep/netzero-quiz/internal/config"
	"github.com/netzero-prep/netzero-quiz/internal/db"
	"github.com/netzero-prep/netzero-quiz/internal/quiz"
	"github.com/netzero-prep/netzero-quiz/internal/stats"
)

func main() {
	cfg := config.FromEnv()

	// --- Question bank ---
	b, err := bank.Load(cfg.BankPath)
	if err != nil {
		log.Fatalf("load bank: %v", err)
	}
	holder := bank.NewHolder(b)

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	policy := quiz.Policy{
		ExamQuestions:   cfg.ExamQuestions,
		PointsPer:       cfg.ExamPointsPer,
		PassScore:       cfg.ExamPassScore,
		PracticeDefault: cfg.PracticeDefault,
	}
	store := quiz.NewSQLStore(dbh, holder, policy)
	recorder := stats.NewRecorder(dbh)

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Admin-Password"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/guest", auth.GuestHandler(authSvc))

	// Bank browse/search is open; only sessions need a guest identity.
	r.Route("/bank", func(br chi.Router) {
		br.Get("/subjects", api.ListSubjectsHandler(holder))
		br.Get("/questions/{questionID}", api.GetQuestionHandler(holder))
		br.Get("/questions/{questionID}/similar", api.SimilarHandler(holder))
		br.Get("/search", api.SearchHandler(holder))
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Post("/sessions", api.CreateSessionHandler(store, holder))
		pr.Get("/sessions/{sessionID}", api.GetSessionHandler(store, holder))
		pr.Post("/sessions/{sessionID}/answers", api.AnswerHandler(store, holder))
		pr.Post("/sessions/{sessionID}/skip", api.SkipHandler(store, holder))
		pr.Post("/sessions/{sessionID}/seek", api.SeekHandler(store, holder))
		pr.Post("/sessions/{sessionID}/submit", api.SubmitHandler(store, recorder))
		pr.Get("/sessions/{sessionID}/result", api.ResultHandler(store))
		pr.Get("/history", api.HistoryHandler(store))

		pr.Get("/stats/questions", api.WeakestQuestionsHandler(recorder))
		pr.Get("/stats/subjects", api.SubjectStatsHandler(recorder))
	})

	r.Post("/admin/bank/reload", api.ReloadBankHandler(holder, cfg.BankPath, cfg.AdminPassHash))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s, bank=%d questions)", cfg.HTTPAddr, cfg.DBDriver, b.Len())
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
