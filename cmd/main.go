package main

import (
    "log"
    "net/http"

    "github.com/joho/godotenv"

    "github.com/edutorium/battle-server/auth"
    "github.com/edutorium/battle-server/config"
    "github.com/edutorium/battle-server/handlers"
    "github.com/edutorium/battle-server/repository"
)

func main() {
    if err := godotenv.Load(); err != nil {
        log.Println("No .env file found, using process environment")
    }
    cfg := config.LoadConfig()

    var questions repository.QuestionSource = repository.SampleQuestions
    if cfg.DBHost != "" {
        db := repository.ConnectToPostgreSQL(cfg)
        questions = repository.NewQuestionStore(db).Questions
    } else {
        log.Println("DB_HOST not set, serving sample questions")
    }

    var verifier auth.Verifier
    if cfg.SupabaseURL != "" {
        verifier = auth.NewSupabaseVerifier(cfg.SupabaseURL, cfg.SupabaseAnonKey)
    } else {
        log.Println("SUPABASE_URL not set, verifying tokens locally")
        verifier = &auth.JWTVerifier{Secret: cfg.JWTSecret}
    }

    hub := handlers.NewHub(cfg, verifier, questions)
    go hub.Run()

    r := handlers.NewRouter(hub)

    log.Printf("Battle server running on %s", cfg.ListenAddr)
    if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
        log.Fatal(err)
    }
}
