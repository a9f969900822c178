// cmd/db_seed/main.go
//
// 指定した名前でログイン (初回なら初期単語を配布) し、単語帳と進捗を表示する確認用ツール。
//
//	go run ./cmd/db_seed alice bob
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"go_vocab_quiz/internal/config"
	"go_vocab_quiz/internal/repository"
	"go_vocab_quiz/internal/service"
)

func main() {
	if err := config.LoadConfig("configs"); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	db, err := repository.NewDB(config.Cfg.Database.Driver, config.Cfg.Database.URL, logger)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()
	fmt.Printf("Connected to %s database\n", config.Cfg.Database.Driver)

	vocabRepo := repository.NewGormVocabularyRepository()
	progressRepo := repository.NewGormProgressRepository()
	identityService := service.NewIdentityService(db, repository.NewGormIdentityRepository(), vocabRepo, config.Cfg.Auth)
	vocabService := service.NewVocabularyService(db, vocabRepo, progressRepo)
	progressService := service.NewProgressService(db, progressRepo, vocabRepo)

	names := os.Args[1:]
	if len(names) == 0 {
		names = []string{"alice"}
	}

	ctx := context.Background()
	for _, name := range names {
		identity, created, err := identityService.Login(ctx, name)
		if err != nil {
			log.Printf("Failed to log in %q: %v", name, err)
			continue
		}
		fmt.Printf("\n--- %s (owner_id=%d, created=%t) ---\n", identity.Name, identity.ID, created)

		vocabs, err := vocabService.ListVocabulary(ctx, identity.ID)
		if err != nil {
			log.Printf("Failed to list vocabulary: %v", err)
			continue
		}
		for _, v := range vocabs {
			fmt.Printf("  [%3d] %-6s %-6s %-14s %s\n", v.ID, v.Prefix, v.Suffix, v.English, v.Translation)
		}

		summary, err := progressService.Summary(ctx, identity.ID)
		if err != nil {
			log.Printf("Failed to summarize progress: %v", err)
			continue
		}
		fmt.Printf("  answers=%d correct=%d accuracy=%.2f\n", summary.Total, summary.Correct, summary.Accuracy)
	}
}
