package main

import (
	"context"
	"flag"
	"log"
	"os"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"

	"github.com/joho/godotenv"
)

func main() {
	filePath := flag.String("file", "", "path to the products CSV file")
	flag.Parse()

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if *filePath == "" {
		logger.Fatal("missing required flag: -file")
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	f, err := os.Open(*filePath)
	if err != nil {
		logger.Fatalf("open csv file: %v", err)
	}
	defer f.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)

	result, err := importer.NewService(productRepo, categoryRepo).Import(ctx, f)
	if err != nil {
		logger.Fatalf("import: %v", err)
	}

	logger.Printf("import finished created=%d updated=%d failed=%d", result.Created, result.Updated, len(result.Errors))
	for _, e := range result.Errors {
		logger.Printf("import error: %s", e)
	}
}
