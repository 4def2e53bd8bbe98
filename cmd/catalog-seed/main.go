package main

import (
	"context"
	"log"
	"math/rand/v2"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"

	catalog "github.com/goliatone/go-catalog"
)

// SeedConfig holds the seeder environment.
type SeedConfig struct {
	DSN string `env:"DSN" envDefault:"file:catalog.db?cache=shared"`
}

// catalog-seed assigns a random author to every book missing one, so list
// responses carry a populated author relation during development.
func main() {
	cfg := SeedConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatal("config: ", err)
	}

	db, err := catalog.OpenDB(cfg.DSN)
	if err != nil {
		log.Fatal("open database: ", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := catalog.NewRepositoryManager(db)

	authors, err := repo.Authors().List(ctx, catalog.PageRequest{Page: 1, Limit: 1000})
	if err != nil {
		log.Fatal("list authors: ", err)
	}

	if len(authors) == 0 {
		log.Println("no authors to assign, run the server and register some first")
		os.Exit(0)
	}

	books, err := repo.Books().List(ctx, catalog.PageRequest{Page: 1, Limit: 1000})
	if err != nil {
		log.Fatal("list books: ", err)
	}

	assigned := 0
	for _, book := range books {
		if book.AuthorID != uuid.Nil {
			continue
		}

		book.AuthorID = authors[rand.IntN(len(authors))].ID
		if _, err := repo.Books().Update(ctx, book); err != nil {
			log.Fatal("update book: ", err)
		}
		assigned++
	}

	log.Printf("assigned authors to %d of %d books", assigned, len(books))
}
