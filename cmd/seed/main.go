package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"librarycatalog/internal/auth"
	"librarycatalog/internal/book"
	"librarycatalog/internal/config"
	"librarycatalog/internal/enrich"
	"librarycatalog/internal/logger"
	"librarycatalog/internal/platform/openlibrary"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// seeder is the catalog surface used to seed records.
type seeder interface {
	Create(ctx context.Context, session auth.Session, d book.Draft) (book.Book, error)
}

type enricher interface {
	Enrich(ctx context.Context, session auth.Session, d book.Draft, rawISBN string) (enrich.Result, error)
}

var seedSession = auth.Session{UserID: "seed", Role: auth.RoleAdmin}

func main() {
	useLookup := flag.Bool("enrich", false, "Fill drafts from Open Library before inserting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("cannot build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	service := book.NewService(book.NewPostgresRepo(pool, cfg.DBTimeout), log.Named("book"), time.Now)

	var lookup enricher
	if *useLookup {
		client := openlibrary.NewClient(openlibrary.Config{
			BaseURL:   cfg.OpenLibraryBaseURL,
			UserAgent: cfg.OpenLibraryUserAgent,
			RPS:       cfg.OpenLibraryRPS,
			Timeout:   cfg.LookupTimeout,
		})
		lookup = enrich.NewService(client, log.Named("enrich"))
	}

	created, skipped := seed(ctx, service, lookup, sampleDrafts(), log)
	log.Info("seed finished", zap.Int("created", created), zap.Int("skipped", skipped))
}

// seed inserts each draft, optionally enriching it first. Records that fail
// validation or already exist are skipped.
func seed(ctx context.Context, s seeder, lookup enricher, drafts []book.Draft, log *zap.Logger) (created, skipped int) {
	for _, d := range drafts {
		if lookup != nil {
			res, err := lookup.Enrich(ctx, seedSession, d, d.ISBN)
			if err != nil {
				log.Warn("enrichment skipped", zap.String("isbn", d.ISBN), zap.Error(err))
			} else {
				d = res.Draft
			}
		}

		b, err := s.Create(ctx, seedSession, d)
		switch {
		case err == nil:
			created++
			log.Debug("seeded", zap.String("id", b.ID), zap.String("title", b.Title))
		case errors.Is(err, book.ErrValidation), errors.Is(err, book.ErrDuplicateISBN):
			skipped++
			log.Warn("record skipped", zap.String("isbn", d.ISBN), zap.Error(err))
		default:
			log.Fatal("failed to seed", zap.String("isbn", d.ISBN), zap.Error(err))
		}
	}
	return created, skipped
}

func sampleDrafts() []book.Draft {
	return []book.Draft{
		{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", Category: book.CategoryFiction, PublishedYear: 1965, TotalCopies: 4, AvailableCopies: 3},
		{Title: "Emma", Author: "Jane Austen", ISBN: "9780141439587", Category: book.CategoryFiction, PublishedYear: 1815, TotalCopies: 2, AvailableCopies: 2},
		{Title: "A Brief History of Time", Author: "Stephen Hawking", ISBN: "9780553380163", Category: book.CategoryScience, PublishedYear: 1988, TotalCopies: 3, AvailableCopies: 1},
		{Title: "The Guns of August", Author: "Barbara W. Tuchman", ISBN: "9780345476098", Category: book.CategoryHistory, PublishedYear: 1962, TotalCopies: 1, AvailableCopies: 0},
		{Title: "The Go Programming Language", Author: "Alan A. A. Donovan, Brian W. Kernighan", ISBN: "9780134190440", Category: book.CategoryTechnology, PublishedYear: 2015, TotalCopies: 5, AvailableCopies: 5},
		{Title: "The Story of Art", Author: "E. H. Gombrich", ISBN: "9780714832470", Category: book.CategoryArts, PublishedYear: 1950, TotalCopies: 1, AvailableCopies: 1},
		{Title: "Educated", Author: "Tara Westover", ISBN: "9780399590504", Category: book.CategoryNonFiction, PublishedYear: 2018, TotalCopies: 2, AvailableCopies: 1},
		{Title: "Design Patterns", Author: "Erich Gamma", ISBN: "0201633612", Category: book.CategoryTechnology, PublishedYear: 1994, TotalCopies: 2, AvailableCopies: 2},
	}
}
