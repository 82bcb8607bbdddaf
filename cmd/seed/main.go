// Seed loads a set of example experts so a fresh deployment has a browsable
// directory. Seeded records carry is_example = true: the admin panel shows
// them but refuses to mutate or delete them. Run the API server once first
// so the schema exists.
package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"bookdocker/internal/middleware/auth"
)

type seedBook struct {
	title  string
	author string
	year   int
	status string
}

type seedWant struct {
	title  string
	author string
}

type seedSpotlight struct {
	title   string
	content string
}

type seedExpert struct {
	name       string
	email      string
	genre      string
	country    string
	bio        string
	tier       string
	books      []seedBook
	want       *seedWant
	spotlights []seedSpotlight
}

var experts = []seedExpert{
	{
		name:    "Margaret Holloway",
		email:   "margaret.holloway@example.com",
		genre:   "Victorian Literature",
		country: "United Kingdom",
		bio:     "Three decades of collecting first editions from the Brontë circle and beyond.",
		tier:    "premium",
		books: []seedBook{
			{title: "Jane Eyre", author: "Charlotte Brontë", year: 1847, status: "available"},
			{title: "Wuthering Heights", author: "Emily Brontë", year: 1847, status: "available"},
			{title: "Middlemarch", author: "George Eliot", year: 1871, status: "reserved"},
		},
		want: &seedWant{title: "Villette", author: "Brontë"},
		spotlights: []seedSpotlight{
			{title: "On collecting the Brontës", content: "Why the 1847 printings still surface in unexpected places, and what to check before you buy."},
		},
	},
	{
		name:    "Tomás Ferreira",
		email:   "tomas.ferreira@example.com",
		genre:   "Latin American Fiction",
		country: "Portugal",
		bio:     "Specialist in Boom-era novels and their early European translations.",
		tier:    "premium",
		books: []seedBook{
			{title: "One Hundred Years of Solitude", author: "Gabriel García Márquez", year: 1967, status: "available"},
			{title: "Hopscotch", author: "Julio Cortázar", year: 1963, status: "available"},
		},
		want: &seedWant{title: "Pedro Páramo", author: "Juan Rulfo"},
	},
	{
		name:    "Ingrid Svensson",
		email:   "ingrid.svensson@example.com",
		genre:   "Science Fiction",
		country: "Sweden",
		bio:     "Golden-age paperbacks, with a soft spot for forgotten Scandinavian pulp.",
		tier:    "free",
		books: []seedBook{
			{title: "Foundation", author: "Isaac Asimov", year: 1951, status: "available"},
			{title: "The Left Hand of Darkness", author: "Ursula K. Le Guin", year: 1969, status: "sold"},
		},
		want: &seedWant{title: "Solaris", author: "Lem"},
	},
	{
		name:    "Daniel Okafor",
		email:   "daniel.okafor@example.com",
		genre:   "African Literature",
		country: "Nigeria",
		bio:     "Building the definitive shelf of post-independence West African novels.",
		tier:    "free",
		books: []seedBook{
			{title: "Things Fall Apart", author: "Chinua Achebe", year: 1958, status: "available"},
		},
	},
}

func main() {
	log.Println("Starting example data seed...")

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	if err := conn.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✓ Connected to database")

	// All seed accounts share one throwaway password. Nobody is meant to
	// log into them.
	passwordHash, err := auth.HashPassword("example-only-" + uuid.New().String())
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	bookCount, wantCount, spotlightCount := 0, 0, 0

	batch := &pgx.Batch{}
	for _, e := range experts {
		expertID := uuid.New().String()

		batch.Queue(`
			INSERT INTO experts (id, name, email, password_hash, role, status, subscription_tier, genre, country, bio, on_leave, is_example, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 'expert', 'active', $5, $6, $7, $8, false, true, now(), now())
			ON CONFLICT (email) DO NOTHING`,
			expertID, e.name, e.email, passwordHash, e.tier, e.genre, e.country, e.bio,
		)

		for _, b := range e.books {
			batch.Queue(`
				INSERT INTO books (id, expert_id, title, author, year, status, added_at)
				VALUES ($1, $2, $3, $4, $5, $6, now())`,
				uuid.New().String(), expertID, b.title, b.author, b.year, b.status,
			)
			bookCount++
		}

		if e.want != nil {
			batch.Queue(`
				INSERT INTO book_queries (expert_id, title, author)
				VALUES ($1, $2, $3)`,
				expertID, e.want.title, e.want.author,
			)
			wantCount++
		}

		for i, sp := range e.spotlights {
			batch.Queue(`
				INSERT INTO spotlights (id, expert_id, title, content, position)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.New().String(), expertID, sp.title, sp.content, i,
			)
			spotlightCount++
		}
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			log.Fatalf("Seed statement %d failed: %v", i+1, err)
		}
	}
	if err := results.Close(); err != nil {
		log.Fatalf("Failed to close batch: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit transaction: %v", err)
	}

	log.Printf("✓ Experts: %d", len(experts))
	log.Printf("✓ Books: %d", bookCount)
	log.Printf("✓ Wants: %d", wantCount)
	log.Printf("✓ Spotlights: %d", spotlightCount)
	log.Println("Seed complete")
}
