package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/arjunkh87/bizdash/internal/config"
	"github.com/arjunkh87/bizdash/internal/domain/category"
	"github.com/arjunkh87/bizdash/internal/domain/user"
	fsrepo "github.com/arjunkh87/bizdash/internal/repo/firestore"
)

func strptr(s string) *string { return &s }

// demo merchants for a fresh project, keyed on fixed uids so the seed
// is idempotent and safe to rerun.
var demoUsers = []user.Patch{
	{
		ID:           "demo-ayesha",
		Name:         strptr("Ayesha Rahman"),
		Email:        strptr("ayesha@corner-books.example"),
		BusinessName: strptr("Corner Books"),
		CategoryID:   strptr("retail"),
	},
	{
		ID:           "demo-marco",
		Name:         strptr("Marco Silva"),
		Email:        strptr("marco@silvas-kitchen.example"),
		Phone:        strptr("+14155550123"),
		BusinessName: strptr("Silva's Kitchen"),
		CategoryID:   strptr("food"),
	},
	{
		ID:           "demo-lena",
		Name:         strptr("Lena Hoffmann"),
		Email:        strptr("lena@hoffmann.example"),
		BusinessName: strptr("Hoffmann Consulting"),
		CategoryID:   strptr(category.OtherID),
	},
}

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.ProjectID == "" {
		log.Fatal("seeding needs GOOGLE_PROJECT_ID, the in-memory store forgets on exit")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	client, err := fsrepo.NewClient(ctx, cfg.ProjectID, cfg.CredentialsFile)

	if err != nil {
		log.Fatalf("firestore connect failed: %v", err)
	}

	defer client.Close()

	store := fsrepo.NewUsersRepo(client, nil)

	for _, p := range demoUsers {
		u, err := store.Upsert(ctx, p)

		if err != nil {
			log.Fatalf("seed %s failed: %v", p.ID, err)
		}

		log.Printf("seeded %s (%s)", u.ID, u.BusinessName)
	}

	log.Println("seed complete")
}
