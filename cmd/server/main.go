package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"ledgerlens/internal/config"
	forecasthandlers "ledgerlens/internal/handlers/forecast"
	"ledgerlens/internal/handlers/insights"
	"ledgerlens/internal/handlers/ledgerapi"
	"ledgerlens/internal/ledger"
	"ledgerlens/internal/services/audit"
	"ledgerlens/internal/services/storage"
	"ledgerlens/internal/version"
)

var cfg *config.Config

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}

	_ = godotenv.Load()

	// Load configuration
	cfg = config.Load()
	log.Printf("Starting ledgerlens %s on %s", version.Get().Version, cfg.ListenAddr)
	log.Printf("Data directory: %s", cfg.DataDirectory)

	if cfg.LedgerToken == "" {
		log.Fatal("LEDGERLENS_LEDGER_TOKEN is required")
	}

	// Snapshot store, unlocking encryption-at-rest if enabled
	store, err := storage.New(cfg.SnapshotDir)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	if store.IsEncrypted() {
		if err := unlockStore(store); err != nil {
			log.Fatalf("Failed to unlock snapshot store: %v", err)
		}
	}

	// Audit log for ledger writes
	auditStore, err := audit.Open(cfg.AuditDBPath)
	if err != nil {
		log.Fatalf("Failed to open audit store: %v", err)
	}
	defer auditStore.Close()

	// Ledger API client
	client := ledger.NewClient(cfg.LedgerURL, cfg.LedgerToken, ledger.Options{
		CacheTTL:          cfg.CacheTTL,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
	snapshots := ledger.NewSnapshotService(client, store)
	writer := ledger.NewWriter(client, auditStore)

	// Handler dependencies
	insights.Initialize(snapshots)
	forecasthandlers.Initialize(snapshots)
	ledgerapi.Initialize(client, writer)

	r := setupRouter()

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}

// setupRouter builds the chi router with middleware and all routes. Handler
// packages must be initialized first.
func setupRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Routes
	insights.RegisterRoutes(r)
	forecasthandlers.RegisterRoutes(r)
	ledgerapi.RegisterRoutes(r)

	// API routes
	r.Get("/api/health", handleHealth)

	return r
}

// unlockStore reads the snapshot passphrase from the environment, or from
// the terminal when running interactively.
func unlockStore(store *storage.Store) error {
	if pass := os.Getenv("LEDGERLENS_SNAPSHOT_PASSPHRASE"); pass != "" {
		return store.Unlock(pass)
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return fmt.Errorf("snapshot store is encrypted and LEDGERLENS_SNAPSHOT_PASSPHRASE is not set")
	}
	fmt.Fprint(os.Stderr, "Snapshot passphrase: ")
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read passphrase: %w", err)
	}
	return store.Unlock(string(pass))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": version.Get(),
	})
}
