/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance service. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Build the staff roster (persisted staff + optional YAML file)
  4. Create the reconciliation engine and HTTP handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: attendance.db)
           Use ":memory:" for an in-memory database
  -tz      Reporting time zone, IANA name (default: UTC)
  -roster  Optional YAML roster file to load at startup

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clockline/attendance-engine/api"
	"github.com/clockline/attendance-engine/attendance"
	"github.com/clockline/attendance-engine/directory"
	"github.com/clockline/attendance-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "attendance.db", "SQLite database path")
	tzName := flag.String("tz", "UTC", "reporting time zone (IANA name)")
	rosterPath := flag.String("roster", "", "YAML roster file to load at startup")
	flag.Parse()

	loc, err := time.LoadLocation(*tzName)
	if err != nil {
		log.Fatalf("Invalid time zone %q: %v", *tzName, err)
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	roster := directory.NewRoster()

	// Persisted staff first, then the roster file on top.
	staff, err := store.ListStaff(context.Background())
	if err != nil {
		log.Fatalf("Failed to load staff: %v", err)
	}
	for _, s := range staff {
		roster.Add(directory.Member{ID: s.ID, Name: s.Name, Phone: s.Phone})
	}
	if *rosterPath != "" {
		n, err := directory.LoadInto(roster, *rosterPath)
		if err != nil {
			log.Fatalf("Failed to load roster %s: %v", *rosterPath, err)
		}
		log.Printf("Loaded %d roster entries from %s", n, *rosterPath)
	}

	engine := attendance.NewEngine(store, roster, loc)
	handler := api.NewHandler(engine, store, roster)
	handler.StaffStore = store
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Attendance service listening on :%d (zone %s)", *port, loc)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
