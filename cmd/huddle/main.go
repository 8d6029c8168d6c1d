package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ldi/huddle/internal/mcp"
	"github.com/ldi/huddle/internal/server"
	"github.com/ldi/huddle/internal/storage"
	"github.com/ldi/huddle/internal/store"
	"github.com/ldi/huddle/internal/ui"
	"github.com/ldi/huddle/pkg/models"
)

var dbPath string

func main() {
	flag.StringVar(&dbPath, "db-path", ".huddle/huddle.db", "Path to database file")
	flag.Parse()

	var command string
	var args []string

	if flag.NArg() == 0 {
		selected, err := ui.RunMenu()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
			os.Exit(1)
		}
		if selected == "" {
			os.Exit(0)
		}
		command = selected
		args = []string{}
	} else {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	var err error
	switch command {
	case "init":
		err = runInit(args)
	case "mcp":
		err = runMCP(args)
	case "web":
		err = runWeb(args)
	case "standup":
		err = runStandup(args)
	case "board":
		err = runBoard(args)
	case "list-tickets":
		err = runListTickets(args)
	case "list-ideas":
		err = runListIdeas(args)
	case "status":
		err = runStatus(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore() (*store.Store, storage.Storage, error) {
	st, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return store.New(st), st, nil
}

func runInit(args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	huddleDir := filepath.Join(targetDir, ".huddle")
	if err := os.MkdirAll(huddleDir, 0755); err != nil {
		return fmt.Errorf("failed to create .huddle directory: %w", err)
	}
	fmt.Println("✓ Created .huddle/ directory")

	gitignorePath := filepath.Join(huddleDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("huddle.db*\n"), 0644); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}
	fmt.Println("✓ Created .huddle/.gitignore")

	// Default path if not overridden by flags
	finalDbPath := dbPath
	if dbPath == ".huddle/huddle.db" {
		finalDbPath = filepath.Join(huddleDir, "huddle.db")
	}

	sqlStorage, err := storage.OpenSQLite(finalDbPath)
	if err != nil {
		return err
	}
	defer sqlStorage.Close()

	s := store.New(sqlStorage)
	fmt.Printf("✓ Initialized database at %s\n", finalDbPath)

	// Seed a default organization on first run
	if len(s.ListOrganizations()) == 0 {
		org := &models.Organization{
			Name: "default",
			Plan: "free",
		}
		if err := s.CreateOrganization(org); err != nil {
			return fmt.Errorf("failed to seed default organization: %w", err)
		}
		fmt.Println("✓ Seeded default organization")
	}

	fmt.Println("✓ Huddle initialized successfully")
	return nil
}

func runMCP(args []string) error {
	s, sqlStorage, err := openStore()
	if err != nil {
		return err
	}
	defer sqlStorage.Close()

	srv := mcp.NewServer(s)
	return mcp.Serve(srv)
}

func runWeb(args []string) error {
	webFlags := flag.NewFlagSet("web", flag.ContinueOnError)
	port := webFlags.String("port", "8000", "Port to listen on")
	if err := webFlags.Parse(args); err != nil {
		return err
	}

	s, sqlStorage, err := openStore()
	if err != nil {
		return err
	}
	defer sqlStorage.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(s)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Listening on http://localhost:%s\n", *port)
	if err := srv.Start(fmt.Sprintf(":%s", *port)); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func runStandup(args []string) error {
	s, sqlStorage, err := openStore()
	if err != nil {
		return err
	}
	defer sqlStorage.Close()

	if len(args) > 0 && args[0] == "history" {
		reports := s.ListStandupReports()
		if len(reports) == 0 {
			fmt.Println("No standup reports recorded yet")
			return nil
		}
		for _, r := range reports {
			fmt.Println(ui.RenderStandupReport(r))
		}
		return nil
	}

	return ui.RunStandup(s)
}

func runBoard(args []string) error {
	s, sqlStorage, err := openStore()
	if err != nil {
		return err
	}
	defer sqlStorage.Close()

	fmt.Println(ui.RenderBoard(s.Board()))
	return nil
}

func runListTickets(args []string) error {
	ticketFlags := flag.NewFlagSet("list-tickets", flag.ContinueOnError)
	statusFilter := ticketFlags.String("status", "", "Filter by status (backlog, in_progress, done, ...)")
	assigneeFilter := ticketFlags.String("assignee", "", "Filter by assignee user ID")
	if err := ticketFlags.Parse(args); err != nil {
		return err
	}

	s, sqlStorage, err := openStore()
	if err != nil {
		return err
	}
	defer sqlStorage.Close()

	tickets := s.ListTickets(store.TicketFilter{
		Status:   models.TicketStatus(*statusFilter),
		Assignee: *assigneeFilter,
	})

	fmt.Printf("%-30s %-12s %-10s %-15s\n", "TITLE", "STATUS", "PRIORITY", "ASSIGNEE")
	fmt.Println("----------------------------------------------------------------------")
	for _, t := range tickets {
		assignee := t.Assignee
		if u := s.GetUser(t.Assignee); u != nil {
			assignee = u.Name
		}
		fmt.Printf("%-30s %-12s %-10s %-15s\n", t.Title, t.Status, t.Priority, assignee)
	}
	return nil
}

func runListIdeas(args []string) error {
	s, sqlStorage, err := openStore()
	if err != nil {
		return err
	}
	defer sqlStorage.Close()

	fmt.Printf("%-30s %-12s %-10s\n", "TITLE", "STATUS", "COMMENTS")
	fmt.Println("------------------------------------------------------")
	for _, i := range s.ListIdeas() {
		fmt.Printf("%-30s %-12s %-10d\n", i.Title, i.Status, len(i.Comments))
	}
	return nil
}

func runStatus(args []string) error {
	s, sqlStorage, err := openStore()
	if err != nil {
		return err
	}
	defer sqlStorage.Close()

	users := s.ListUsers()
	counts := s.StatusCounts()
	var total int
	for _, n := range counts {
		total += n
	}

	fmt.Println("Huddle Project Status")
	fmt.Println("=====================")
	fmt.Printf("Users:           %d\n", len(users))
	fmt.Printf("Total Tickets:   %d\n", total)
	fmt.Printf("Ideas:           %d\n", len(s.ListIdeas()))
	fmt.Printf("Standup Reports: %d\n", len(s.ListStandupReports()))

	fmt.Println("\nTicket Breakdown:")
	fmt.Printf("  Backlog:     %d\n", counts[models.TicketStatusBacklog])
	fmt.Printf("  In Progress: %d\n", counts[models.TicketStatusInProgress])
	fmt.Printf("  In Review:   %d\n", counts[models.TicketStatusInReview])
	fmt.Printf("  Done:        %d\n", counts[models.TicketStatusDone])

	var blocked []string
	for _, u := range users {
		if u.IsBlocked {
			blocked = append(blocked, fmt.Sprintf("%s (%s)", u.Name, u.BlockerReason))
		}
	}
	if len(blocked) > 0 {
		fmt.Println("\nBlocked:")
		for _, b := range blocked {
			fmt.Printf("  - %s\n", b)
		}
	}

	return nil
}
