package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/streambox/internal/adapter"
	"github.com/mmcdole/streambox/internal/app"
	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/tui"
	"github.com/mmcdole/streambox/internal/tui/styles"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

const maxLoginAttempts = 3

func main() {
	var showVersion, register bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&register, "register", false, "create a local account before signing in")
	flag.Parse()

	if showVersion {
		fmt.Printf("streambox %s\n", Version)
		return
	}

	if err := run(register); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(register bool) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		logger = adapter.NullLogger()
	} else {
		defer logCloser.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting streambox", "version", Version)

	if !cfg.IsConfigured() {
		fmt.Println("No catalog API key configured.")
		fmt.Println("Set STREAMBOX_CATALOG_API_KEY or TMDB_API_KEY, or add catalog.api_key to config.yaml.")
		fmt.Println()
	}

	a, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	ctx := context.Background()
	if !a.Start(ctx) || register {
		if err := runLoginFlow(ctx, a, register); err != nil {
			return err
		}
	}

	model := tui.NewModel(a)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	final, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.LoggedOut {
		fmt.Println("Signed out.")
	}

	logger.Info("shutting down")
	return nil
}

// runLoginFlow prompts for credentials until a session is established
func runLoginFlow(ctx context.Context, a *app.App, register bool) error {
	fmt.Println()
	if register {
		fmt.Println("Create a StreamBox account")
	} else {
		fmt.Println("Sign in to StreamBox")
	}
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		fmt.Print("Username: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		username := strings.TrimSpace(input)

		password, err := readPassword(reader)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		if username == "" || password == "" {
			fmt.Println("Username and password cannot be empty. Please try again.")
			continue
		}

		session, err := signInWithSpinner(ctx, a, username, password, register)
		if err != nil {
			var authErr *domain.AuthError
			if errors.As(err, &authErr) {
				fmt.Printf("✗ %s\n\n", authErr.Message)
			} else {
				fmt.Printf("✗ %v\n\n", err)
			}
			continue
		}

		fmt.Printf("✓ Signed in as %s\n", session.User.Username)
		return nil
	}

	return fmt.Errorf("too many failed attempts")
}

// readPassword reads without echo when stdin is a terminal
func readPassword(reader *bufio.Reader) (string, error) {
	fmt.Print("Password: ")
	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		return string(b), err
	}
	input, err := reader.ReadString('\n')
	return strings.TrimSpace(input), err
}

// signInWithSpinner runs login or register with a visual spinner
func signInWithSpinner(ctx context.Context, a *app.App, username, password string, register bool) (domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	type result struct {
		session domain.Session
		err     error
	}
	resultCh := make(chan result, 1)

	go func() {
		var session domain.Session
		var err error
		if register {
			session, err = a.Register(ctx, username, password)
		} else {
			session, err = a.Login(ctx, username, password)
		}
		resultCh <- result{session, err}
	}()

	frame := 0
	fmt.Printf("\r%s Signing in...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-resultCh:
			fmt.Print(clearSpinnerLine)
			return res.session, res.err

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Signing in...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return domain.Session{}, fmt.Errorf("sign in timed out")
		}
	}
}
