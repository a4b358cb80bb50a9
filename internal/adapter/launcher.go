package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Launcher opens URLs in an external program
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments placed before the URL
	logger  *slog.Logger
}

// NewLauncher creates a launcher. An empty command uses the system default opener.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
	}
}

// Launch opens url without waiting for the program to exit
func (l *Launcher) Launch(url string) error {
	cmd := l.buildCommand(url)
	l.logger.Info("opening url", "command", cmd.Path, "args", cmd.Args[1:])
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	// Reap the child in the background
	go func() { _ = cmd.Wait() }()
	return nil
}

// buildCommand builds the command for url without starting it
func (l *Launcher) buildCommand(url string) *exec.Cmd {
	if l.command != "" {
		args := make([]string, 0, len(l.args)+1)
		args = append(args, l.args...)
		args = append(args, url)
		return exec.Command(l.command, args...)
	}
	return defaultOpener(runtime.GOOS, url)
}

// defaultOpener returns the system default opener for goos
func defaultOpener(goos, url string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
