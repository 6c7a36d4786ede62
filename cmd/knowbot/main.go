package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"knowbot/cmd/knowbot/chat"
	"knowbot/internal/backend"
	"knowbot/internal/config"
	"knowbot/internal/export"
	"knowbot/internal/logging"
)

var version = "0.3.0"

var (
	// Global flags
	configPath string
	debug      bool
	backendURL string
	exportPath string
	format     string

	// Logger
	logger *zap.Logger
)

// rootCmd launches the interactive chat when run without arguments.
var rootCmd = &cobra.Command{
	Use:   "knowbot",
	Short: "knowbot - conversational client for a knowledge service",
	Long: `knowbot is a terminal chat client for a backend knowledge service.

The backend's reply shape is not fixed: answers arrive as JSON in several
nested layouts, bare arrays, or plain markdown-like text. knowbot normalizes
every reply into one canonical model, repairs the text formatting, expands
table and icon placeholders, and renders the result safely.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

// askCmd sends a single question and prints the rendered answer.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Long: `Sends one question to the backend, normalizes the reply, expands
placeholders and renders the answer to the terminal.

With --export the turn is also written as a markdown document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the knowbot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("knowbot %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend-url", "", "override backend URL")
	askCmd.Flags().StringVar(&exportPath, "export", "", "write the turn to a markdown file")
	askCmd.Flags().StringVar(&format, "format", "term", "output format: term or html")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(versionCmd)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.knowbot/config.yaml"
}

// loadSetup builds config and backend client from flags and environment.
func loadSetup() (*config.Config, *backend.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if backendURL != "" {
		cfg.Backend.URL = backendURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, nil, err
	}
	client := backend.New(backend.Config{
		URL:     cfg.Backend.URL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: timeout,
	}, logger)
	return cfg, client, nil
}

func runInteractiveChat() error {
	cfg, client, err := loadSetup()
	if err != nil {
		return err
	}

	model := chat.New(cfg, client, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadSetup()
	if err != nil {
		return err
	}

	question := args[0]
	for _, a := range args[1:] {
		question += " " + a
	}

	timeout, _ := cfg.RequestTimeout()
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	resp, err := client.Ask(ctx, question)
	if err != nil {
		return err
	}

	// The exporter receives the pre-expansion answer and runs its own
	// placeholder expansion.
	if exportPath != "" {
		data, err := export.Markdown{}.Export(question, resp)
		if err != nil {
			return fmt.Errorf("exporting turn: %w", err)
		}
		if err := os.WriteFile(exportPath, data, 0644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
	}

	switch format {
	case "html":
		// The display path for markup consumers: placeholder expansion,
		// then sanitized conversion.
		fmt.Println(renderAnswerHTML(resp))
	default:
		fmt.Println(renderAnswer(cfg, resp))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
