// Command chat is a terminal client for the portfolio chatbot. It runs the
// resolution engine locally and asks the server's /api/chat for answers.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/victorwamb/IA-PF/internal/config"
	"github.com/victorwamb/IA-PF/internal/content"
	"github.com/victorwamb/IA-PF/internal/infrastructure"
	"github.com/victorwamb/IA-PF/internal/usecases"
)

var (
	apiURL      string
	lang        string
	answersFile string
	timeout     time.Duration
	typingDelay time.Duration
	logFile     string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the portfolio assistant from the terminal",
	Long: `Chat runs the portfolio chatbot in the terminal.

Answers come from the server's completion endpoint when it is reachable,
then from the built-in canned answers, and finally from a polite fallback.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChat,
}

func init() {
	rootCmd.Flags().StringVar(&apiURL, "api-url", envOr("API_URL", "http://localhost:8000"), "chatbot server base URL")
	rootCmd.Flags().StringVarP(&lang, "lang", "l", envOr("DEFAULT_LANGUAGE", usecases.LangEnglish), "chat language (en or fr)")
	rootCmd.Flags().StringVar(&answersFile, "answers", "", "YAML file with canned answers (defaults to the bundled set)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", infrastructure.DefaultRemoteTimeout, "timeout for server requests")
	rootCmd.Flags().DurationVar(&typingDelay, "typing-delay", usecases.DefaultTypingInterval, "delay between revealed characters")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger, closeLog := config.SetupLogger(logFile, level)
	defer closeLog()

	catalog, err := usecases.DefaultCatalog()
	if err != nil {
		return err
	}
	if !catalog.Supports(lang) {
		return fmt.Errorf("unsupported language %q", lang)
	}

	entries, err := content.LoadAnswers(answersFile)
	if err != nil {
		return err
	}
	answers, err := usecases.NewAnswerSet(entries)
	if err != nil {
		return err
	}

	engine := usecases.NewEngine(
		infrastructure.NewRemoteResponder(apiURL, timeout, logger),
		answers,
		catalog,
		usecases.WithLogger(logger),
		usecases.WithDefaultLanguage(lang),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &repl{
		in:        cmd.InOrStdin(),
		out:       cmd.OutOrStdout(),
		conv:      usecases.NewConversation(uuid.NewString(), lang, engine),
		catalog:   catalog,
		presenter: usecases.NewTypingPresenter(typingDelay),
		projects:  infrastructure.NewProjectClient(apiURL, timeout, logger),
	}
	return r.run(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

