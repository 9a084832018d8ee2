package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"kanoon-saral/api/internal/app"
	"kanoon-saral/api/internal/config"
	"kanoon-saral/api/internal/presenter"
)

var (
	configPath string
	provider   string
	verbose    bool

	// newMediator is swapped in tests.
	newMediator = func(cfg *config.Config, log *slog.Logger) (presenter.Mediator, error) {
		return app.NewService(cfg, log)
	}
)

func Execute() error {
	return newRoot().Execute()
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "kanoon",
		Short:         "Explain Indian legal documents in simple language",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")
	root.PersistentFlags().StringVar(&provider, "provider", "", "gemini, openai or mock (overrides LLM_PROVIDER)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(simplifyCmd(), healthCmd())
	return root
}

func loadConfig(stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if provider != "" {
		cfg.LLMProvider = provider
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	w := io.Discard
	if verbose {
		w = stderr
	}
	return cfg, cfg.Logger(w), nil
}

func readAllFrom(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
