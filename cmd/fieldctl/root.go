package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samirrijal/fieldmap/internal/adapters/backends"
	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/core/usecases"
	"github.com/samirrijal/fieldmap/internal/pkg/config"
	"github.com/samirrijal/fieldmap/internal/pkg/logging"
)

var (
	cfg        *config.Config
	configFile string
	userEmail  string
)

var rootCmd = &cobra.Command{
	Use:   "fieldctl",
	Short: "Manage saved field boundaries",
	Long:  "Lists, shows, imports and measures farm boundary records in the configured store, and follows newly saved records.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadFile("fieldctl", configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logging.Setup(cfg.Log.Level, "text")
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&userEmail, "user", "", "signed-in user email; empty uses the anonymous namespace")
}

// namespace resolves --user.
func namespace() (domain.Namespace, error) {
	if userEmail == "" {
		return domain.Anonymous, nil
	}
	return domain.NamespaceFromEmail(userEmail)
}

// openFields opens the configured store. The caller closes the stack.
func openFields(ctx context.Context) (*usecases.FieldService, *backends.Stack, error) {
	stack, err := backends.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return usecases.NewFieldService(stack.Store, stack.Publisher), stack, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
