package cmd

import (
	"fmt"
	"os"

	"portfolio-cms/internal/config"
	"portfolio-cms/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	envFile string
	cfg     *config.Config
	log     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site CMS with an OAuth admin area",
	Long: `portfolio serves the public site API and the admin area, and carries the
maintenance commands for its database, media bucket and role registry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		cfg = config.FromEnv()
		log = logger.New(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the environment is read")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(purgePageViewsCmd)
	rootCmd.AddCommand(ensureBucketCmd)
}
