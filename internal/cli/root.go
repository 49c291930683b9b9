// Package cli holds the cobra commands for the almanac binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "almanac",
	Short: "Ecosystem registry API and static site builder",
	Long: "Almanac serves a read-only JSON API over people and project records,\n" +
		"enriching them live from upstream services, and can render the same\n" +
		"data as a static snapshot for serving without the application.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default almanac.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "record data directory")
	rootCmd.PersistentFlags().String("schema-dir", "", "JSON schema directory")
	rootCmd.PersistentFlags().String("log-format", "", "log output format (json or text)")
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("schema_dir", rootCmd.PersistentFlags().Lookup("schema-dir"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("almanac")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	// Missing config file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

// listenAndServe runs srv until SIGINT/SIGTERM, then shuts down gracefully.
func listenAndServe(log *slog.Logger, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
