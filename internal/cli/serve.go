package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"almanac/internal/api"
	"almanac/internal/enrich"
	"almanac/internal/platform/config"
	"almanac/internal/platform/httpserver"
	"almanac/internal/platform/logger"
	"almanac/internal/platform/metrics"
	"almanac/internal/record"
	"almanac/internal/schema"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the live API server",
	PreRunE: bindServeFlags,
	RunE:    runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address")
	rootCmd.AddCommand(serveCmd)
}

// bindServeFlags binds this command's flags when it is invoked. Several
// subcommands share viper keys, so binding from init would let the last
// command registered shadow the others' flags.
func bindServeFlags(cmd *cobra.Command, args []string) error {
	return viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogFormat)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	store := record.NewStore(cfg.DataDir, schema.NewValidator(cfg.SchemaDir))
	sources := enrich.NewSources(enrich.NewHTTPClient(cfg.EnrichTimeout), m)
	orch := enrich.NewOrchestrator(log, m)

	handler := api.New(log, store, orch, sources.People(), sources.Projects())
	router := api.NewRouter(handler, log, m, reg)

	log.Info("starting almanac API",
		"addr", cfg.Addr,
		"data_dir", cfg.DataDir,
	)
	return listenAndServe(log, httpserver.New(cfg.Addr, router))
}
