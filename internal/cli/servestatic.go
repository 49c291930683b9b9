package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"almanac/internal/platform/config"
	"almanac/internal/platform/httpserver"
	"almanac/internal/platform/logger"
	"almanac/internal/staticsite"
)

var serveStaticCmd = &cobra.Command{
	Use:     "serve-static",
	Short:   "Serve a previously built snapshot",
	PreRunE: bindServeStaticFlags,
	RunE:    runServeStatic,
}

func init() {
	serveStaticCmd.Flags().String("addr", "", "listen address")
	serveStaticCmd.Flags().String("site-dir", "", "snapshot directory to serve")
	rootCmd.AddCommand(serveStaticCmd)
}

// bindServeStaticFlags binds at invocation time; addr and site_dir are also
// flags of serve and build, and the bindings would collide in init.
func bindServeStaticFlags(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlag("addr", cmd.Flags().Lookup("addr")); err != nil {
		return err
	}
	return viper.BindPFlag("site_dir", cmd.Flags().Lookup("site-dir"))
}

func runServeStatic(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogFormat)

	site, err := staticsite.New(log, cfg.SiteDir)
	if err != nil {
		return err
	}

	log.Info("starting almanac static server",
		"addr", cfg.Addr,
		"site_dir", cfg.SiteDir,
	)
	return listenAndServe(log, httpserver.New(cfg.Addr, site.Router()))
}
