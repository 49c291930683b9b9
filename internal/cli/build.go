package cli

import (
	"context"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"almanac/internal/blob"
	"almanac/internal/enrich"
	"almanac/internal/platform/config"
	"almanac/internal/platform/logger"
	"almanac/internal/platform/metrics"
	"almanac/internal/record"
	"almanac/internal/schema"
	"almanac/internal/snapshot"
	pkgerrors "almanac/pkg/errors"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static API snapshot",
	Long: "Build enriches every record and writes the result tree under the site\n" +
		"directory. With a blob driver configured, the finished snapshot is also\n" +
		"uploaded to the blob store.",
	PreRunE: bindBuildFlags,
	RunE:    runBuild,
}

func init() {
	buildCmd.Flags().String("site-dir", "", "snapshot output directory")
	buildCmd.Flags().Int("concurrency", 0, "records enriched in parallel")
	rootCmd.AddCommand(buildCmd)
}

// bindBuildFlags binds at invocation time; site_dir is also a serve-static
// flag and the bindings would collide in init.
func bindBuildFlags(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlag("site_dir", cmd.Flags().Lookup("site-dir")); err != nil {
		return err
	}
	return viper.BindPFlag("build_concurrency", cmd.Flags().Lookup("concurrency"))
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogFormat)
	ctx := cmd.Context()

	m := metrics.New(prometheus.NewRegistry())
	store := record.NewStore(cfg.DataDir, schema.NewValidator(cfg.SchemaDir))
	sources := enrich.NewSources(enrich.NewHTTPClient(cfg.EnrichTimeout), m)
	orch := enrich.NewOrchestrator(log, m)

	builder := snapshot.NewBuilder(log, store, orch, sources.People(), sources.Projects(), cfg.BuildConcurrency)
	if err := builder.Build(ctx, filepath.Join(cfg.SiteDir, "api")); err != nil {
		return err
	}

	if cfg.Blob.Driver == "" {
		return nil
	}
	bs, err := newBlobStore(ctx, cfg.Blob)
	if err != nil {
		return err
	}
	_, err = snapshot.Publish(ctx, log, bs, cfg.SiteDir, cfg.Blob.Prefix)
	return err
}

func newBlobStore(ctx context.Context, cfg config.Blob) (blob.Store, error) {
	switch blob.Driver(cfg.Driver) {
	case blob.DriverFilesystem:
		return blob.NewFilesystem(cfg.Dir)
	case blob.DriverS3:
		return blob.NewS3(ctx, blob.S3Config{
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.PathStyle,
		})
	default:
		return nil, pkgerrors.Newf(pkgerrors.CodeInternal, "unknown blob driver %q", cfg.Driver)
	}
}
