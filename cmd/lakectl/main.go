package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datatide/lakectl/internal/config"
	"github.com/datatide/lakectl/internal/logging"
	"github.com/datatide/lakectl/internal/provisioner"
	"github.com/datatide/lakectl/internal/s3"
	"github.com/datatide/lakectl/internal/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfg = config.Load()

var (
	flagRegion   string
	flagProfile  string
	flagEndpoint string
)

var rootCmd = &cobra.Command{
	Use:           "lakectl",
	Short:         "Provision and manage S3 data-lake buckets",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRegion, "region", cfg.Region, "AWS region")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", cfg.Profile, "AWS shared config profile")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", cfg.S3Endpoint, "custom S3 endpoint (MinIO, LocalStack)")
}

// newProvisioner builds the S3 client and provisioner from flags and env.
func newProvisioner(ctx context.Context) (*provisioner.Provisioner, *zap.Logger, error) {
	logger := logging.New(cfg.Env)
	client, err := s3.NewClient(ctx, s3.Options{
		Region:    flagRegion,
		Profile:   flagProfile,
		Endpoint:  flagEndpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PathStyle: cfg.S3PathStyle,
	})
	if err != nil {
		return nil, nil, err
	}
	return provisioner.New(client, logger), logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
