package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/datatide/lakectl/internal/api"
	"github.com/datatide/lakectl/internal/db"
	"github.com/datatide/lakectl/internal/logging"
	"github.com/datatide/lakectl/internal/provisioner"
	"github.com/datatide/lakectl/internal/s3"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(cfg.Env)
		defer logger.Sync()

		if err := db.Init(cfg, logger); err != nil {
			return fmt.Errorf("init db: %w", err)
		}
		client, err := s3.NewClient(cmd.Context(), s3.Options{
			Region:    flagRegion,
			Profile:   flagProfile,
			Endpoint:  flagEndpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return err
		}
		prov := provisioner.New(client, logger)

		srv := &http.Server{
			Addr:              ":" + cfg.HttpPort,
			Handler:           api.Router(cfg, logger, prov),
			ReadHeaderTimeout: 15 * time.Second,
			ReadTimeout:       0, // allow long-running uploads; rely on LB timeouts
			WriteTimeout:      0,
			MaxHeaderBytes:    1 << 20,
		}
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
