package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/datatide/lakectl/internal/config"
	"github.com/datatide/lakectl/internal/provisioner"
	"github.com/datatide/lakectl/internal/s3"
	"github.com/datatide/lakectl/internal/version"

	"github.com/gin-contrib/requestid"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Provisioner is the surface the handlers drive; *provisioner.Provisioner
// satisfies it and tests substitute a fake.
type Provisioner interface {
	CreateDataLake(ctx context.Context, spec provisioner.Spec) (*provisioner.Result, error)
	PutObject(ctx context.Context, bucket, key string, body io.Reader, length int64, contentType string) error
	ListObjects(ctx context.Context, bucket, prefix string) ([]s3.Object, error)
	BucketExists(ctx context.Context, bucket string) (bool, error)
	DeleteBucket(ctx context.Context, bucket string, force bool) error
}

type server struct {
	log  *zap.Logger
	prov Provisioner
}

func Router(cfg *config.Config, logger *zap.Logger, prov Provisioner) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &server{log: logger, prov: prov}

	r := gin.New()
	r.Use(requestid.New())
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": version.Name, "version": version.Version})
	})

	v1 := r.Group("/api/v1")
	v1.Use(requireUser())
	{
		v1.GET("/datalakes", s.listDataLakes)
		v1.GET("/datalakes/:name/objects", s.listObjects)

		mut := v1.Group("")
		mut.Use(requireEditorOrAdmin())
		{
			mut.POST("/datalakes", s.createDataLake)
			mut.DELETE("/datalakes/:name", s.deleteDataLake)
			mut.POST("/datalakes/:name/objects", s.uploadObject)
		}
	}
	return r
}
