package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/datatide/lakectl/internal/db"
	"github.com/datatide/lakectl/internal/models"
	"github.com/datatide/lakectl/internal/provisioner"
	"github.com/datatide/lakectl/internal/s3"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *server) createDataLake(c *gin.Context) {
	var spec provisioner.Spec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if spec.Project == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project is required"})
		return
	}
	runID := uuid.NewString()
	log := s.log.With(zap.String("runId", runID), zap.String("requestId", requestid.Get(c)))

	res, err := s.prov.CreateDataLake(c.Request.Context(), spec)
	if err != nil {
		var collision *provisioner.NamingCollisionError
		if errors.As(err, &collision) {
			c.JSON(http.StatusConflict, gin.H{"error": collision.Error()})
			return
		}
		log.Error("provisioning failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// Record the provision; the bucket stays authoritative
	rec := models.DataLake{
		RunID:             runID,
		Name:              res.BucketName,
		Project:           spec.Project,
		Environment:       spec.Environment,
		Region:            res.Region,
		Zones:             strings.Join(res.Zones, ","),
		VersioningEnabled: res.VersioningEnabled,
		EncryptionEnabled: res.EncryptionEnabled,
	}
	if err := db.DB.Create(&rec).Error; err != nil {
		log.Error("failed to persist data lake record", zap.Error(err))
	}
	c.JSON(http.StatusCreated, gin.H{"runId": runID, "result": res})
}

func (s *server) listDataLakes(c *gin.Context) {
	var rows []models.DataLake
	if err := db.DB.Order("name asc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *server) deleteDataLake(c *gin.Context) {
	name := c.Param("name")
	force := c.Query("force") == "true"
	exists, err := s.prov.BucketExists(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "bucket not found"})
		return
	}
	if err := s.prov.DeleteBucket(c.Request.Context(), name, force); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if err := db.DB.Where("name = ?", name).Delete(&models.DataLake{}).Error; err != nil {
		s.log.Error("failed to delete data lake record", zap.String("bucket", name), zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

func (s *server) listObjects(c *gin.Context) {
	name := c.Param("name")
	prefix := c.Query("prefix")
	objs, err := s.prov.ListObjects(c.Request.Context(), name, prefix)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if objs == nil {
		objs = []s3.Object{}
	}
	c.JSON(http.StatusOK, objs)
}

func (s *server) uploadObject(c *gin.Context) {
	name := c.Param("name")
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()
	key := c.PostForm("key")
	if key == "" {
		key = header.Filename
	}
	ct := header.Header.Get("Content-Type")
	if err := s.prov.PutObject(c.Request.Context(), name, key, file, header.Size, ct); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bucket": name, "key": key, "sizeBytes": header.Size})
}
