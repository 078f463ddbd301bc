package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/datatide/lakectl/internal/config"
	"github.com/datatide/lakectl/internal/db"
	"github.com/datatide/lakectl/internal/models"
	"github.com/datatide/lakectl/internal/provisioner"
	"github.com/datatide/lakectl/internal/s3"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// fakeProv records handler calls without touching any storage service.
type fakeProv struct {
	createErr error
	exists    bool
	objects   []s3.Object
	deleted   []string
	forced    []bool
}

func (f *fakeProv) CreateDataLake(ctx context.Context, spec provisioner.Spec) (*provisioner.Result, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	zones := spec.Zones
	if len(zones) == 0 {
		zones = provisioner.DefaultZones
	}
	return &provisioner.Result{
		BucketName:        spec.Project + "-" + spec.Environment + "-data-lake-abc123",
		Region:            "us-east-1",
		Zones:             zones,
		VersioningEnabled: spec.EnableVersioning,
		EncryptionEnabled: spec.EnableEncryption,
	}, nil
}

func (f *fakeProv) PutObject(ctx context.Context, bucket, key string, body io.Reader, length int64, contentType string) error {
	return nil
}

func (f *fakeProv) ListObjects(ctx context.Context, bucket, prefix string) ([]s3.Object, error) {
	return f.objects, nil
}

func (f *fakeProv) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return f.exists, nil
}

func (f *fakeProv) DeleteBucket(ctx context.Context, bucket string, force bool) error {
	f.deleted = append(f.deleted, bucket)
	f.forced = append(f.forced, force)
	return nil
}

// set up a temporary DB, fake provisioner and router for integration-style tests
func setupTestServer(t *testing.T, prov *fakeProv) *httptest.Server {
	t.Helper()
	tmp := t.TempDir()
	cfg := &config.Config{Env: "test", DBDriver: "sqlite", DBPath: filepath.Join(tmp, "test.db")}
	logger := zap.NewNop()
	if err := db.Init(cfg, logger); err != nil {
		t.Fatalf("db init: %v", err)
	}
	ts := httptest.NewServer(Router(cfg, logger, prov))
	t.Cleanup(ts.Close)
	return ts
}

func createTestUser(t *testing.T, email, pass, role string) {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	u := models.User{Email: email, Password: string(hash), Role: role}
	if err := db.DB.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func doJSON(t *testing.T, method, url, email, pass string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, url, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.SetBasicAuth(email, pass)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHealthAndVersion(t *testing.T) {
	ts := setupTestServer(t, &fakeProv{})
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("/health status=%d", resp.StatusCode)
	}
	resp, err = http.Get(ts.URL + "/api/version")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("/api/version status=%d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	ts := setupTestServer(t, &fakeProv{})
	resp := doJSON(t, "GET", ts.URL+"/api/v1/datalakes", "", "", nil)
	if resp.StatusCode != 401 {
		t.Fatalf("unauthenticated status=%d", resp.StatusCode)
	}
	createTestUser(t, "viewer@example.com", "secret", "viewer")
	resp = doJSON(t, "GET", ts.URL+"/api/v1/datalakes", "viewer@example.com", "wrong", nil)
	if resp.StatusCode != 401 {
		t.Fatalf("bad password status=%d", resp.StatusCode)
	}
	resp = doJSON(t, "GET", ts.URL+"/api/v1/datalakes", "viewer@example.com", "secret", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("authenticated status=%d", resp.StatusCode)
	}
}

func TestViewerCannotMutate(t *testing.T) {
	ts := setupTestServer(t, &fakeProv{})
	createTestUser(t, "viewer@example.com", "secret", "viewer")
	resp := doJSON(t, "POST", ts.URL+"/api/v1/datalakes", "viewer@example.com", "secret",
		map[string]any{"project": "p"})
	if resp.StatusCode != 403 {
		t.Fatalf("viewer create status=%d", resp.StatusCode)
	}
}

func TestCreateDataLakePersistsRecord(t *testing.T) {
	ts := setupTestServer(t, &fakeProv{})
	createTestUser(t, "editor@example.com", "secret", "editor")
	resp := doJSON(t, "POST", ts.URL+"/api/v1/datalakes", "editor@example.com", "secret",
		map[string]any{"project": "analytics", "environment": "dev", "zones": []string{"landing", "raw"}, "enableVersioning": true})
	if resp.StatusCode != 201 {
		t.Fatalf("create status=%d", resp.StatusCode)
	}
	var out struct {
		RunID  string             `json:"runId"`
		Result provisioner.Result `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.RunID == "" || out.Result.BucketName == "" {
		t.Fatalf("response=%+v", out)
	}
	var rec models.DataLake
	if err := db.DB.Where("name = ?", out.Result.BucketName).First(&rec).Error; err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
	if rec.Zones != "landing,raw" || !rec.VersioningEnabled {
		t.Fatalf("record=%+v", rec)
	}
}

func TestCreateDataLakeCollisionConflict(t *testing.T) {
	prov := &fakeProv{createErr: &provisioner.NamingCollisionError{Bucket: "x-dev-data-lake-abc123"}}
	ts := setupTestServer(t, prov)
	createTestUser(t, "editor@example.com", "secret", "editor")
	resp := doJSON(t, "POST", ts.URL+"/api/v1/datalakes", "editor@example.com", "secret",
		map[string]any{"project": "x"})
	if resp.StatusCode != 409 {
		t.Fatalf("collision status=%d", resp.StatusCode)
	}
}

func TestDeleteDataLake(t *testing.T) {
	prov := &fakeProv{exists: false}
	ts := setupTestServer(t, prov)
	createTestUser(t, "editor@example.com", "secret", "editor")
	resp := doJSON(t, "DELETE", ts.URL+"/api/v1/datalakes/missing", "editor@example.com", "secret", nil)
	if resp.StatusCode != 404 {
		t.Fatalf("missing bucket status=%d", resp.StatusCode)
	}

	prov.exists = true
	resp = doJSON(t, "DELETE", ts.URL+"/api/v1/datalakes/lake1?force=true", "editor@example.com", "secret", nil)
	if resp.StatusCode != 204 {
		t.Fatalf("delete status=%d", resp.StatusCode)
	}
	if len(prov.deleted) != 1 || prov.deleted[0] != "lake1" || !prov.forced[0] {
		t.Fatalf("delete call=%v forced=%v", prov.deleted, prov.forced)
	}
}

func TestListObjectsEmptyBody(t *testing.T) {
	ts := setupTestServer(t, &fakeProv{})
	createTestUser(t, "viewer@example.com", "secret", "viewer")
	resp := doJSON(t, "GET", ts.URL+"/api/v1/datalakes/lake1/objects?prefix=landing/", "viewer@example.com", "secret", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("list status=%d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	var objs []s3.Object
	if err := json.Unmarshal(b, &objs); err != nil {
		t.Fatalf("body=%s err=%v", b, err)
	}
	if len(objs) != 0 {
		t.Fatalf("objs=%v", objs)
	}
}
