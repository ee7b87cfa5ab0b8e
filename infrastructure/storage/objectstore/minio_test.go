package objectstore

import (
	"context"
	"net/url"
	"testing"
	"time"

	pkgerrors "docspace/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validConfig() Config {
	return Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio-secret",
		Bucket:    "docspace-files",
	}
}

func TestNewStore_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing endpoint", func(c *Config) { c.Endpoint = " " }},
		{"missing access key", func(c *Config) { c.AccessKey = "" }},
		{"missing secret key", func(c *Config) { c.SecretKey = "" }},
		{"missing bucket", func(c *Config) { c.Bucket = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			_, err := NewStore(cfg, zap.NewNop())
			assert.True(t, pkgerrors.IsValidation(err), "got %v", err)
		})
	}
}

func TestNewStore_DefaultsRegion(t *testing.T) {
	store, err := NewStore(validConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", store.region)
	assert.Equal(t, "docspace-files", store.bucket)
}

func TestStore_PresignGet(t *testing.T) {
	store, err := NewStore(validConfig(), zap.NewNop())
	require.NoError(t, err)

	raw, err := store.PresignGet(context.Background(), "workspaces/ws-1/file-1/report.pdf", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/docspace-files/workspaces/ws-1/file-1/report.pdf", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
