package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://tag.example.com/")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://tag.example.com", cfg.PublicBaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "memory", cfg.StorageDriver)
	assert.Equal(t, "IT", cfg.DefaultPhoneRegion)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("SESSION_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestValidate_StorageDrivers(t *testing.T) {
	base := Config{SessionTTL: time.Hour, SessionSecret: "x"}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "memory", mutate: func(c *Config) { c.StorageDriver = "memory" }},
		{name: "s3 missing bucket url", mutate: func(c *Config) { c.StorageDriver = "s3"; c.S3Bucket = "b" }, wantErr: true},
		{name: "s3 ok", mutate: func(c *Config) {
			c.StorageDriver = "s3"
			c.S3Bucket = "b"
			c.S3PublicBaseURL = "http://minio/b"
		}},
		{name: "cloudinary missing creds", mutate: func(c *Config) { c.StorageDriver = "cloudinary" }, wantErr: true},
		{name: "unknown", mutate: func(c *Config) { c.StorageDriver = "ftp" }, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_DevAuthNotInProduction(t *testing.T) {
	cfg := Config{Env: "production", SessionSecret: "real", SessionTTL: time.Hour, DevAuth: true}
	assert.Error(t, cfg.Validate())

	cfg.Env = "development"
	assert.NoError(t, cfg.Validate())
}
