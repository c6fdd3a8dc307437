package config

// StorageConfig holds connection settings for the S3-compatible object store
// that hosts job images.  PublicBaseURL is the externally reachable prefix
// under which uploaded objects are served; when empty it is derived from the
// endpoint and bucket.
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// LoadStorageConfig reads object-store settings from the environment.  All
// values default to a local MinIO instance so development works out of the
// box; production deployments override them.
func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Endpoint:      envStr("STORAGE_ENDPOINT", "localhost:9000"),
		AccessKey:     envStr("STORAGE_ACCESS_KEY", "minioadmin"),
		SecretKey:     envStr("STORAGE_SECRET_KEY", "minioadmin"),
		Bucket:        envStr("STORAGE_BUCKET", "job-images"),
		UseSSL:        envBool("STORAGE_USE_SSL", false),
		PublicBaseURL: envStr("STORAGE_PUBLIC_BASE_URL", ""),
	}
}
