package config

import "os"

// StorageConfig holds connection settings for the S3-compatible blob store
// that keeps the raw bytes of uploaded documents. The application only
// needs put-object and a durable public URL; no deletion or versioning.
type StorageConfig struct {
    Endpoint      string // host:port of the storage service
    AccessKey     string
    SecretKey     string
    Bucket        string // bucket holding uploaded documents
    UseSSL        bool
    PublicBaseURL string // external base URL for public object links, optional
}

// LoadStorageConfig reads blob storage settings. Endpoint and credentials
// are required: document upload is a first-class feature, not an optional
// add-on, so a misconfigured store fails at startup rather than at the
// first upload.
func LoadStorageConfig() StorageConfig {
    return StorageConfig{
        Endpoint:      must("STORAGE_ENDPOINT"),
        AccessKey:     must("STORAGE_ACCESS_KEY"),
        SecretKey:     must("STORAGE_SECRET_KEY"),
        Bucket:        envStr("STORAGE_BUCKET", "uploads"),
        UseSSL:        envBool("STORAGE_USE_SSL", false),
        PublicBaseURL: os.Getenv("STORAGE_PUBLIC_BASE_URL"),
    }
}
