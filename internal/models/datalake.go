package models

import "time"

// DataLake is the persisted record of a provisioned data-lake bucket.
// The bucket itself is the durable entity; this row only mirrors what was
// requested so the API can list past provisions without touching S3.
type DataLake struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	RunID             string    `gorm:"index" json:"runId"`
	Name              string    `gorm:"uniqueIndex;not null" json:"name"`
	Project           string    `json:"project"`
	Environment       string    `json:"environment"`
	Region            string    `json:"region"`
	Zones             string    `json:"zones"` // comma-separated, provisioning order
	VersioningEnabled bool      `json:"versioningEnabled"`
	EncryptionEnabled bool      `json:"encryptionEnabled"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
