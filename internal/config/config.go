// Package config defines the configuration of the storefront tooling.
// An example config file config.yaml is provided in the repository.
package config

import (
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	API       API       `yaml:"api"`
	Slots     Slots     `yaml:"slots"`
	ValKey    ValKey    `yaml:"valkey"`
	Database  Database  `yaml:"database"`
	Firestore Firestore `yaml:"firestore"`
	Storage   Storage   `yaml:"storage"`
	Upload    Upload    `yaml:"upload"`
	Keeper    Keeper    `yaml:"keeper"`
}

type API struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout" default:"30s"`
}

type SlotBackend string

const (
	SlotBackendMemory    SlotBackend = "memory"
	SlotBackendValKey    SlotBackend = "valkey"
	SlotBackendPostgres  SlotBackend = "postgres"
	SlotBackendFirestore SlotBackend = "firestore"
)

// Slots selects where durable slots live.
// Owner scopes the slots of one device or customer in shared backends.
type Slots struct {
	Backend SlotBackend `yaml:"backend" default:"memory"`
	Owner   string      `yaml:"owner" default:"default"`
}

type ValKey struct {
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
	Prefix   string              `yaml:"prefix" default:"storefront"`
}

type Database struct {
	Name     string              `yaml:"name"`
	Port     string              `yaml:"port" default:"5432"`
	SSLMode  string              `yaml:"sslMode"`
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
}

type Firestore struct {
	ProjectID       string `yaml:"projectID"`
	CredentialsFile string `yaml:"credentialsFile"`
	Collection      string `yaml:"collection" default:"durable_slots"`
}

// Storage configures the image bucket. With UseFirebase the bucket is opened through the Firebase Admin SDK.
type Storage struct {
	Bucket          string `yaml:"bucket"`
	ProjectID       string `yaml:"projectID"`
	CredentialsFile string `yaml:"credentialsFile"`
	UseFirebase     bool   `yaml:"useFirebase"`
	PublicBaseURL   string `yaml:"publicBaseURL" default:"https://storage.googleapis.com"`
	CacheControl    string `yaml:"cacheControl"`
}

type Upload struct {
	Pause     time.Duration `yaml:"pause" default:"100ms"`
	MaxImages int           `yaml:"maxImages" default:"5"`
	MaxWidth  int           `yaml:"maxWidth" default:"1200"`
}

// Keeper configures the session keeper service, which refreshes the access
// credential once it expires within RefreshBefore.
type Keeper struct {
	Interval      time.Duration `yaml:"interval" default:"1m"`
	RefreshBefore time.Duration `yaml:"refreshBefore" default:"5m"`
}
