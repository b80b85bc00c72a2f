package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations may
// be written as "24h" or as integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	MetricsAddr           string         `json:"metrics_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	TokenRenewalThreshold timex.Duration `json:"token_renewal_threshold"`
	HashIterations        uint32         `json:"hash_iterations"`
	HashMemoryKiB         uint32         `json:"hash_memory_kib"`
	HashThreads           uint8          `json:"hash_threads"`
	TokenRetention        timex.Duration `json:"token_retention"`
	TokenCleanupInterval  timex.Duration `json:"token_cleanup_interval"`
	DBConnectAttempts     int            `json:"db_connect_attempts"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Keys missing from the file keep their current values. An unreadable file
// or invalid JSON panics: the server must not start half-configured.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.TokenValidityDuration, c.TokenValidityDuration)
	setDuration(&config.TokenRenewalThreshold, c.TokenRenewalThreshold)
	setUint(&config.HashIterations, c.HashIterations)
	setUint(&config.HashMemoryKiB, c.HashMemoryKiB)
	if c.HashThreads != 0 {
		config.HashThreads = c.HashThreads
	}
	setDuration(&config.TokenRetention, c.TokenRetention)
	setDuration(&config.TokenCleanupInterval, c.TokenCleanupInterval)
	setInt(&config.DBConnectAttempts, c.DBConnectAttempts)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setUint(dst *uint32, v uint32) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
