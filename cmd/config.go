package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/TEENet-io/cardano-utxo/vault"
)

const (
	ENV_CONFIG_FILE_PATH = "UTXO_CONFIG"

	KEY_HTTP_IP           = "HTTP_IP"
	KEY_HTTP_PORT         = "HTTP_PORT"
	KEY_DB_FILE_PATH      = "DB_FILE_PATH"
	KEY_VAULT_ADDRESS     = "VAULT_ADDRESS"
	KEY_LOCK_TIMEOUT      = "LOCK_TIMEOUT"
	KEY_RELEASE_FREQUENCY = "RELEASE_FREQUENCY"
	KEY_LOG_LEVEL         = "LOG_LEVEL"
)

// Keep the configuration's fields as "text" as possible.
// Its easier to load it from env vars or a config file.
type ServerConfig struct {
	// Http side
	HttpIp   string // eg. 0.0.0.0
	HttpPort string // eg. 8080

	// vault side, no vault is served if VaultAddress is empty
	DbFilePath       string        // sqlite file, ":memory:" is fine for trials
	VaultAddress     string        // address whose records are tracked
	LockTimeout      time.Duration // eg. 30m
	ReleaseFrequency time.Duration // eg. 1m

	LogLevel string // debug, info, production
}

// NewViper returns a viper reading env vars, with defaults set.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(KEY_HTTP_IP, "0.0.0.0")
	v.SetDefault(KEY_HTTP_PORT, "8080")
	v.SetDefault(KEY_DB_FILE_PATH, ":memory:")
	v.SetDefault(KEY_LOCK_TIMEOUT, vault.DEFAULT_LOCK_TIMEOUT)
	v.SetDefault(KEY_RELEASE_FREQUENCY, vault.DEFAULT_FREQUENCY_TO_RELEASE)
	v.SetDefault(KEY_LOG_LEVEL, "info")
	return v
}

// LoadConfig reads filePath (or the file named by UTXO_CONFIG when
// filePath is empty) into v and builds the server configuration.
// Running without any file is fine; env vars and defaults apply.
func LoadConfig(v *viper.Viper, filePath string) (*ServerConfig, error) {
	if filePath == "" {
		filePath = v.GetString(ENV_CONFIG_FILE_PATH)
	}
	if filePath != "" {
		if !FileExists(filePath) {
			return nil, fmt.Errorf("configuration file not found: %s", filePath)
		}
		v.SetConfigFile(filePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading configuration file: %w", err)
		}
	}

	return &ServerConfig{
		HttpIp:           v.GetString(KEY_HTTP_IP),
		HttpPort:         v.GetString(KEY_HTTP_PORT),
		DbFilePath:       v.GetString(KEY_DB_FILE_PATH),
		VaultAddress:     v.GetString(KEY_VAULT_ADDRESS),
		LockTimeout:      v.GetDuration(KEY_LOCK_TIMEOUT),
		ReleaseFrequency: v.GetDuration(KEY_RELEASE_FREQUENCY),
		LogLevel:         v.GetString(KEY_LOG_LEVEL),
	}, nil
}
