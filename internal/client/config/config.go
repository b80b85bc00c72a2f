package config

import (
	"errors"
	"net"
	"time"
)

// Config is what the gauth shell needs to reach the auth server.
type Config struct {
	// ServerEndpointAddr is the host:port of the gRPC AuthService.
	ServerEndpointAddr string
	// RequestTimeout bounds each register, login or verify call.
	RequestTimeout time.Duration
}

// LoadDefaults points the shell at a local server.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

// Validate rejects settings the shell cannot run with.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.ServerEndpointAddr); err != nil {
		return errors.Join(errors.New("invalid server address"), err)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	return nil
}

// LoadConfig returns the defaults overlaid by the JSON file and then by the
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
