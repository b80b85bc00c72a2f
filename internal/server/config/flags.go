package config

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var serverFlags = []string{"-a", "-m", "-d", "-s", "-t", "-r", "-k", "-y", "-p", "-i", "-n"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics/health bind address (e.g., ":9100"), empty disables
//	-d string   PostgreSQL DSN
//	-s string   token HMAC secret key
//	-t int      token validity, minutes
//	-r int      token renewal threshold, minutes
//	-k uint     argon2id iterations
//	-y uint     argon2id memory, KiB
//	-p int      expired token retention, minutes (0 disables pruning)
//	-i int      token cleanup interval, minutes
//	-n int      database connect attempts
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for metrics and health checks")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", minutes(config.TokenValidityDuration), "token validity (in minutes)")
	renewalThreshold := fs.Int("r", minutes(config.TokenRenewalThreshold), "token renewal threshold (in minutes)")
	hashIterations := fs.Uint("k", uint(config.HashIterations), "argon2id iterations")
	hashMemory := fs.Uint("y", uint(config.HashMemoryKiB), "argon2id memory (in KiB)")
	retention := fs.Int("p", minutes(config.TokenRetention), "expired token retention (in minutes), 0 disables pruning")
	cleanupInterval := fs.Int("i", minutes(config.TokenCleanupInterval), "token cleanup interval (in minutes)")
	fs.IntVar(&config.DBConnectAttempts, "n", config.DBConnectAttempts, "database connect attempts")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.HashIterations = toUint32("k", *hashIterations)
	config.HashMemoryKiB = toUint32("y", *hashMemory)
	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	config.TokenRenewalThreshold = time.Duration(*renewalThreshold) * time.Minute
	config.TokenRetention = time.Duration(*retention) * time.Minute
	config.TokenCleanupInterval = time.Duration(*cleanupInterval) * time.Minute
}

// toUint32 panics like a flag parse error instead of letting the value wrap.
func toUint32(name string, v uint) uint32 {
	if v > math.MaxUint32 {
		panic(fmt.Errorf("flag -%s: value %d out of range", name, v))
	}
	return uint32(v)
}

func minutes(d time.Duration) int {
	return int(d / time.Minute)
}
