package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags applies -a (server host:port) and -t (request timeout, whole
// seconds). Anything else on the command line, such as -c, is left to its
// own parser by flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "host:port of the gophauth gRPC server")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "timeout for each register/login/verify call (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
