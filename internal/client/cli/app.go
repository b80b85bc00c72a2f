package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
)

type App struct {
	config  *config.Config
	client  client.Client
	session *client.Session
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewAuthClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := 10 * time.Second
	if a.config != nil && a.config.RequestTimeout > 0 {
		timeout = a.config.RequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
