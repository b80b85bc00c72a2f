package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
)

type fakeClient struct {
	registerArgs []string
	loginArgs    []string
	verifyToken  string

	session   *client.Session
	err       error
	verifyID  int64
	verifyErr error
	closed    bool
}

func (f *fakeClient) Register(ctx context.Context, username, password, name, lastName, email string) (*client.Session, error) {
	f.registerArgs = []string{username, password, name, lastName, email}
	return f.session, f.err
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*client.Session, error) {
	f.loginArgs = []string{username, password}
	return f.session, f.err
}

func (f *fakeClient) Verify(ctx context.Context, token string) (int64, error) {
	f.verifyToken = token
	return f.verifyID, f.verifyErr
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func newTestApp(input string, fc *fakeClient) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		config: &config.Config{RequestTimeout: time.Second},
		client: fc,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    &out,
	}, &out
}

var testSession = &client.Session{
	Token:    "tok",
	Expiry:   time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
	ID:       7,
	Username: "annsmith",
	Name:     "Ann",
	LastName: "Smith",
	Email:    "ann@example.com",
}
