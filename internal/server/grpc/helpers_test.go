package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/protobuf/types/known/structpb"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type fakeAuth struct {
	createResp  *services.AuthResult
	createErr   error
	createPanic any
	loginResp   *services.AuthResult
	loginErr    error
	verifyResp  int64
	verifyErr   error

	gotUsername, gotPassword, gotName, gotLastName, gotEmail string
	gotToken                                                 string
	gotRequestID                                             string
}

func (f *fakeAuth) CreateAccount(ctx context.Context, username, password, name, lastName, email string) (*services.AuthResult, error) {
	f.gotUsername, f.gotPassword, f.gotName, f.gotLastName, f.gotEmail = username, password, name, lastName, email
	f.gotRequestID = logging.RequestIDFromContext(ctx)
	if f.createPanic != nil {
		panic(f.createPanic)
	}
	return f.createResp, f.createErr
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*services.AuthResult, error) {
	f.gotUsername, f.gotPassword = username, password
	f.gotRequestID = logging.RequestIDFromContext(ctx)
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Verify(ctx context.Context, token string) (int64, error) {
	f.gotToken = token
	f.gotRequestID = logging.RequestIDFromContext(ctx)
	return f.verifyResp, f.verifyErr
}

func newTestServer(a *fakeAuth) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", nopLogger{}, a)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("structpb.NewStruct error: %v", err)
	}
	return s
}
