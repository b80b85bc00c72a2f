package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/authpb"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      authpb.AuthServiceClient

	mu    sync.Mutex
	token string
}

func NewAuthClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.metadataInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = authpb.NewAuthServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Token returns the session token of the last successful register or login.
func (s *GRPCClient) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *GRPCClient) metadataInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(s.withMetadata(ctx), method, req, reply, cc, opts...)
}

func (s *GRPCClient) withMetadata(ctx context.Context) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	if len(md.Get(common.RequestIDHeaderName)) == 0 {
		md.Set(common.RequestIDHeaderName, uuid.NewString())
	}
	if token := s.Token(); token != "" {
		md.Set("authorization", "Bearer "+token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) Register(ctx context.Context, username, password, name, lastName, email string) (*Session, error) {

	req, err := structpb.NewStruct(map[string]any{
		authpb.FieldUsername: username,
		authpb.FieldPassword: password,
		authpb.FieldName:     name,
		authpb.FieldLastName: lastName,
		authpb.FieldEmail:    email,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return s.session(resp)
}

func (s *GRPCClient) Login(ctx context.Context, username, password string) (*Session, error) {

	req, err := structpb.NewStruct(map[string]any{
		authpb.FieldUsername: username,
		authpb.FieldPassword: password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return s.session(resp)
}

func (s *GRPCClient) Verify(ctx context.Context, token string) (int64, error) {

	if token == "" {
		token = s.Token()
	}
	if token == "" {
		return 0, ErrNotLoggedIn
	}

	req, err := structpb.NewStruct(map[string]any{authpb.FieldToken: token})
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Verify(ctx, req)
	if err != nil {
		return 0, s.mapError(err)
	}

	return int64(resp.GetFields()[authpb.FieldUserID].GetNumberValue()), nil
}

func (s *GRPCClient) session(resp *structpb.Struct) (*Session, error) {
	fields := resp.GetFields()

	expiry, err := time.Parse(time.RFC3339, fields[authpb.FieldExpiry].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("bad expiry in response: %w", err)
	}

	sess := &Session{
		Token:    fields[authpb.FieldToken].GetStringValue(),
		Expiry:   expiry,
		ID:       int64(fields[authpb.FieldID].GetNumberValue()),
		Username: fields[authpb.FieldUsername].GetStringValue(),
		Name:     fields[authpb.FieldName].GetStringValue(),
		LastName: fields[authpb.FieldLastName].GetStringValue(),
		Email:    fields[authpb.FieldEmail].GetStringValue(),
	}
	if sess.Token == "" {
		return nil, errors.New("no token in response")
	}

	s.setToken(sess.Token)
	return sess, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
