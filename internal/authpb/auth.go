// Package authpb defines the gophauth.v1.AuthService gRPC contract. Messages
// are google.protobuf.Struct values keyed by the field names below, so the
// service needs no generated code on either side.
package authpb

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "gophauth.v1.AuthService"

const (
	AuthService_Register_FullMethodName = "/" + ServiceName + "/Register"
	AuthService_Login_FullMethodName    = "/" + ServiceName + "/Login"
	AuthService_Verify_FullMethodName   = "/" + ServiceName + "/Verify"
)

// Message field names.
const (
	FieldUsername = common.FieldUsername
	FieldPassword = common.FieldPassword
	FieldName     = common.FieldName
	FieldLastName = common.FieldLastName
	FieldEmail    = common.FieldEmail
	FieldToken    = common.FieldToken
	FieldExpiry   = "expiry"
	FieldID       = "id"
	FieldUserID   = "userId"
	FieldMessage  = "message"
)

// Response messages.
const (
	MessageUserCreated     = "User created"
	MessageLoginSuccessful = "Login successfully"
	MessageTokenValid      = "Token valid"
)

// AuthServiceClient is the client API for AuthService.
type AuthServiceClient interface {
	Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Verify(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc}
}

func (c *authServiceClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AuthService_Register_FullMethodName, in, opts...)
}

func (c *authServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AuthService_Login_FullMethodName, in, opts...)
}

func (c *authServiceClient) Verify(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AuthService_Verify_FullMethodName, in, opts...)
}

func (c *authServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// AuthServiceServer is the server API for AuthService.
type AuthServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Verify(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

type unaryCall func(AuthServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthService_ServiceDesc is the grpc.ServiceDesc for AuthService.
var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    unaryHandler(AuthService_Register_FullMethodName, AuthServiceServer.Register),
		},
		{
			MethodName: "Login",
			Handler:    unaryHandler(AuthService_Login_FullMethodName, AuthServiceServer.Login),
		},
		{
			MethodName: "Verify",
			Handler:    unaryHandler(AuthService_Verify_FullMethodName, AuthServiceServer.Verify),
		},
	},
	Streams: []grpc.StreamDesc{},
}
