package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// requestInterceptor tags every call with a request id, taken from the
// x-request-id metadata or generated. The id is echoed back as a response
// header and rides the context into every log record of the call.
func (s *GRPCServer) requestInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	var requestID string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.RequestIDHeaderName)
		if len(values) > 0 {
			requestID = values[0]
		}
	}
	if len(requestID) == 0 {
		requestID = uuid.NewString()
	}

	ctx = logging.ContextWithRequestID(ctx, requestID)
	// fails only outside a real server stream
	_ = grpc.SetHeader(ctx, metadata.Pairs(common.RequestIDHeaderName, requestID))

	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "request handled",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start))

	return resp, err
}

// recoveryInterceptor turns a panic in a handler into codes.Internal so a
// single bad request cannot take the server down.
func (s *GRPCServer) recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "panic in handler",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()))
			resp, err = nil, status.Error(codes.Internal, "internal error")
		}
	}()

	return handler(ctx, req)
}
