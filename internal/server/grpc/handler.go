package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/authpb"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const internalErrorMessage = "internal server error"

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, err := requiredString(req, authpb.FieldUsername)
	if err != nil {
		return nil, err
	}
	password, err := requiredString(req, authpb.FieldPassword)
	if err != nil {
		return nil, err
	}

	result, err := s.auth.CreateAccount(ctx, username, password,
		optionalString(req, authpb.FieldName),
		optionalString(req, authpb.FieldLastName),
		optionalString(req, authpb.FieldEmail))
	if err != nil {
		return nil, s.toStatus(ctx, "Register", err)
	}

	s.logger.Info(ctx, "Registered", "username", username, "user_id", result.ID)
	return authResponse(authpb.MessageUserCreated, result)
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, err := requiredString(req, authpb.FieldUsername)
	if err != nil {
		return nil, err
	}
	password, err := requiredString(req, authpb.FieldPassword)
	if err != nil {
		return nil, err
	}

	result, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, s.toStatus(ctx, "Login", err)
	}

	return authResponse(authpb.MessageLoginSuccessful, result)
}

func (s *GRPCServer) Verify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token := tokenFromRequest(ctx, req)
	if token == "" {
		return nil, status.Errorf(codes.InvalidArgument, "%s is required", authpb.FieldToken)
	}

	userID, err := s.auth.Verify(ctx, token)
	if err != nil {
		return nil, s.toStatus(ctx, "Verify", err)
	}

	return structpb.NewStruct(map[string]any{
		authpb.FieldMessage: authpb.MessageTokenValid,
		authpb.FieldUserID:  userID,
	})
}

// toStatus is the single place where service errors become gRPC statuses.
// Unclassified errors are logged and reported without detail.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, common.ErrAccountAlreadyExists):
		return status.Error(codes.AlreadyExists, common.ErrAccountAlreadyExists.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrTokenMismatch):
		return status.Error(codes.Unauthenticated, common.ErrTokenMismatch.Error())
	case errors.Is(err, common.ErrFirstLoginRequired):
		return status.Error(codes.Unauthenticated, common.ErrFirstLoginRequired.Error())
	case errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	s.logger.Error(ctx, "request failed", "method", method, "error", err)
	return status.Error(codes.Internal, internalErrorMessage)
}

func authResponse(message string, r *services.AuthResult) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		authpb.FieldMessage:  message,
		authpb.FieldToken:    r.Token,
		authpb.FieldExpiry:   r.Expiry.UTC().Format(time.RFC3339),
		authpb.FieldID:       r.ID,
		authpb.FieldUsername: r.Username,
		authpb.FieldName:     r.Name,
		authpb.FieldLastName: r.LastName,
		authpb.FieldEmail:    r.Email,
	})
}

func requiredString(req *structpb.Struct, field string) (string, error) {
	v, ok := req.GetFields()[field]
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", field)
	}
	return sv.StringValue, nil
}

func optionalString(req *structpb.Struct, field string) string {
	return req.GetFields()[field].GetStringValue()
}

// tokenFromRequest reads the token field, falling back to a bearer token in
// the authorization metadata.
func tokenFromRequest(ctx context.Context, req *structpb.Struct) string {
	if token := optionalString(req, authpb.FieldToken); token != "" {
		return token
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(values[0], "Bearer "))
}
