package common

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ParseBearer pulls the token out of "Bearer <token>".
func ParseBearer(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func authenticate(ctx context.Context, tokens *TokenManager) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}
	vals := md["authorization"]
	if len(vals) == 0 {
		return nil, status.Error(codes.Unauthenticated, "authorization required")
	}
	tokenString, ok := ParseBearer(vals[0])
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "invalid auth header")
	}

	claims, err := tokens.ValidToken(tokenString)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
	}
	return WithIdentity(ctx, claims.UserID, claims.Handle), nil
}

// AuthInterceptor validates the bearer token of every unary call outside publicMethods.
func AuthInterceptor(tokens *TokenManager, publicMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}
		authCtx, err := authenticate(ctx, tokens)
		if err != nil {
			return nil, err
		}
		return handler(authCtx, req)
	}
}

type authedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authedStream) Context() context.Context { return s.ctx }

func StreamAuthInterceptor(tokens *TokenManager) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		authCtx, err := authenticate(ss.Context(), tokens)
		if err != nil {
			return err
		}
		return handler(srv, &authedStream{ServerStream: ss, ctx: authCtx})
	}
}

func LoggingUnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	evt := log.Info()
	if err != nil {
		evt = log.Warn().Err(err)
	}
	evt.Str("method", info.FullMethod).Dur("latency", time.Since(start)).Msg("grpc unary")
	return resp, err
}

func LoggingStreamInterceptor(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	log.Info().Str("method", info.FullMethod).Msg("grpc stream opened")
	err := handler(srv, ss)
	log.Info().Str("method", info.FullMethod).Dur("duration", time.Since(start)).AnErr("error", err).Msg("grpc stream closed")
	return err
}

// ToStatus converts an AppError into a gRPC status error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(GRPCCode(err), MessageOf(err))
}
