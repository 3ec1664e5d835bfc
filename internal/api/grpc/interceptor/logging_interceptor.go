package interceptor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"usethis-backend/internal/logger"
)

// grpcHTTPStatus is the status logged for a gRPC code.
var grpcHTTPStatus = map[codes.Code]int{
	codes.OK:               200,
	codes.InvalidArgument:  400,
	codes.Unauthenticated:  401,
	codes.PermissionDenied: 403,
	codes.NotFound:         404,
	codes.Unavailable:      503,
}

// Logging tags each call with a request id and logs it when done. Panics
// become codes.Internal.
func Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get("x-request-id"); len(v) > 0 {
				id = v[0]
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		ctx = logger.WithRequestID(ctx, id)

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic in gRPC handler", "method", info.FullMethod, "panic", fmt.Sprint(rec))
				err = status.Error(codes.Internal, "internal error")
			}
			code := status.Code(err)
			httpStatus, ok := grpcHTTPStatus[code]
			if !ok {
				httpStatus = 500
			}
			logger.Request(ctx, "grpc", "POST", info.FullMethod, httpStatus, time.Since(start))
		}()

		return handler(ctx, req)
	}
}
