package server

import (
	"context"
	"errors"
	"time"

	"github.com/bufbuild/connect-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

// NewRequestIDInterceptor tags each call with an id, echoed back in RequestIDHeader, and logs its outcome.
func NewRequestIDInterceptor(logger *zap.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, request connect.AnyRequest) (connect.AnyResponse, error) {
			requestID := request.Header().Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			started := time.Now()
			response, err := next(ctx, request)

			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("procedure", request.Spec().Procedure),
				zap.Duration("elapsed", time.Since(started)),
			}

			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					connectErr.Meta().Set(RequestIDHeader, requestID)
				}

				logger.Warn("request failed", append(fields, zap.Error(err))...)

				return nil, err
			}

			response.Header().Set(RequestIDHeader, requestID)
			logger.Info("request served", fields...)

			return response, nil
		}
	}
}
