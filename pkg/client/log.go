package client

import (
	"context"
	"log/slog"

	"github.com/zitadel/logging"
)

func logCtxWithClientData(ctx context.Context, client *Client, attrs ...any) context.Context {
	logger, ok := client.Logger(ctx)
	if !ok {
		return ctx
	}
	logger = logger.With(slog.Group("client", attrs...))
	return logging.ToContext(ctx, logger)
}
