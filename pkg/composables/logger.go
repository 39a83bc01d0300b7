package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/hseworks/picatrack/pkg/configuration"
	"github.com/hseworks/picatrack/pkg/constants"
)

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger, falling back to the process
// logger when none was attached (background jobs, tests).
func UseLogger(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	if !ok || logger == nil {
		return logrus.NewEntry(configuration.Use().Logger())
	}
	return logger
}
