// Package inject builds the dependency container route handlers resolve
// their repositories from.
package inject

import (
	"context"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectoinject/loglevel"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
)

// NewContainer creates an empty container with a unique id. Container ids
// are process global in ectoinject, so every server gets its own.
func NewContainer(logger ectologger.Logger) (ectocontainer.DIContainer, error) {
	return ectoinject.NewDIContainer(ectocontainer.DIContainerConfig{
		ID:                       "marigold-" + uuid.NewString(),
		AllowCaptiveDependencies: true,
		AllowMissingDependencies: true,
		LoggerConfig: &ectocontainer.DIContainerLoggerConfig{
			Prefix:   "ectoinject",
			LogLevel: loglevel.WARN,
			Enabled:  true,
			LogFunc: func(ctx context.Context, level, msg string) {
				entry := logger.WithContext(ctx).WithField("component", "ectoinject")
				if level == loglevel.WARN {
					entry.Warn(msg)
					return
				}
				entry.Debug(msg)
			},
		},
	})
}
