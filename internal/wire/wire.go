//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"seedling/internal/config"
)

// InitializeApplication wires the API binary from cfg. Run `wire` in this
// directory to regenerate wire_gen.go.
func InitializeApplication(cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		StorageSet,
		RealtimeSet,
		NotificationSet,
		DomainSet,
		TransportSet,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
