package container

import (
	"github.com/svgholder/svgholder/cmd/svgholder/repository"
	"github.com/svgholder/svgholder/cmd/svgholder/service"
	"github.com/svgholder/svgholder/common/bootstrap"
)

// Container holds all initialized services and repositories
type Container struct {
	Components *bootstrap.Components

	// Repositories
	SvgRepo *repository.SvgRepository

	// Services
	SvgService *service.SvgService
}

// NewContainer wires repositories and services once at startup. The
// store handle is passed in explicitly; nothing here reaches for
// process-wide state.
func NewContainer(components *bootstrap.Components) (*Container, error) {
	svgRepo := repository.NewSvgRepository(components.DB)

	svgService := service.NewSvgService(
		svgRepo,
		components.Cache,
		components.Config.Cache.DefaultTTL,
		components.Logger,
	)

	return &Container{
		Components: components,
		SvgRepo:    svgRepo,
		SvgService: svgService,
	}, nil
}
