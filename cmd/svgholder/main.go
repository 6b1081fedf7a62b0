package main

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/svgholder/svgholder/cmd/svgholder/container"
	"github.com/svgholder/svgholder/cmd/svgholder/handlers"
	"github.com/svgholder/svgholder/cmd/svgholder/repository"
	"github.com/svgholder/svgholder/cmd/svgholder/routes"
	"github.com/svgholder/svgholder/common/bootstrap"
	"github.com/svgholder/svgholder/common/db"
	commonmw "github.com/svgholder/svgholder/common/middleware"
	"github.com/svgholder/svgholder/common/server"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (config, logger, DB, cache, telemetry)
	components, err := bootstrap.Setup(ctx, "svgholder",
		bootstrap.WithDBInitHook(func(d *db.DB) error {
			return repository.EnsureSchema(ctx, d)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap svgholder: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	e := setupEcho(components)
	setupMiddleware(e)
	registerRoutes(e, serviceContainer)

	startServer(e, components)
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho(components *bootstrap.Components) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(
		components.Logger,
		components.Config.IsProduction(),
	)
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	// Edge cap on request bodies; headroom over the 5 MiB file limit
	// covers multipart framing and the form fields.
	e.Use(middleware.BodyLimit("6M"))
	e.Use(commonmw.Metrics())
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterHealthRoutes(e)
	routes.RegisterSvgRoutes(e, serviceContainer)
}

// startServer runs the HTTP server until a shutdown signal arrives
func startServer(e *echo.Echo, components *bootstrap.Components) {
	srv := server.New(
		components.Config.Service.Name,
		components.Config.Service.Port,
		e,
		components.Logger,
	)

	if err := srv.Start(); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
