package handler

import (
	"scenesync/internal/app/project"
	"scenesync/internal/app/scene"
	"scenesync/internal/configs"
)

// AppDeps bundles the services the handlers depend on. It is constructed once
// at server start and injected; nothing here is ambient global state.
type AppDeps struct {
	Registry *scene.Registry
	Config   *configs.AppConfig

	// Projects is nil when no project store backend is configured; the project
	// routes then respond with a storage-disabled error.
	Projects project.Store
}
