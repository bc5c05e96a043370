// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/forge/internal/adapters/config"
	_ "go.trai.ch/forge/internal/adapters/logger"
	_ "go.trai.ch/forge/internal/adapters/telemetry"
	// Register store and engine nodes.
	_ "go.trai.ch/forge/internal/configstore"
	_ "go.trai.ch/forge/internal/engine/loopback"
	_ "go.trai.ch/forge/internal/resultstore"
	// Register app nodes.
	_ "go.trai.ch/forge/internal/app"
)
