// Package api provides interfaces for dependency injection
package api

import (
	"context"

	"github.com/ssargent/assetview/pkg/config"
	"github.com/ssargent/assetview/pkg/record"
	"github.com/ssargent/assetview/pkg/session"
)

// SessionStoreFactory opens the store that backs login sessions
type SessionStoreFactory interface {
	// OpenSessionStore opens the session store described by cfg
	OpenSessionStore(cfg config.Sessions) (*session.Store, error)
}

// SourceFactory builds the dataset source for a configuration
type SourceFactory interface {
	// CreateSource returns the source named by the dataset configuration
	CreateSource(dataset config.Dataset) (record.Source, error)
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves the API until ctx is canceled
	StartServer(ctx context.Context, deps Dependencies, config ServerConfig) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
