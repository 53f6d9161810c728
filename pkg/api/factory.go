// Package api provides factory implementations for dependency injection
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ssargent/assetview/pkg/config"
	"github.com/ssargent/assetview/pkg/record"
	"github.com/ssargent/assetview/pkg/session"
)

const datasetFetchTimeout = 60 * time.Second

// DefaultSessionStoreFactory opens pebble backed session stores
type DefaultSessionStoreFactory struct{}

// NewSessionStoreFactory creates a new session store factory
func NewSessionStoreFactory() SessionStoreFactory {
	return &DefaultSessionStoreFactory{}
}

// OpenSessionStore opens the session store described by cfg
func (f *DefaultSessionStoreFactory) OpenSessionStore(cfg config.Sessions) (*session.Store, error) {
	return session.OpenStore(session.StoreConfig{
		DataDir:  cfg.DataDir,
		InMemory: cfg.InMemory,
	})
}

// DefaultSourceFactory builds file and HTTP dataset sources
type DefaultSourceFactory struct {
	Client *http.Client
}

// NewSourceFactory creates a new source factory
func NewSourceFactory() SourceFactory {
	return &DefaultSourceFactory{
		Client: &http.Client{Timeout: datasetFetchTimeout},
	}
}

// CreateSource returns an HTTP source when a URL is configured and a file
// source otherwise
func (f *DefaultSourceFactory) CreateSource(dataset config.Dataset) (record.Source, error) {
	switch {
	case dataset.URL != "":
		return record.HTTPSource{URL: dataset.URL, Client: f.Client}, nil
	case dataset.Path != "":
		return record.FileSource{Path: dataset.Path}, nil
	default:
		return nil, fmt.Errorf("dataset path or url is required")
	}
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(ctx context.Context, deps Dependencies, config ServerConfig) error {
	return StartServer(ctx, deps, config)
}
