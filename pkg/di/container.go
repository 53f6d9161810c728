// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/assetview/pkg/api" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	sessionStoreFactory api.SessionStoreFactory
	sourceFactory       api.SourceFactory
	serverFactory       api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		sessionStoreFactory: api.NewSessionStoreFactory(),
		sourceFactory:       api.NewSourceFactory(),
		serverFactory:       api.NewServerFactory(),
	}
}

// GetSessionStoreFactory returns the session store factory
func (c *Container) GetSessionStoreFactory() api.SessionStoreFactory {
	return c.sessionStoreFactory
}

// GetSourceFactory returns the dataset source factory
func (c *Container) GetSourceFactory() api.SourceFactory {
	return c.sourceFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetSessionStoreFactory allows overriding the session store factory (for testing)
func (c *Container) SetSessionStoreFactory(factory api.SessionStoreFactory) {
	c.sessionStoreFactory = factory
}

// SetSourceFactory allows overriding the dataset source factory (for testing)
func (c *Container) SetSourceFactory(factory api.SourceFactory) {
	c.sourceFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
