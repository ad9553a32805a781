//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	DefaultMongoImage = "mongo:7"
	mongoPort         = "27017/tcp"
)

// MongoContainer is a running single-node MongoDB.
type MongoContainer struct {
	testcontainers.Container
	host string
	port string
}

// NewMongoContainer starts MongoDB and waits until it accepts connections.
func NewMongoContainer(ctx context.Context) (*MongoContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultMongoImage,
		ExposedPorts: []string{mongoPort},
		WaitingFor: wait.ForAll(
			wait.ForLog("Waiting for connections"),
			wait.ForListeningPort(mongoPort),
		).WithDeadline(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start mongo container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("mongo host: %w", err)
	}
	port, err := container.MappedPort(ctx, mongoPort)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("mongo port: %w", err)
	}

	return &MongoContainer{Container: container, host: host, port: port.Port()}, nil
}

// DatabaseURL returns a connection string for the named database.
func (c *MongoContainer) DatabaseURL(database string) string {
	return fmt.Sprintf("mongodb://%s:%s/%s", c.host, c.port, database)
}
