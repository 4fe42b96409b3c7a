// Package test provides shared helpers for integration tests, such as
// starting ephemeral service containers.
package test

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartMongoContainer starts a MongoDB container to back storage tests. The
// connection string can be obtained with Endpoint(ctx, "mongodb").
func StartMongoContainer(ctx context.Context) (testcontainers.Container, error) {
	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(time.Minute),
	}
	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
}

// RandomDatabaseName returns a random database name so parallel test
// packages sharing a container don't step on each other.
func RandomDatabaseName() string {
	return fmt.Sprintf("test_%d_%04d", time.Now().UnixNano(), rand.Intn(10000))
}
