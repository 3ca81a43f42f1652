// Package integration starts a real SonarQube instance in a container and
// exercises the full client + dispatcher stack against it. Requires Docker;
// tests skip themselves when it is unavailable.
package integration

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const sonarQubeImage = "sonarqube:community"

var (
	sonarContainer *SonarQubeContainer
	sonarOnce      sync.Once
	sonarStartErr  error
)

// SonarQubeContainer wraps a testcontainers SonarQube instance.
type SonarQubeContainer struct {
	container testcontainers.Container
	url       string
}

// URL returns the base URL of the running SonarQube container.
func (s *SonarQubeContainer) URL() string {
	return s.url
}

// Cleanup tears down the container. Uses a fresh context in case the main
// context expired.
func (s *SonarQubeContainer) Cleanup() {
	if s == nil || s.container == nil {
		return
	}
	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cleanupCancel()
	s.container.Terminate(cleanupCtx)
}

// StartSonarQube starts (or reuses) a shared SonarQube container.
// SonarQube is slow to boot, so the wait is generous.
func StartSonarQube(ctx context.Context) (*SonarQubeContainer, error) {
	sonarOnce.Do(func() {
		req := testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        sonarQubeImage,
				ExposedPorts: []string{"9000/tcp"},
				Env: map[string]string{
					"SONAR_ES_BOOTSTRAP_CHECKS_DISABLE": "true",
				},
				WaitingFor: wait.ForHTTP("/api/system/status").
					WithPort("9000/tcp").
					WithStartupTimeout(5 * time.Minute),
			},
			Started: true,
		}

		container, err := testcontainers.GenericContainer(ctx, req)
		if err != nil {
			sonarStartErr = fmt.Errorf("failed to start sonarqube container: %w", err)
			return
		}

		host, err := container.Host(ctx)
		if err != nil {
			sonarStartErr = err
			return
		}
		port, err := container.MappedPort(ctx, "9000/tcp")
		if err != nil {
			sonarStartErr = err
			return
		}

		sonarContainer = &SonarQubeContainer{
			container: container,
			url:       fmt.Sprintf("http://%s:%s", host, port.Port()),
		}
	})

	return sonarContainer, sonarStartErr
}

// integrationEnabled reports whether integration tests should run.
func integrationEnabled() bool {
	return os.Getenv("SONARMCP_INTEGRATION") != ""
}
