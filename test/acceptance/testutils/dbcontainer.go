package testutils

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const DefaultDBImage = "docker.io/postgres:16-alpine"

// DBServerOptions describes the throwaway postgres server. Zero fields take
// the defaults used by the acceptance suite.
type DBServerOptions struct {
	Image    string
	Database string
	Username string
	Password string
	// StartupTimeout bounds the wait for the server to accept queries when
	// the context has no deadline of its own.
	StartupTimeout time.Duration
}

func (opts DBServerOptions) withDefaults() DBServerOptions {
	if opts.Image == "" {
		opts.Image = DefaultDBImage
	}
	if opts.Database == "" {
		opts.Database = "sprint3"
	}
	if opts.Username == "" {
		opts.Username = "postgres"
	}
	if opts.Password == "" {
		opts.Password = "postgres"
	}
	if opts.StartupTimeout <= 0 {
		opts.StartupTimeout = 15 * time.Minute
	}
	return opts
}

func (opts DBServerOptions) connectionString(host string, port nat.Port) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(opts.Username, opts.Password),
		Host:     host + ":" + strconv.Itoa(port.Int()),
		Path:     "/" + opts.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// DBServer is a throwaway postgres container for one test run.
type DBServer struct {
	container        *postgres.PostgresContainer
	ConnectionString string
}

var pgPort = nat.Port("5432/tcp")

func StartDBServer(ctx context.Context, opts DBServerOptions) (server DBServer, err error) {
	opts = opts.withDefaults()
	timeout := opts.StartupTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage(opts.Image),
		postgres.WithDatabase(opts.Database),
		postgres.WithUsername(opts.Username),
		postgres.WithPassword(opts.Password),
		testcontainers.WithWaitStrategyAndDeadline(timeout, wait.ForSQL(pgPort, "pgx", opts.connectionString)),
	)
	if err != nil {
		err = fmt.Errorf("failed to start %s: %w", opts.Image, err)
		return
	}

	host, err := container.Host(ctx)
	if err != nil {
		err = fmt.Errorf("failed to determine host name: %w", err)
		_ = container.Terminate(ctx)
		return
	}
	port, err := container.MappedPort(ctx, pgPort)
	if err != nil {
		err = fmt.Errorf("failed to determine port: %w", err)
		_ = container.Terminate(ctx)
		return
	}
	server = DBServer{container: container, ConnectionString: opts.connectionString(host, port)}
	return
}

func (server DBServer) Terminate(ctx context.Context) error {
	return server.container.Terminate(ctx)
}
