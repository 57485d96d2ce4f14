package testutils

import (
	"context"
	"fmt"
	"os/exec"

	. "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega/gexec"
)

// RunMigrate runs the migrate binary against dbURL with the given subcommand
// arguments and waits for it to exit successfully.
func RunMigrate(ctx context.Context, migrateBinaryPath string, dbURL string, args ...string) (err error) {
	migrateCmd := exec.Command(migrateBinaryPath, append([]string{"--db-url", dbURL}, args...)...)
	session, err := gexec.Start(migrateCmd, GinkgoWriter, GinkgoWriter)
	if err != nil {
		err = fmt.Errorf("failed to run command: %w", err)
		return
	}
	select {
	case <-session.Exited:
		if session.ExitCode() != 0 {
			err = fmt.Errorf("exited with non-zero code %d", session.ExitCode())
			return
		}
	case <-ctx.Done():
		session.Kill()
		err = fmt.Errorf("context cancelled: %w", context.Cause(ctx))
		return
	}
	return
}

func MigrateToLatest(ctx context.Context, migrateBinaryPath string, dbURL string) error {
	return RunMigrate(ctx, migrateBinaryPath, dbURL, "migrate", "--to", "latest")
}
