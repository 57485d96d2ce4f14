package testutils

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega/gexec"
)

type APIServer struct {
	BaseURL    *url.URL
	PrivateKey *rsa.PrivateKey
	// UploadDir is the root of the server's disk image store.
	UploadDir string
	session   *gexec.Session
}

const rsa256BitSize = 128 * 8

func writePublicKeyFile(dir string, publicKey *rsa.PublicKey) (filePath string, err error) {
	file, err := os.CreateTemp(dir, "sprint3-public-key*.pem")
	if err != nil {
		return
	}
	defer file.Close()
	serializedKey := x509.MarshalPKCS1PublicKey(publicKey)
	err = pem.Encode(file, &pem.Block{Type: "RSA PUBLIC KEY", Bytes: serializedKey})
	filePath = file.Name()
	return
}

func findOpenPort() (addr *net.TCPAddr, err error) {
	addr, err = net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return
	}
	listener, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return
	}
	defer listener.Close()
	addr = listener.Addr().(*net.TCPAddr)
	return
}

func (server APIServer) waitToAcceptConnections(ctx context.Context) (err error) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	var connErr error
	for {
		select {
		case <-ticker.C:
			connErr = server.pingHealthEndpoint()
			if connErr == nil {
				return nil
			}
		case <-server.session.Exited:
			return fmt.Errorf("server exited with code %d, last error: %w", server.session.ExitCode(), connErr)
		case <-ctx.Done():
			return fmt.Errorf("cancelled (%s), last error: %w", context.Cause(ctx), connErr)
		}
	}
}

func (server APIServer) pingHealthEndpoint() (err error) {
	healthEndpoint := server.BaseURL.JoinPath("health")
	res, err := http.Get(healthEndpoint.String())
	if err != nil {
		return
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("got unexpected http status code in response: %s", res.Status)
	}
	return
}

// StartAPIServer runs the server binary with a fresh signing key and an empty
// disk image store under workDir, and waits until it answers health checks.
func StartAPIServer(ctx context.Context, serverBinaryPath string, dbConnectionString string, workDir string) (server APIServer, err error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, rsa256BitSize)
	if err != nil {
		err = fmt.Errorf("failed to generate private/public key pair: %w", err)
		return
	}
	publicKeyFilePath, err := writePublicKeyFile(workDir, &privateKey.PublicKey)
	if err != nil {
		err = fmt.Errorf("failed to write public key file: %w", err)
		return
	}

	addr, err := findOpenPort()
	if err != nil {
		err = fmt.Errorf("failed to find open port: %w", err)
		return
	}
	uploadDir := filepath.Join(workDir, "uploads")
	serverCmd := exec.Command(
		serverBinaryPath,
		"--port", fmt.Sprint(addr.Port),
		"--db-url", dbConnectionString,
		"--public-key", fmt.Sprintf("file://%s", publicKeyFilePath),
		"--storage", "disk",
		"--upload-dir", uploadDir,
		"--log-level", "debug",
	)
	session, err := gexec.Start(serverCmd, GinkgoWriter, GinkgoWriter)
	if err != nil {
		err = fmt.Errorf("failed to start server: %w", err)
		return
	}
	baseURL, err := url.Parse(fmt.Sprintf("http://%s", addr.String()))
	if err != nil {
		err = fmt.Errorf("failed to parse base URL: %w", err)
		return
	}
	server = APIServer{
		PrivateKey: privateKey,
		BaseURL:    baseURL,
		UploadDir:  uploadDir,
		session:    session,
	}
	err = server.waitToAcceptConnections(ctx)
	if err != nil {
		session.Terminate().Wait()
		err = fmt.Errorf("server never became healthy: %w", err)
	}
	return
}

func (server APIServer) Terminate() {
	server.session.Terminate().Wait()
}
