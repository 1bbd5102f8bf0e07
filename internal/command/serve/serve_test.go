package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	g "github.com/onsi/gomega"

	"vmctl/internal/config"
	"vmctl/internal/inject"
)

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	g.Expect(err).NotTo(g.HaveOccurred())
	defer l.Close()

	return l.Addr().String()
}

func TestServe_gracefulShutdown(t *testing.T) {
	g.RegisterTestingT(t)

	cfg := &config.Config{
		HTTPAPIEndpoint: freeAddr(t),
		ShutdownTimeout: 5 * time.Second,
	}
	srv := inject.InitializeHTTPServer(cfg, inject.InitializePorts(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- serve(ctx, cfg, srv)
	}()

	g.Eventually(func() error {
		resp, err := http.Get(fmt.Sprintf("http://%s/healthz", cfg.HTTPAPIEndpoint))
		if err != nil {
			return err
		}
		resp.Body.Close()

		return nil
	}, 5*time.Second, 50*time.Millisecond).Should(g.Succeed())

	cancel()

	g.Eventually(done, 5*time.Second).Should(g.Receive(g.BeNil()))
}

func TestServe_listenError(t *testing.T) {
	g.RegisterTestingT(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	g.Expect(err).NotTo(g.HaveOccurred())
	defer l.Close()

	cfg := &config.Config{HTTPAPIEndpoint: l.Addr().String(), ShutdownTimeout: time.Second}
	srv := inject.InitializeHTTPServer(cfg, inject.InitializePorts(cfg))

	err = serve(context.Background(), cfg, srv)
	g.Expect(err).To(g.MatchError(g.ContainSubstring("listening on")))
}
