// Package natsstore embeds a NATS JetStream server for local draft storage.
// The server is in-process only; nothing listens on the network.
package natsstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/IlyaRozhok/TaDa-sub005/internal/logger"
)

const (
	readyTimeout    = 4 * time.Second
	drainTimeout    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// StartEmbedded starts an embedded NATS server with JetStream enabled,
// storing data under the given directory. Connect with ConnectInProcess.
func StartEmbedded(dataDir string) (*server.Server, error) {
	ns, err := server.NewServer(&server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating storage server: %w", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(readyTimeout) {
		return nil, fmt.Errorf("storage server not ready after %s", readyTimeout)
	}

	logger.Debug("embedded storage ready, data dir %s", dataDir)
	return ns, nil
}

// ConnectInProcess creates an in-process connection to the embedded server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	return nats.Connect("", nats.InProcessServer(ns))
}

// CreateJetStream creates a JetStream context from a NATS connection.
func CreateJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// Shutdown drains the connection, then shuts down the server. Both phases
// are bounded by timeouts so a wedged server cannot hang process exit.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		if err := await(drainTimeout, nc.Drain); err != nil {
			logger.Warn("storage drain incomplete, forcing close: %v", err)
			nc.Close()
		}
	}

	if ns != nil {
		ns.Shutdown()
		err := await(shutdownTimeout, func() error {
			ns.WaitForShutdown()
			return nil
		})
		if err != nil {
			return errors.New("storage server shutdown timed out")
		}
		logger.Debug("embedded storage shut down")
	}
	return nil
}

// await runs fn in a goroutine and waits for it up to d.
func await(d time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-time.After(d):
		return fmt.Errorf("timed out after %s", d)
	}
}
