package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.vocdoni.io/dvote/log"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/service"
)

func main() {
	dataDir := flag.String("datadir", "tallyd-data", "directory for the persisted state")
	host := flag.String("host", "0.0.0.0", "host to bind the API server to")
	port := flag.Int("port", 9090, "port to bind the API server to")
	logLevel := flag.String("loglevel", "info", "log level (debug, info, warn, error)")
	curveType := flag.String("curve", "", "curve backend for the encryption scheme")
	signerKey := flag.String("signerkey", "", "hex private key the oracle signs results with")
	flag.Parse()
	log.Init(*logLevel, "stdout", nil)

	srv, err := service.New(service.Config{
		DataDir:         *dataDir,
		Host:            *host,
		Port:            *port,
		CurveType:       *curveType,
		OracleSignerHex: *signerKey,
	})
	if err != nil {
		log.Fatalf("failed to create tally service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("failed to start tally service: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	srv.Stop()
}
