package main

import (
	"io"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-share/pkg/logger"
)

func TestServeListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := &http.Server{Addr: ln.Addr().String(), Handler: http.NotFoundHandler()}
	done := make(chan error, 1)
	go func() { done <- serve(srv, logger.NewWithWriter(io.Discard, logger.LevelInfo), make(chan os.Signal)) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after listen failure")
	}
}

func TestServeStopSignal(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	stop := make(chan os.Signal, 1)
	stop <- os.Interrupt

	done := make(chan error, 1)
	go func() { done <- serve(srv, logger.NewWithWriter(io.Discard, logger.LevelInfo), stop) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after stop signal")
	}
}
