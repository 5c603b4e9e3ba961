package observability

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"syscall"
	"testing"
	"time"
)

func TestNewShutdownManager_DefaultTimeout(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})

	sm := NewShutdownManager(logger, &http.Server{}, 0)
	if sm.shutdownTimeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", sm.shutdownTimeout)
	}

	sm = NewShutdownManager(logger, &http.Server{}, 5*time.Second)
	if sm.shutdownTimeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", sm.shutdownTimeout)
	}
}

func TestShutdownManager_RunsFuncsInOrder(t *testing.T) {
	logger := NewLogger(ErrorLevel, &bytes.Buffer{})
	sm := NewShutdownManager(logger, nil, 5*time.Second)

	var order []string
	sm.RegisterShutdownFunc(func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	sm.RegisterShutdownFunc(func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	go func() {
		time.Sleep(50 * time.Millisecond)
		syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
	}()

	if err := sm.WaitForShutdown(); err != nil {
		t.Fatalf("WaitForShutdown returned error: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("Shutdown functions ran out of order: %v", order)
	}
}

func TestShutdownManager_ReportsFuncErrors(t *testing.T) {
	logger := NewLogger(ErrorLevel, &bytes.Buffer{})
	sm := NewShutdownManager(logger, nil, 5*time.Second)

	sm.RegisterShutdownFunc(func(context.Context) error {
		return errors.New("close failed")
	})
	sm.RegisterShutdownFunc(func(context.Context) error {
		return nil
	})

	go func() {
		time.Sleep(50 * time.Millisecond)
		syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
	}()

	err := sm.WaitForShutdown()
	if err == nil {
		t.Fatal("Expected error when a shutdown function fails")
	}
}
