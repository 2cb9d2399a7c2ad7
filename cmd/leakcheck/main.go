// Package main is the phone breach lookup CLI:
//
//	leakcheck <phone> <api_key>
//
// It prints exactly one JSON result line on stdout, preceded by an info line
// when the public API stood in for the private one, and exits 1 whenever the
// result is an error object.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/margoul1Malin/HakBoard/internal/config"
	"github.com/margoul1Malin/HakBoard/internal/leakcheck"
	"github.com/margoul1Malin/HakBoard/internal/logger"
	"github.com/margoul1Malin/HakBoard/internal/models"
	"github.com/margoul1Malin/HakBoard/internal/service"
	"go.uber.org/zap"
)

const progName = "leakcheck"

// lookupService is the part of service.Service the CLI drives.
type lookupService interface {
	Lookup(ctx context.Context, phone, apiKey string) service.Outcome
}

// serviceBuilder returns the lookup service and a cleanup func.
type serviceBuilder func() (lookupService, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, newLookupService))
}

// run executes one lookup and returns the process exit code. Panics are
// reported as JSON errors with a stack trace.
func run(ctx context.Context, args []string, stdout io.Writer, build serviceBuilder) (code int) {
	defer func() {
		if r := recover(); r != nil {
			writeJSON(stdout, models.Failure(fmt.Sprintf("critical error: %v\n%s", r, debug.Stack())))
			code = 1
		}
	}()

	if len(args) != 3 {
		name := progName
		if len(args) > 0 {
			name = filepath.Base(args[0])
		}
		writeJSON(stdout, models.Failure(fmt.Sprintf("usage: %s <phone> <api_key>", name)))
		return 1
	}
	phone, apiKey := args[1], args[2]

	svc, cleanup, err := build()
	if err != nil {
		writeJSON(stdout, models.Failure(err.Error()))
		return 1
	}
	defer cleanup()

	out := svc.Lookup(ctx, phone, apiKey)
	if out.Info != "" {
		writeJSON(stdout, models.Info{Info: out.Info})
	}
	writeJSON(stdout, out.Result)

	if out.Result.IsError() {
		return 1
	}
	return 0
}

// newLookupService wires configuration, logging and the LeakCheck clients.
func newLookupService() (lookupService, func(), error) {
	options, err := config.Parse()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	zapLogger := log.Log.With(zap.String("run_id", uuid.NewString()))

	// No timeout: requests block until the service answers.
	httpClient := &http.Client{}

	svc := service.NewLookupService(
		func(apiKey string) (service.PrivateSearcher, error) {
			return leakcheck.NewPrivateClient(httpClient, options.BaseURL, apiKey)
		},
		func() (service.PublicSearcher, error) {
			return leakcheck.NewPublicClient(httpClient, options.PublicURL)
		},
		time.Local,
		zapLogger,
	)
	return svc, func() { _ = zapLogger.Sync() }, nil
}

func writeJSON(w io.Writer, v any) {
	_ = json.NewEncoder(w).Encode(v)
}
