package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rogerio-castellano/safekart/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type syncRecorder struct {
	bytes.Buffer
	synced bool
}

func (s *syncRecorder) Sync() error {
	s.synced = true
	return nil
}

func newRecordingLogger() (*zap.Logger, *syncRecorder) {
	out := &syncRecorder{}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), out, zap.DebugLevel)
	return zap.New(core), out
}

func TestExitCode_FailureFlushesLogger(t *testing.T) {
	logger, out := newRecordingLogger()

	if code := exitCode(logger, errors.New("listen tcp :3000: address already in use")); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !out.synced {
		t.Error("expected logger to be synced before exit")
	}
	if !strings.Contains(out.String(), "server stopped") || !strings.Contains(out.String(), "address already in use") {
		t.Errorf("expected failure to be logged, got %q", out.String())
	}
}

func TestExitCode_CleanShutdown(t *testing.T) {
	logger, out := newRecordingLogger()

	if code := exitCode(logger, nil); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if !out.synced {
		t.Error("expected logger to be synced on clean shutdown")
	}
}

func TestRun_InvalidConfiguration(t *testing.T) {
	err := run(&config.Config{StoreDriver: "sqlite"}, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("expected invalid configuration error, got %v", err)
	}
}
