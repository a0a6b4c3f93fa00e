package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"uiHarness/internal/config"
	"uiHarness/internal/logger"
	"uiHarness/internal/runner"
)

func TestExecute_HistoryWithoutDatabase(t *testing.T) {
	c := New(&config.Cfg{}, logger.Nop(), nil)
	var out bytes.Buffer
	c.out = &out

	code := c.Execute(context.Background(), []string{"history"})
	assert.Equal(t, runner.ExitFailed, code)
}

func TestExecute_RunConfigError(t *testing.T) {
	cfg := &config.Cfg{Harness: config.Harness{ConfigDir: t.TempDir()}}
	c := New(cfg, logger.Nop(), nil)

	code := c.Execute(context.Background(), []string{"run", "--env", "qa"})
	assert.Equal(t, runner.ExitConfigError, code)
}

func TestExecute_UnknownCommand(t *testing.T) {
	c := New(&config.Cfg{}, logger.Nop(), nil)
	assert.Equal(t, runner.ExitFailed, c.Execute(context.Background(), []string{"frobnicate"}))
}
