package main

import (
	"io"
	"log"
	"os"
	"testing"

	"chiyasathi/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestRun_NoCommand(t *testing.T) {
	assert.Equal(t, 2, run(nil))
}

func TestRun_FailedCommandStillCloses(t *testing.T) {
	t.Setenv("STATE_DRIVER", "memory")
	t.Setenv("RABBITMQ_URL", "")

	closed := 0
	orig := openApp
	openApp = func(cfg config.Config, server, profile string) (*app, error) {
		a, err := orig(cfg, server, profile)
		if err != nil {
			return nil, err
		}
		inner := a.close
		a.close = func() {
			closed++
			inner()
		}
		return a, nil
	}
	t.Cleanup(func() { openApp = orig })

	assert.Equal(t, 1, run([]string{"no-such-command"}))
	assert.Equal(t, 1, closed, "state store closed before exit")

	assert.Equal(t, 0, run([]string{"logout"}))
	assert.Equal(t, 2, closed)
}
