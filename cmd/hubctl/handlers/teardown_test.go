package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virthub/hubctl/internal/bootstrap"
	"github.com/virthub/hubctl/internal/config"
	"github.com/virthub/hubctl/internal/run"
)

type stubUninstaller struct {
	calls int
	err   error
}

func (s *stubUninstaller) Uninstall(context.Context) error {
	s.calls++
	return s.err
}

func stubTeardown(t *testing.T) *stubUninstaller {
	t.Helper()
	buildTestHost(t)

	uninstaller := &stubUninstaller{}
	orig := newUninstaller
	newUninstaller = func(run.Runner, *config.Config) interface {
		Uninstall(ctx context.Context) error
	} {
		return uninstaller
	}
	t.Cleanup(func() { newUninstaller = orig })
	return uninstaller
}

func TestTeardown(t *testing.T) {
	t.Run("refuses without confirmation", func(t *testing.T) {
		uninstaller := stubTeardown(t)

		err := Teardown(context.Background(), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--yes")
		assert.Zero(t, uninstaller.calls)
	})

	t.Run("requires privileges", func(t *testing.T) {
		uninstaller := stubTeardown(t)
		requireRoot = func() error { return errors.New("effective uid is 1000, need 0") }

		err := Teardown(context.Background(), true)
		var permErr *bootstrap.PermissionError
		require.ErrorAs(t, err, &permErr)
		assert.Zero(t, uninstaller.calls)
	})

	t.Run("runs the uninstaller", func(t *testing.T) {
		uninstaller := stubTeardown(t)

		require.NoError(t, Teardown(context.Background(), true))
		assert.Equal(t, 1, uninstaller.calls)
	})

	t.Run("propagates uninstall failure", func(t *testing.T) {
		uninstaller := stubTeardown(t)
		uninstaller.err = errors.New("uninstall script not found")

		err := Teardown(context.Background(), true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "uninstall script not found")
	})
}
