package run

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerRun(t *testing.T) {
	t.Parallel()

	runner := NewExecRunner()

	t.Run("successful command", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, runner.Run(context.Background(), nil, "true"))
	})

	t.Run("failing command names itself", func(t *testing.T) {
		t.Parallel()
		err := runner.Run(context.Background(), nil, "false")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "false")
	})

	t.Run("extra environment is passed through", func(t *testing.T) {
		t.Parallel()
		marker := filepath.Join(t.TempDir(), "marker")
		err := runner.Run(context.Background(),
			[]string{"MARKER=" + marker},
			"sh", "-c", `printf ok > "$MARKER"`)
		require.NoError(t, err)

		data, err := os.ReadFile(marker)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(data))
	})

	t.Run("cancelled context kills the command", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Error(t, runner.Run(ctx, nil, "sleep", "10"))
	})
}

func TestExecRunnerLookPath(t *testing.T) {
	t.Parallel()

	runner := NewExecRunner()

	path, err := runner.LookPath("sh")
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = runner.LookPath("definitely-not-a-binary-name")
	assert.Error(t, err)
}
