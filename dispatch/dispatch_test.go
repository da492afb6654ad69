package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesOutputAndIndexPath(t *testing.T) {
	d := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	argv := []string{"/bin/sh", "-c", "printf '%s\\n' \"$CSEARCHINDEX\" one two"}
	res, err := d.Run(ctx, argv, "/tmp/example-index", 0, 0)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Stdout, 3)
	assert.Equal(t, "/tmp/example-index\n", string(res.Stdout[0]))
	assert.Equal(t, "one\n", string(res.Stdout[1]))
	assert.Equal(t, "two\n", string(res.Stdout[2]))
	assert.Empty(t, res.Stderr)
}

func TestRunReportsNonzeroExit(t *testing.T) {
	d := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := d.Run(ctx, []string{"/bin/sh", "-c", "exit 1"}, "/tmp/ix", 0, 0)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestRunKillsOnStdoutBound(t *testing.T) {
	d := New()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	script := `i=0; while [ $i -lt 200 ]; do echo "line $i"; i=$((i+1)); done`
	res, err := d.Run(ctx, []string{"/bin/sh", "-c", script}, "/tmp/ix", 5, 0)
	require.NoError(t, err)
	assert.True(t, res.Success, "killed-by-us invocations still report success")
	assert.LessOrEqual(t, len(res.Stdout), 7)
}

func TestRunSpawnErrorOnMissingBinary(t *testing.T) {
	d := New()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := d.Run(ctx, []string{"/no/such/binary-at-all"}, "/tmp/ix", 0, 0)
	require.Error(t, err)
	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
}

func TestRunRejectsEmptyArgv(t *testing.T) {
	d := New()
	_, err := d.Run(context.Background(), nil, "/tmp/ix", 0, 0)
	require.Error(t, err)
}
