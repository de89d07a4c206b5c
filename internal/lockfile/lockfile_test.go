package lockfile

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home", "skillcast.lock")

	lock, err := Acquire(path)
	require.NoError(t, err)
	assert.Equal(t, path, lock.Path())

	require.NoError(t, lock.Release())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))
	require.NoError(t, lock.Release(), "second release is a no-op")

	again, err := Acquire(path)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestAcquire_AlreadyLocked(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" && runtime.GOOS != "windows" {
		t.Skip("advisory locks not supported")
	}
	path := filepath.Join(t.TempDir(), "skillcast.lock")

	first, err := Acquire(path)
	require.NoError(t, err)
	defer func() { _ = first.Release() }()

	_, err = Acquire(path)
	assert.ErrorIs(t, err, ErrAlreadyLocked)
}

func TestAcquire_EmptyPath(t *testing.T) {
	_, err := Acquire("")
	assert.Error(t, err)
}

func TestNilLock(t *testing.T) {
	var l *Lock
	assert.Empty(t, l.Path())
	assert.NoError(t, l.Release())
}
