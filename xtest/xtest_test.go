package xtest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/xutil/logging"
	"github.com/trickstertwo/xutil/xtest/exectest"
	"github.com/trickstertwo/xutil/xtest/floats"
)

func TestMain(m *testing.M) { Run(m, true) }

func TestInitConfiguresRoot(t *testing.T) {
	assert.Equal(t, logging.LevelInfo, logging.DefaultManager().Root().Level())
	assert.Len(t, logging.DefaultManager().Root().Handlers(), 1)
}

func TestTestCaseFloats(t *testing.T) {
	t.Parallel()

	tc := New(t)
	assert.True(t, tc.AssertFloatsAlmostEqual(1.0, 1.0000001, floats.Rtol(1e-6), floats.Atol(0)))
	assert.True(t, tc.AssertFloatsEqual([]float64{1, 2}, []int{1, 2}))
	assert.True(t, tc.AssertFloatsNotEqual(1.0, 2.0))
	assert.True(t, tc.AssertClose(3.0, 3.0))
	assert.True(t, tc.AssertNotClose(3.0, 4.0))
}

func TestTestCaseExecutable(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.sh"), []byte("#!/bin/sh\n"), 0o700))
	require.NoError(t, os.Chmod(filepath.Join(dir, "ok.sh"), 0o700))
	assert.True(t, New(t).AssertExecutable("ok.sh", exectest.RootDir(dir)))
}

func TestTempFilePath(t *testing.T) {
	t.Parallel()

	path := New(t).TempFilePath(".fits")
	assert.Equal(t, "xtest_test_TestTempFilePath.fits", path)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestFindFileFromRoot(t *testing.T) {
	t.Parallel()

	got, err := FindFileFromRoot("xutil/xtest/xtest.go")
	require.NoError(t, err)
	assert.Equal(t, "xtest.go", got)

	got, err = FindFileFromRoot("xtest_test.go")
	require.NoError(t, err)
	assert.Equal(t, "xtest_test.go", got)

	_, err = FindFileFromRoot("nowhere/missing.go")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
