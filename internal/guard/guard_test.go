package guard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pass(context.Context) error { return nil }

func failWith(msg string) Check {
	return func(context.Context) error { return errors.New(msg) }
}

func TestEvaluator_ResultsKeepSpecOrder(t *testing.T) {
	specs := []Spec{
		{ID: "slow", Severity: SeverityError, Check: func(context.Context) error {
			time.Sleep(20 * time.Millisecond)
			return nil
		}},
		{ID: "fast", Severity: SeverityWarning, Check: failWith("nope")},
		{ID: "mid", Severity: SeverityInfo, Check: pass},
	}

	res := NewEvaluator(3).Run(context.Background(), specs)

	require.Len(t, res.Results, 3)
	assert.Equal(t, "slow", res.Results[0].ID)
	assert.Equal(t, "fast", res.Results[1].ID)
	assert.Equal(t, "mid", res.Results[2].ID)
	assert.False(t, res.Passed)
	assert.False(t, res.HasBlocking)
	assert.Equal(t, "nope", res.Results[1].Message)
}

func TestEvaluator_Blocking(t *testing.T) {
	tests := []struct {
		name     string
		spec     Spec
		blocking bool
	}{
		{"error blocking", Spec{ID: "a", Severity: SeverityError, Blocking: true, Check: failWith("x")}, true},
		{"error non-blocking", Spec{ID: "b", Severity: SeverityError, Check: failWith("x")}, false},
		{"warning blocking flag", Spec{ID: "c", Severity: SeverityWarning, Blocking: true, Check: failWith("x")}, false},
		{"passing blocking", Spec{ID: "d", Severity: SeverityError, Blocking: true, Check: pass}, false},
		{"default severity is error", Spec{ID: "e", Blocking: true, Check: failWith("x")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewEvaluator(0).Run(context.Background(), []Spec{tt.spec})
			assert.Equal(t, tt.blocking, res.HasBlocking)
			if tt.blocking {
				assert.Equal(t, []string{tt.spec.ID}, res.Blocking())
			} else {
				assert.Empty(t, res.Blocking())
			}
		})
	}
}

func TestEvaluator_PanicAndNilCheck(t *testing.T) {
	res := NewEvaluator(2).Run(context.Background(), []Spec{
		{ID: "boom", Blocking: true, Check: func(context.Context) error { panic("kaboom") }},
		{ID: "empty"},
	})

	require.Len(t, res.Failed(), 2)
	assert.Contains(t, res.Results[0].Message, "kaboom")
	assert.True(t, res.HasBlocking)
	assert.Equal(t, ErrNoCheck.Error(), res.Results[1].Message)
}

func TestEvaluator_RespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	check := func(context.Context) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return nil
	}

	specs := make([]Spec, 10)
	for i := range specs {
		specs[i] = Spec{ID: "g", Check: check}
	}

	res := NewEvaluator(2).Run(context.Background(), specs)
	assert.True(t, res.Passed)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestEvaluator_Empty(t *testing.T) {
	res := NewEvaluator(0).Run(context.Background(), nil)
	assert.True(t, res.Passed)
	assert.Empty(t, res.Results)
}

func TestParseVersion(t *testing.T) {
	tests := map[string]string{
		"v20.11.1\n":                           "20.11.1",
		"9.1.0":                                "9.1.0",
		"Docker version 24.0.7, build afdd53b": "24.0.7",
		"git version 2.43.0":                   "2.43.0",
	}
	for in, want := range tests {
		v, err := ParseVersion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v.String())
	}

	_, err := ParseVersion("command not found")
	assert.Error(t, err)
}

func TestCommandVersion(t *testing.T) {
	probe := func(_ context.Context, name string) (string, error) {
		switch name {
		case "node":
			return "v18.19.0\n", nil
		case "pnpm":
			return "8.15.4", nil
		}
		return "", errors.New(name + " is not installed")
	}
	ctx := context.Background()

	assert.NoError(t, CommandVersion(probe, "node", ">=18")(ctx))
	assert.NoError(t, CommandVersion(probe, "pnpm", "")(ctx))

	err := CommandVersion(probe, "pnpm", ">=9")(ctx)
	assert.ErrorContains(t, err, "does not satisfy >=9")

	err = CommandVersion(probe, "bun", ">=1")(ctx)
	assert.ErrorContains(t, err, "not installed")

	err = CommandVersion(probe, "node", "not a range")(ctx)
	assert.ErrorContains(t, err, "invalid version constraint")
}

func TestFileChecks(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/app/package.json", []byte("{}"), 0o644))
	ctx := context.Background()

	assert.NoError(t, FileExists(fs, "/app/package.json")(ctx))
	assert.Error(t, FileExists(fs, "/app/tsconfig.json")(ctx))
	assert.NoError(t, FileAbsent(fs, "/app/tsconfig.json")(ctx))
	assert.ErrorContains(t, FileAbsent(fs, "/app/package.json")(ctx), "already exists")

	assert.NoError(t, DirEmpty(fs, "/missing")(ctx))
	assert.ErrorContains(t, DirEmpty(fs, "/app")(ctx), "not empty")
}

func TestDirWritable(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/work", 0o755))
	require.NoError(t, base.MkdirAll("/locked", 0o555))
	ctx := context.Background()

	assert.NoError(t, DirWritable(base, "/work/new/project")(ctx))
	assert.ErrorContains(t, DirWritable(base, "/locked/app")(ctx), "/locked is not writable")

	entries, err := afero.ReadDir(base, "/work")
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written")

	readOnly := afero.NewReadOnlyFs(base)
	assert.ErrorContains(t, DirWritable(readOnly, "/work")(ctx), "not writable")
}

func TestDirWritable_AgreesWithCreate(t *testing.T) {
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Mkdir(locked, 0o555))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })
	ctx := context.Background()
	fs := afero.NewOsFs()

	assert.NoError(t, DirWritable(fs, filepath.Join(dir, "fresh-app"))(ctx))

	// Root may write into a 0555 directory; anyone else may not.
	f, createErr := os.CreateTemp(locked, "x")
	if createErr == nil {
		_ = f.Close()
		require.NoError(t, os.Remove(f.Name()))
	}
	err := DirWritable(fs, filepath.Join(locked, "app"))(ctx)
	assert.Equal(t, createErr == nil, err == nil, "create: %v, check: %v", createErr, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the locked directory")
}

func TestEnvSetAndPredicate(t *testing.T) {
	ctx := context.Background()

	t.Setenv("HATCH_GUARD_TEST", "1")
	assert.NoError(t, EnvSet("HATCH_GUARD_TEST")(ctx))
	assert.Error(t, EnvSet("HATCH_GUARD_TEST_UNSET")(ctx))

	assert.NoError(t, Predicate(func() bool { return true }, "x")(ctx))
	assert.EqualError(t, Predicate(func() bool { return false }, "no git repo")(ctx), "no git repo")
	assert.EqualError(t, Fail("missing nextjs")(ctx), "missing nextjs")
}
