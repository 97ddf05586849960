package guard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
)

// VersionProbe returns the raw version output of a tool.
type VersionProbe func(ctx context.Context, name string) (string, error)

// ExecProbe runs "<name> --version".
func ExecProbe(ctx context.Context, name string) (string, error) {
	out, err := exec.CommandContext(ctx, name, "--version").Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%s is not installed", name)
		}
		return "", fmt.Errorf("run %s --version: %w", name, err)
	}
	return string(out), nil
}

var versionPattern = regexp.MustCompile(`v?(\d+)(\.\d+)?(\.\d+)?([-+][0-9A-Za-z.\-+]*)?`)

// ParseVersion extracts the first version number found in tool output,
// so "v20.11.1" and "pnpm 9.1.0" both parse.
func ParseVersion(output string) (*semver.Version, error) {
	match := versionPattern.FindString(strings.TrimSpace(output))
	if match == "" {
		return nil, fmt.Errorf("no version in %q", strings.TrimSpace(output))
	}
	return semver.NewVersion(match)
}

// CommandVersion checks that a tool is installed and satisfies constraint.
// An empty constraint only checks presence.
func CommandVersion(probe VersionProbe, name, constraint string) Check {
	return func(ctx context.Context) error {
		out, err := probe(ctx, name)
		if err != nil {
			return err
		}
		if constraint == "" {
			return nil
		}

		c, err := semver.NewConstraint(constraint)
		if err != nil {
			return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
		}
		v, err := ParseVersion(out)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if !c.Check(v) {
			return fmt.Errorf("%s %s does not satisfy %s", name, v, constraint)
		}
		return nil
	}
}

// FileExists passes when path exists on fs.
func FileExists(fs afero.Fs, path string) Check {
	return func(context.Context) error {
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s does not exist", path)
		}
		return nil
	}
}

// FileAbsent passes when path does not exist on fs.
func FileAbsent(fs afero.Fs, path string) Check {
	return func(context.Context) error {
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%s already exists", path)
		}
		return nil
	}
}

// DirEmpty passes when dir is missing or has no entries.
func DirEmpty(fs afero.Fs, dir string) Check {
	return func(context.Context) error {
		ok, err := afero.DirExists(fs, dir)
		if err != nil || !ok {
			return err
		}
		empty, err := afero.IsEmpty(fs, dir)
		if err != nil {
			return err
		}
		if !empty {
			return fmt.Errorf("%s is not empty", dir)
		}
		return nil
	}
}

// DirWritable passes when files can be created in dir. A directory that does
// not exist yet is judged by its nearest existing ancestor. Nothing is
// written, so a dry run gets the same answer as a real one.
func DirWritable(fs afero.Fs, dir string) Check {
	return func(context.Context) error {
		target, err := nearestDir(fs, dir)
		if err != nil {
			return err
		}
		if err := writable(fs, target); err != nil {
			return fmt.Errorf("%s is not writable: %w", target, err)
		}
		return nil
	}
}

var errReadOnly = errors.New("read-only filesystem")

// modeWritable answers for filesystems without owners, such as the
// in-memory one, from the owner write bit.
func modeWritable(fs afero.Fs, dir string) error {
	if _, ok := fs.(*afero.ReadOnlyFs); ok {
		return errReadOnly
	}
	info, err := fs.Stat(dir)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0o200 == 0 {
		return os.ErrPermission
	}
	return nil
}

func nearestDir(fs afero.Fs, dir string) (string, error) {
	target := filepath.Clean(dir)
	for {
		ok, err := afero.DirExists(fs, target)
		if err != nil {
			return "", err
		}
		if ok {
			return target, nil
		}
		parent := filepath.Dir(target)
		if parent == target {
			return "", fmt.Errorf("no existing parent for %s", dir)
		}
		target = parent
	}
}

// EnvSet passes when the environment variable is set and non-empty.
func EnvSet(name string) Check {
	return func(context.Context) error {
		if os.Getenv(name) == "" {
			return fmt.Errorf("environment variable %s is not set", name)
		}
		return nil
	}
}

// Predicate adapts a boolean function. message is reported when fn is false.
func Predicate(fn func() bool, message string) Check {
	return func(context.Context) error {
		if !fn() {
			return errors.New(message)
		}
		return nil
	}
}

// Fail always fails with message. Useful for conditions decided before
// evaluation, such as a missing plugin dependency.
func Fail(message string) Check {
	return func(context.Context) error {
		return errors.New(message)
	}
}
