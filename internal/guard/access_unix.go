//go:build unix

package guard

import (
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// writable asks the kernel on the OS filesystem, where ownership and
// read-only mounts decide.
func writable(fs afero.Fs, dir string) error {
	if _, ok := fs.(*afero.OsFs); ok {
		return unix.Access(dir, unix.W_OK)
	}
	return modeWritable(fs, dir)
}
