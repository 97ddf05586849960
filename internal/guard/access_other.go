//go:build !unix

package guard

import "github.com/spf13/afero"

func writable(fs afero.Fs, dir string) error {
	return modeWritable(fs, dir)
}
