//go:build !linux

package organize

import "os"

func preserveTimes(dst string, info os.FileInfo) error {
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
