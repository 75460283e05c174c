//go:build !windows

package game

import (
	"os/exec"
	"runtime"
)

// openURL launches the platform browser for a URL.
func openURL(url string) error {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	return exec.Command(opener, url).Start()
}
