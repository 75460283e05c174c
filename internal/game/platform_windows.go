//go:build windows

package game

import "os/exec"

// openURL launches the platform browser for a URL.
func openURL(url string) error {
	return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
}
