package auth

import (
	"log/slog"
	"os/exec"
	"runtime"
)

// openBrowser opens the URL in the user's default browser. Failure is
// non-fatal; the URL is also logged so the user can open it by hand.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		slog.Warn("could not open browser, open the URL manually", "error", err)
	}
}
