package utils

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// OpenBrowser opens url in the user's default browser and falls back to
// asking the user to open it manually.
func OpenBrowser(out io.Writer, url string) {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	if err := browser.OpenURL(url); err != nil {
		fmt.Fprintln(out, "Failed to open browser. Please open the following URL manually:", url)
	}
}
