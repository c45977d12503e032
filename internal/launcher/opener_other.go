//go:build !darwin

package launcher

const supportsAppHint = false

// openCommand builds `xdg-open target`. xdg-open has no way to pick an
// application, so app is unused.
func openCommand(target, _ string) (string, []string) {
	return "xdg-open", []string{target}
}
