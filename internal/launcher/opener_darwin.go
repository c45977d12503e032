//go:build darwin

package launcher

const supportsAppHint = true

// openCommand builds `open [-a app] target`.
func openCommand(target, app string) (string, []string) {
	if app != "" {
		return "open", []string{"-a", app, target}
	}
	return "open", []string{target}
}
