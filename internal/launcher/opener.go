package launcher

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

// Opener hands resolved items to the operating system.
type Opener interface {
	OpenURL(ctx context.Context, u *url.URL) error
	OpenPath(ctx context.Context, path, app string) error
}

// SystemOpener runs the platform's "open" command.
type SystemOpener struct {
	logger logger.Logger
	// run is swapped in tests.
	run func(ctx context.Context, name string, args ...string) error
}

// NewSystemOpener creates an opener backed by os/exec.
func NewSystemOpener(log logger.Logger) *SystemOpener {
	if log == nil {
		log = logger.NewNop()
	}
	return &SystemOpener{logger: log, run: runCommand}
}

func (o *SystemOpener) OpenURL(ctx context.Context, u *url.URL) error {
	name, args := openCommand(u.String(), "")
	return o.exec(ctx, name, args)
}

func (o *SystemOpener) OpenPath(ctx context.Context, path, app string) error {
	if app != "" && !supportsAppHint {
		o.logger.Debug("application hint ignored on this platform",
			logger.String("app", app),
			logger.String("path", path))
		app = ""
	}
	name, args := openCommand(path, app)
	return o.exec(ctx, name, args)
}

func (o *SystemOpener) exec(ctx context.Context, name string, args []string) error {
	o.logger.Debug("running open command",
		logger.String("cmd", name),
		logger.Strings("args", args))
	if err := o.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
