// Package launcher opens every item of a link group through the OS.
package launcher

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

// UsageRecorder is told about every group launch.
type UsageRecorder interface {
	RecordLaunch(ctx context.Context, groupID string, at time.Time) error
}

// Result is the outcome of one item.
type Result struct {
	Item string          `json:"item"`
	Kind domain.ItemKind `json:"kind"`
	Err  error           `json:"-"`
}

// Report collects the per-item results of one group launch, in item order.
type Report struct {
	GroupID string   `json:"groupId"`
	Results []Result `json:"results"`
}

// Failed counts the items that could not be opened.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Launcher dispatches items to an Opener.
type Launcher struct {
	opener Opener
	usage  UsageRecorder
	logger logger.Logger
	now    func() time.Time
}

// New creates a launcher. usage may be nil.
func New(opener Opener, usage UsageRecorder, log logger.Logger) *Launcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Launcher{
		opener: opener,
		usage:  usage,
		logger: log,
		now:    time.Now,
	}
}

// LaunchGroup opens the items of g in order. A failing item is recorded
// and the remaining items are still opened.
func (l *Launcher) LaunchGroup(ctx context.Context, g domain.LinkGroup) Report {
	report := Report{GroupID: g.ID, Results: make([]Result, 0, len(g.Items))}

	for _, item := range g.Items {
		res := Result{Item: item, Kind: domain.ClassifyItem(item)}
		if err := ctx.Err(); err != nil {
			res.Err = err
		} else {
			res.Err = l.open(ctx, item, g.OpenWith)
		}

		if res.Err != nil {
			l.logger.Warn("failed to open item",
				logger.String("group", g.ID),
				logger.String("item", item),
				logger.String("kind", string(res.Kind)),
				logger.Error(res.Err))
		}
		report.Results = append(report.Results, res)
	}

	l.logger.Info("group launched",
		logger.String("group", g.ID),
		logger.Int("items", len(g.Items)),
		logger.Int("failed", report.Failed()))

	if l.usage != nil {
		if err := l.usage.RecordLaunch(ctx, g.ID, l.now()); err != nil {
			l.logger.Warn("failed to record launch",
				logger.String("group", g.ID),
				logger.Error(err))
		}
	}
	return report
}

func (l *Launcher) open(ctx context.Context, item, app string) error {
	target, err := domain.ResolveItem(item)
	if err != nil {
		return err
	}
	switch target.Kind {
	case domain.KindWeb:
		return l.opener.OpenURL(ctx, target.URL)
	case domain.KindFile, domain.KindPath:
		return l.opener.OpenPath(ctx, target.Path, app)
	default:
		return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidItem, target.Kind)
	}
}
