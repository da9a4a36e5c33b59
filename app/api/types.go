package api

import (
	"context"

	"github.com/glaido/newshub/app/scheduler"
	"github.com/glaido/newshub/app/store"
)

type SchedulerInterface interface {
	RunCycle(ctx context.Context, source string) (scheduler.CycleResult, error)
}

var _ SchedulerInterface = (*scheduler.Scheduler)(nil)

// SourceInfo describes one registered scrape origin, used for status
// summaries and for reporting never-run sources.
type SourceInfo struct {
	Key     string
	Display string
}

type Handler struct {
	store     store.Store
	scheduler SchedulerInterface
	sources   []SourceInfo
	version   string
}
