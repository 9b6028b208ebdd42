package resolver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yii2-navigation/yii2-ls/internal/logger"
)

// Status is the installation state reported while resolving a runtime.
type Status int

const (
	Idle Status = iota
	CheckingForUpdate
	Downloading
	Failed
	Ready
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case CheckingForUpdate:
		return "checking-for-update"
	case Downloading:
		return "downloading"
	case Failed:
		return "failed"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Reporter receives installation status changes. Reports are fire-and-forget.
type Reporter interface {
	ReportStatus(id string, s Status)
}

// ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(id string, s Status)

// ReportStatus calls f(id, s).
func (f ReporterFunc) ReportStatus(id string, s Status) { f(id, s) }

// NopReporter discards status reports.
type NopReporter struct{}

func (NopReporter) ReportStatus(string, Status) {}

// LogReporter writes status reports to a logger at info level.
type LogReporter struct {
	Log *logger.Logger
}

func (r LogReporter) ReportStatus(id string, s Status) {
	r.Log.Info("language server installation status",
		zap.String("server", id),
		zap.Stringer("status", s),
	)
}
