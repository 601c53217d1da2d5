package measure

import "time"

type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

type Metric interface {
	AddDuration(elapsed time.Duration)
	AVGDuration() time.Duration
	Runs() int64
	Failed() bool
	SetFailed()
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
