package build

import "time"

// Status is the outcome of a build.
type Status string

const (
	// StatusSuccess means every page rendered.
	StatusSuccess Status = "success"
	// StatusWarning means the build finished but some pages rendered an error
	// block or link to missing targets.
	StatusWarning Status = "warning"
	// StatusFailed means the build stopped before finishing.
	StatusFailed Status = "failed"
	// StatusCanceled means the context ended the build.
	StatusCanceled Status = "canceled"
)

// IsTerminal returns true if the status represents a final state.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusWarning || s == StatusFailed || s == StatusCanceled
}

// IsSuccess reports whether the output directory holds a complete site.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess || s == StatusWarning
}

// Report summarizes one build.
type Report struct {
	ID        string `json:"id"`
	Status    Status `json:"status"`
	Theme     string `json:"theme"`
	OutputDir string `json:"output_dir"`

	Pages           int `json:"pages"`
	StaticTemplates int `json:"static_templates"`
	// Failures counts pages and static templates rendered as error blocks.
	Failures      int `json:"failures"`
	Warnings      int `json:"warnings"`
	Assets        int `json:"assets"`
	SearchEntries int `json:"search_entries"`
	Workers       int `json:"workers"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

func (r *Report) finish(status Status) {
	r.Status = status
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}
