package benchmark

import "time"

// Status is the lifecycle state of a case.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Done reports whether s is terminal.
func (s Status) Done() bool {
	return s == StatusPassed || s == StatusFailed || s == StatusSkipped
}

// Result is the outcome of one case. Timing fields are only populated for
// passed cases; a failed case's samples are discarded.
type Result struct {
	Name    string `json:"name"`
	Adapter string `json:"adapter"`
	Fixture string `json:"fixture"`
	Mode    string `json:"mode"`
	Target  string `json:"target,omitempty"`
	Setup   string `json:"setup"`
	Status  Status `json:"status"`
	// Reason is the skip reason or the failure message.
	Reason string `json:"reason,omitempty"`
	// Err is the failure cause, for errors.As inspection.
	Err error `json:"-"`

	Iterations  int64     `json:"iterations"`
	Samples     []float64 `json:"samples,omitempty"`
	NsPerOp     float64   `json:"ns_per_op"`
	Stats       Stats     `json:"stats"`
	MBPerSec    float64   `json:"mb_per_sec,omitempty"`
	BytesPerOp  int64     `json:"bytes_per_op"`
	AllocsPerOp int64     `json:"allocs_per_op"`
}

// Trusted reports whether the timing data may be used in comparisons.
func (r Result) Trusted() bool {
	return r.Status == StatusPassed && r.Iterations > 0
}

// Group is the comparison key: results with equal groups did equivalent work.
func (r Result) Group() string {
	g := r.Fixture + "/" + r.Mode
	if r.Target != "" {
		g += "/" + r.Target
	}
	return g + "/" + r.Setup
}

// Run is a collection of results from one execution.
type Run struct {
	Timestamp time.Time `json:"timestamp"`
	Commit    string    `json:"commit,omitempty"` // Git commit hash
	GoVersion string    `json:"go_version,omitempty"`
	Platform  string    `json:"platform,omitempty"`
	Results   []Result  `json:"results"`
}
