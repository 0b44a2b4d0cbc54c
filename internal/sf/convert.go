package sf

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
	"github.com/kartoza/kartoza-sfgeo/internal/metrics"
)

// Policy decides what BuildVector does with an element that fails to decode
type Policy int

const (
	// PolicyAbsent replaces a failing element with an absent geometry and
	// records the failure in the report
	PolicyAbsent Policy = iota
	// PolicyAbort fails the whole conversion with the lowest-index failure
	PolicyAbort
)

func (p Policy) String() string {
	if p == PolicyAbort {
		return "abort"
	}
	return "absent"
}

// ParsePolicy parses "absent" or "abort"
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "absent":
		return PolicyAbsent, nil
	case "abort":
		return PolicyAbort, nil
	default:
		return PolicyAbsent, fmt.Errorf("unknown failure policy %q (want absent or abort)", s)
	}
}

// BuildOptions configures BuildVector
type BuildOptions struct {
	Policy  Policy
	Workers int
	Logger  *slog.Logger
}

// DefaultBuildOptions returns the absent policy with four workers
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Policy: PolicyAbsent, Workers: 4}
}

// Report describes what happened to each element of a vector conversion
type Report struct {
	Total       int
	Absent      []int   // positions of null input nodes
	Unsupported []int   // positions whose tag is outside the supported kinds
	Failures    []error // structural failures, in index order
}

// Failed reports whether any element failed to decode
func (r *Report) Failed() bool {
	return r != nil && len(r.Failures) > 0
}

// Err joins every recorded failure, nil when there were none
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.Failures...)
}

func (r *Report) String() string {
	return fmt.Sprintf("%d elements, %d absent, %d unsupported, %d failed",
		r.Total, len(r.Absent), len(r.Unsupported), len(r.Failures))
}

// BuildVector decodes every node into a geometry vector. Element i of the
// result depends only on nodes[i], so elements are converted concurrently
// with at most opts.Workers goroutines.
func BuildVector(nodes []*Node, opts BuildOptions) (*Vector, *Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	geoms := make([]geometry.Geometry, len(nodes))
	errs := make([]error, len(nodes))

	var g errgroup.Group
	g.SetLimit(max(opts.Workers, 1))
	for i, n := range nodes {
		g.Go(func() error {
			geoms[i], errs[i] = build(n)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{Total: len(nodes)}
	handles := make([]*Handle, len(nodes))
	for i, err := range errs {
		var unsupported *UnsupportedKindError
		switch {
		case nodes[i] == nil:
			report.Absent = append(report.Absent, i)
			metrics.AbsentTotal.WithLabelValues("decode").Inc()
		case errors.As(err, &unsupported):
			report.Unsupported = append(report.Unsupported, i)
			metrics.AbsentTotal.WithLabelValues("decode").Inc()
			logger.Debug("unsupported geometry kind", "index", i, "class", nodes[i].Class())
		case err != nil:
			err = withIndex(err, i)
			metrics.FailuresTotal.WithLabelValues(failureReason(err)).Inc()
			if opts.Policy == PolicyAbort {
				return nil, report, err
			}
			report.Failures = append(report.Failures, err)
			logger.Debug("element replaced with absent geometry", "index", i, "error", err)
		default:
			handles[i] = NewHandle(geoms[i])
			metrics.ElementsTotal.WithLabelValues("decode", handles[i].Kind()).Inc()
		}
	}
	metrics.VectorDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())

	v := NewVector(handles)
	logger.Debug("built geometry vector", "class", v.Class()[0], "report", report.String())
	return v, report, nil
}
