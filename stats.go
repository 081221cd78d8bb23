package glimmer

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// FrameSample records one simulation frame for offline analysis.
type FrameSample struct {
	Frame     int   `csv:"frame"`
	Particles int   `csv:"particles"`
	StepMicro int64 `csv:"step_us"`
}

// FrameStats summarises a recorded run.
type FrameStats struct {
	Frames        int
	MeanParticles float64
	MeanStepMicro float64
	StdStepMicro  float64
}

// Recorder captures per-frame samples from an animator loop. Wrap the
// Step call with Start/Observe:
//
//	rec.Start()
//	sand.Step()
//	rec.Observe(sand.Count())
//
// Samples accumulate in memory; export them with WriteCSV.
type Recorder struct {
	samples []FrameSample
	started time.Time
}

// Start marks the beginning of a frame.
func (r *Recorder) Start() {
	r.started = time.Now()
}

// Observe closes the frame opened by Start, recording the elapsed time
// and the given particle (or cell) count.
func (r *Recorder) Observe(particles int) {
	r.samples = append(r.samples, FrameSample{
		Frame:     len(r.samples),
		Particles: particles,
		StepMicro: time.Since(r.started).Microseconds(),
	})
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int { return len(r.samples) }

// Stats aggregates the recorded samples.
func (r *Recorder) Stats() FrameStats {
	n := len(r.samples)
	if n == 0 {
		return FrameStats{}
	}
	particles := make([]float64, n)
	micros := make([]float64, n)
	for i, s := range r.samples {
		particles[i] = float64(s.Particles)
		micros[i] = float64(s.StepMicro)
	}
	return FrameStats{
		Frames:        n,
		MeanParticles: stat.Mean(particles, nil),
		MeanStepMicro: stat.Mean(micros, nil),
		StdStepMicro:  stat.StdDev(micros, nil),
	}
}

// WriteCSV writes all recorded samples as CSV with a header row.
func (r *Recorder) WriteCSV(w io.Writer) error {
	if err := gocsv.Marshal(r.samples, w); err != nil {
		return fmt.Errorf("writing frame samples: %w", err)
	}
	return nil
}
