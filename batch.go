package bp2html

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent renders; PDF output shares one browser.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for the browser during PDF output.
	cpuDivisor = 2
)

// Job is one file to render. Input and Output follow RenderFile.
type Job struct {
	Input  string
	Output string
}

// JobResult holds the outcome of one Job.
type JobResult struct {
	Job      Job
	Warnings *Warnings
	Err      error
	Duration time.Duration
}

// RenderFiles renders jobs concurrently with at most workers goroutines
// (see ResolvePoolSize). Results are in job order. Jobs not started when
// ctx is done fail with ctx.Err().
func (r *Renderer) RenderFiles(ctx context.Context, jobs []Job, opts Options, workers int) []JobResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(ResolvePoolSize(workers), len(jobs))

	results := make([]JobResult, len(jobs))
	queue := make(chan int, len(jobs))
	var wg sync.WaitGroup

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = JobResult{Job: jobs[idx], Err: err}
					continue
				}
				results[idx] = r.renderJob(ctx, jobs[idx], opts)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

func (r *Renderer) renderJob(ctx context.Context, job Job, opts Options) JobResult {
	start := time.Now()
	warnings, err := r.RenderFile(ctx, job.Input, job.Output, opts)
	if err != nil {
		r.logger.Error("render failed", "input", job.Input, "error", err)
	}
	return JobResult{
		Job:      job,
		Warnings: warnings,
		Err:      err,
		Duration: time.Since(start),
	}
}

// ResolvePoolSize determines the number of batch workers.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
