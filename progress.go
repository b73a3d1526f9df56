package main

import (
	"fmt"
	"path/filepath"
	"sync"

	progressbar "github.com/schollz/progressbar/v3"
)

// overallProgress tracks run completion a task at a time and renders
// per-file transfer percentages into the bar description.
type overallProgress struct {
	bar  *progressbar.ProgressBar
	lock *sync.Mutex
}

func newOverallProgress(totalTasks int) *overallProgress {
	bar := progressbar.NewOptions(totalTasks,
		progressbar.OptionSetDescription("Progress"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
	)
	return &overallProgress{bar: bar, lock: new(sync.Mutex)}
}

// TaskDone advances the overall bar by one resolved task, regardless
// of which worker finished it.
func (p *overallProgress) TaskDone() {
	p.lock.Lock()
	defer p.lock.Unlock()
	_ = p.bar.Add(1)
}

// TaskProgress returns a per-file byte callback for one task.
func (p *overallProgress) TaskProgress(task UploadTask) ProgressFunc {
	var seenSoFar int64
	var fileLock sync.Mutex
	filename := filepath.Base(task.LocalPath)

	return func(bytesTransferred int64) {
		fileLock.Lock()
		defer fileLock.Unlock()
		seenSoFar += bytesTransferred
		if task.Size <= 0 {
			return
		}
		percent := float64(seenSoFar) / float64(task.Size) * 100

		p.lock.Lock()
		p.bar.Describe(fmt.Sprintf("Progress || %s [%.0f%%]", filename, percent))
		p.lock.Unlock()
	}
}

func (p *overallProgress) Finish() {
	p.lock.Lock()
	defer p.lock.Unlock()
	_ = p.bar.Finish()
}
