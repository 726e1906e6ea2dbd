package worker

import (
	"context"
	"sort"

	"github.com/knowlyr/datacheck/internal/model"
)

// FileChecker checks one collection file
type FileChecker interface {
	CheckFile(ctx context.Context, path string) (*model.CheckResult, error)
}

// CheckJob is one file's check run
type CheckJob struct {
	Path    string
	Checker FileChecker
}

// Execute runs the check for the job's file
func (j *CheckJob) Execute(ctx context.Context) Result {
	result, err := j.Checker.CheckFile(ctx, j.Path)
	return &CheckOutcome{
		Path:   j.Path,
		Result: result,
		Err:    err,
	}
}

// CheckOutcome is one file's verdict; Err set means the file could not be
// loaded or parsed and Result is nil
type CheckOutcome struct {
	Path   string
	Result *model.CheckResult
	Err    error
}

// GetError returns the outcome's error
func (o *CheckOutcome) GetError() error {
	return o.Err
}

// BatchProcessor checks multiple files concurrently
type BatchProcessor struct {
	checker     FileChecker
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(checker FileChecker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessFiles checks every file through the pool. Outcomes are returned
// sorted by path; pool scheduling order is not observable in the output.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*CheckOutcome {
	if len(paths) == 0 {
		return []*CheckOutcome{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&CheckJob{Path: path, Checker: b.checker})
	}

	results := pool.Wait()

	outcomes := make([]*CheckOutcome, 0, len(results))
	for _, result := range results {
		outcomes = append(outcomes, result.(*CheckOutcome))
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Path < outcomes[j].Path })

	return outcomes
}

// Summarize folds per-file outcomes into the directory-level result. Files
// that failed to load are listed as skipped, not counted as failing.
func Summarize(dir string, outcomes []*CheckOutcome, failUnder float64) *model.BatchResult {
	batch := &model.BatchResult{
		Directory:   dir,
		FileResults: make(map[string]*model.CheckResult),
	}

	for _, o := range outcomes {
		if o.Err != nil {
			batch.SkippedFiles = append(batch.SkippedFiles, o.Path)
			continue
		}
		batch.FileResults[o.Path] = o.Result
		batch.TotalFiles++
		batch.TotalSamples += o.Result.Total
		batch.PassedSamples += o.Result.Passed
		batch.FailedSamples += o.Result.Failed
		batch.ErrorCount += o.Result.ErrorCount
		batch.WarningCount += o.Result.WarningCount
		batch.InfoCount += o.Result.InfoCount
		if o.Result.PassRate >= failUnder {
			batch.PassedFiles++
		} else {
			batch.FailedFiles++
		}
	}

	if batch.TotalSamples > 0 {
		batch.PassRate = float64(batch.PassedSamples) / float64(batch.TotalSamples)
	} else {
		batch.PassRate = 1.0
	}

	return batch
}
