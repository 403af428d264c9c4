package executor

import (
	"time"

	"github.com/aryankumar/swarmwatch/internal/util"
)

// CountSuccessful returns the number of successful results (no error)
func CountSuccessful[T any](results []Result[T]) int {
	count := 0
	for _, r := range results {
		if r.Error == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed results (has error)
func CountFailed[T any](results []Result[T]) int {
	return len(results) - CountSuccessful(results)
}

// FilterSuccessful returns only the successful results
func FilterSuccessful[T any](results []Result[T]) []Result[T] {
	filtered := make([]Result[T], 0, len(results))
	for _, r := range results {
		if r.Error == nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterFailed returns only the failed results
func FilterFailed[T any](results []Result[T]) []Result[T] {
	filtered := make([]Result[T], 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Errors combines the failures into one error, each tagged with its endpoint.
// Returns nil when every task succeeded.
func Errors[T any](results []Result[T]) error {
	merr := util.NewMultiError(nil)
	for _, r := range results {
		if r.Error != nil {
			merr.Add(util.WrapEndpointError(r.Endpoint, r.Error))
		}
	}
	return merr.ErrorOrNil()
}

// MaxDuration returns the slowest task duration
func MaxDuration[T any](results []Result[T]) time.Duration {
	var longest time.Duration
	for _, r := range results {
		if r.Duration > longest {
			longest = r.Duration
		}
	}
	return longest
}
