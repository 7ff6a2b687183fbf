package llm

import "time"

// Timed runs fn and reports its wall-clock duration to record, whether it
// succeeded or not. The result and error of fn are returned unchanged.
func Timed[T any](fn func() (T, error), record func(elapsed time.Duration, err error)) (T, error) {
	start := time.Now()
	result, err := fn()
	if record != nil {
		record(time.Since(start), err)
	}
	return result, err
}
