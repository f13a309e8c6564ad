package github

import "fmt"

// FetchError identifies which repository (and PR, when applicable) a
// remote call failed for, so one failure only skips that unit of work.
type FetchError struct {
	Repo   string
	Number int
	Op     string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Number > 0 {
		return fmt.Sprintf("%s for %s#%d: %v", e.Op, e.Repo, e.Number, e.Err)
	}
	return fmt.Sprintf("%s for %s: %v", e.Op, e.Repo, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
