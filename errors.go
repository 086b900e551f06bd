package main

import "fmt"

// InvalidInputError reports a missing or malformed request field. It is
// returned before any network call is made.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// FetchError reports a content-fetch failure for one URL. Competitor
// fetch errors are surfaced per item and do not abort a run.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ProviderError reports an LLM provider failure. Any provider error
// aborts the whole run; no partial article is returned.
type ProviderError struct {
	Provider Provider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// WorkflowError wraps an unexpected failure with the step it happened in.
type WorkflowError struct {
	Step StepKind
	Err  error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("workflow step %s: %v", e.Step, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}
