package llm

import "errors"

var (
	// ErrEmptyResponse means the completion returned no content at all.
	ErrEmptyResponse = errors.New("empty response from LLM")

	// ErrMalformedJSON means the content did not parse as JSON after fence
	// stripping.
	ErrMalformedJSON = errors.New("malformed JSON in LLM response")
)
