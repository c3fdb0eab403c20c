package domain

import "errors"

// Sentinel errors for the conversion engine. Callers match them with
// errors.Is; the wrapped message carries the offending detail (field path,
// requested pair, expected vs observed format).
var (
	// ErrFormatUndetected indicates the source format could not be inferred
	// from the document shape or file extension.
	ErrFormatUndetected = errors.New("source format could not be detected")

	// ErrTargetFormatRequired indicates no target format was supplied and
	// none could be derived.
	ErrTargetFormatRequired = errors.New("target format is required")

	// ErrUnsupportedConversion indicates no converter is registered for the
	// requested (source, target) pair.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrMalformedInput indicates the source document does not match the
	// minimal shape its declared format requires.
	ErrMalformedInput = errors.New("malformed input document")

	// ErrSchemaNotFound indicates a named schema is not present in the
	// schema registry.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrOutputValidationFailed indicates the converted document failed
	// validation against the target format schema under strict mode.
	ErrOutputValidationFailed = errors.New("output validation failed")
)
