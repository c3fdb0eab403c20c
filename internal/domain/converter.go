package domain

import "io"

// Converter transforms a document from its source format into a new
// document in its target format. Implementations are pure: they never touch
// the filesystem or network and never mutate the input document.
type Converter interface {
	// Source returns the format this converter consumes.
	Source() Format

	// Target returns the format this converter produces.
	Target() Format

	// Convert produces the target document. It fails with ErrMalformedInput
	// when the source document lacks the minimal shape the source format
	// requires.
	Convert(doc Document, opts Options) (Document, error)
}

// Renderer produces a binary rendering (PDF, DOCX) of a document instead of
// another document tree.
type Renderer interface {
	// Source returns the format this renderer consumes.
	Source() Format

	// Target returns the rendering target format.
	Target() Format

	// Render writes the rendered output.
	Render(doc Document, w io.Writer) error
}

// Options carries optional conversion metadata overrides. All fields are
// optional; the zero value means "derive from the source or use a default".
type Options struct {
	// Title overrides info.title in the generated specification.
	Title string
	// Version overrides info.version.
	Version string
	// Description overrides info.description.
	Description string
	// Servers overrides the generated server URL list.
	Servers []string
	// BasePath is appended to the derived server URL when Servers is empty.
	BasePath string
	// SkipAuth drops captured authentication headers (Authorization,
	// Proxy-Authorization, X-Api-Key, Cookie) from parameter mapping.
	SkipAuth bool
	// NoValidate skips validating the converted document against the
	// target format schema.
	NoValidate bool
	// Strict escalates an advisory validation failure to a hard error.
	Strict bool
}

// ValidationResult reports the outcome of validating a document against a
// format schema. Validation failures are data, not errors.
type ValidationResult struct {
	// Valid is true when the document satisfies the schema.
	Valid bool
	// Error holds the first validation failure message when Valid is false.
	Error string
	// Path is a JSON pointer to the offending node, when known.
	Path string
}

// Result is the outcome of one conversion call.
type Result struct {
	// Document is the converted document tree. Nil for rendering targets.
	Document Document
	// Rendered holds the binary output for rendering targets (pdf, docx).
	Rendered []byte
	// Source is the resolved source format.
	Source Format
	// Target is the resolved target format.
	Target Format
	// Validation is set when output validation was performed.
	Validation *ValidationResult
}
