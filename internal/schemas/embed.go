package schemas

import "embed"

// Files holds the bundled JSON Schema documents, one per supported format.
//
//go:embed files/*.json
var Files embed.FS
