// Package schemas embeds the JSON Schema documents that describe resume API
// payloads.
package schemas

import "embed"

// Files holds every *.schema.json document in this directory.
//
//go:embed *.schema.json
var Files embed.FS

// Schema file names.
const (
	ResumeRequest = "resume_request.schema.json"
	Responses     = "responses.schema.json"
)
