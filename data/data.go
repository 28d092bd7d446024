package data

import "embed"

// Templates holds the markdown templates rendered for the job summary and
// the pull request comment.
//
//go:embed templates
var Templates embed.FS
