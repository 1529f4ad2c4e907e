// Package fixtures holds the documents every benchmark case reads.
package fixtures

import "embed"

// FS contains small.json and large.json.
//
//go:embed *.json
var FS embed.FS
