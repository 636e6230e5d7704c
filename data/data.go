// Package data embeds the default dictionary used when no data path is
// configured. Segment files are applied in numeric order: phrases first,
// single characters last.
package data

import "embed"

//go:embed words_* surnames
var FS embed.FS
