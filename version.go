package bbsdemo

import _ "embed"

// Version is the release of the bbsdemo client.
//
//go:embed VERSION
var Version string
