// Package config carries the canonical tuning files into the binary.
package config

import _ "embed"

// DefaultsJSON is tuning.defaults.json as shipped.
//
//go:embed tuning.defaults.json
var DefaultsJSON []byte
