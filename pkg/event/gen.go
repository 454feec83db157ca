//go:build generate
// +build generate

package event

import (
	// Import to force a dependency
	_ "golang.org/x/tools/cmd/stringer"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Typ -output=typ_string.go
