package util

import (
	"fmt"
	"math/rand"
)

var aliasNames = []string{
	"Heron",
	"Lynx",
	"Otter",
	"Wren",
	"Marten",
	"Plover",
}

// GenerateAlias names an anonymous reporter. The alias is stored with the
// post so the same report keeps the same alias across reads.
func GenerateAlias() string {
	return fmt.Sprintf("Anonymous %v", aliasNames[rand.Intn(len(aliasNames))])
}
