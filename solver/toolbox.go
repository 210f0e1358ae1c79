package solver

import (
	"math/rand"

	"lightbake/bpcd"
	"lightbake/config"
	"lightbake/texture"
)

// Toolbox is the per-worker context every baking task receives: an
// independent RNG plus shared read-only references to the grid and
// texture registry, both frozen by the time Begin is called.
type Toolbox struct {
	RNG      *rand.Rand
	Grid     *bpcd.Grid
	Registry *texture.Registry
	Cfg      config.Config
}
