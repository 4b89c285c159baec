package analysis

import (
	"fmt"
	"strings"

	ee "github.com/nao1215/terrareport/internal/earthengine"
	"github.com/nao1215/terrareport/internal/model"
)

// Boundary returns the country geometry for r.
//
// geoBoundaries holds one feature per country, so its first match is used.
// LSIB and GAUL split countries into several features which are unioned.
func Boundary(r model.Region) (ee.Geometry, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return ee.Geometry{}, ErrNoRegion
	}
	switch r.Boundaries {
	case model.BoundaryGeoBoundaries:
		return ee.LoadTable(geoBoundariesTable).Filter(ee.Equals(geoBoundariesKey, name)).First(), nil
	case model.BoundaryLSIB, "":
		return ee.LoadTable(lsibTable).Filter(ee.Equals(lsibKey, name)).Geometry(), nil
	case model.BoundaryGAUL:
		return ee.LoadTable(gaulTable).Filter(ee.Equals(gaulKey, name)).Geometry(), nil
	default:
		return ee.Geometry{}, fmt.Errorf("%w: %q", model.ErrUnknownBoundarySource, r.Boundaries)
	}
}
