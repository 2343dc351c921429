//go:build tinygo || !cgo

package glplaneaux

import (
	"errors"

	"github.com/soypat/glplane"
)

func ui(m *glplane.Mesh, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}

func uiPoints(cloud *glplane.PointCloud, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
