package device

import (
	"fmt"

	"github.com/edp1096/toy-tonestack/internal/consts"
	"github.com/edp1096/toy-tonestack/pkg/matrix"
)

type Capacitor struct {
	BaseDevice
}

func NewCapacitor(name string, nodeNames []string, value float64) *Capacitor {
	return &Capacitor{BaseDevice: newBaseDevice(name, nodeNames, value)}
}

func (c *Capacitor) GetType() string { return "C" }

func (c *Capacitor) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(c.Nodes) != 2 {
		return fmt.Errorf("capacitor %s: requires exactly 2 nodes", c.Name)
	}

	omega := consts.TWO_PI * status.Frequency
	stampAdmittance(matrix, c.Nodes[0], c.Nodes[1], 0, omega*c.Value) // jωC
	return nil
}
