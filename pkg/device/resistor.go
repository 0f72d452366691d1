package device

import (
	"fmt"

	"github.com/edp1096/toy-tonestack/pkg/matrix"
)

type Resistor struct {
	BaseDevice
}

func NewResistor(name string, nodeNames []string, value float64) *Resistor {
	return &Resistor{BaseDevice: newBaseDevice(name, nodeNames, value)}
}

func (r *Resistor) GetType() string { return "R" }

func (r *Resistor) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(r.Nodes) != 2 {
		return fmt.Errorf("resistor %s: requires exactly 2 nodes", r.Name)
	}
	if r.Value <= 0 {
		return fmt.Errorf("resistor %s: resistance must be positive", r.Name)
	}

	g := 1.0 / r.Value // Conductance. G = 1/R
	stampAdmittance(matrix, r.Nodes[0], r.Nodes[1], g, 0)
	return nil
}
