package device

import (
	"fmt"

	"github.com/edp1096/toy-tonestack/internal/consts"
	"github.com/edp1096/toy-tonestack/pkg/matrix"
)

type Inductor struct {
	BaseDevice
}

func NewInductor(name string, nodeNames []string, value float64) *Inductor {
	return &Inductor{BaseDevice: newBaseDevice(name, nodeNames, value)}
}

func (l *Inductor) GetType() string { return "L" }

func (l *Inductor) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(l.Nodes) != 2 {
		return fmt.Errorf("inductor %s: requires exactly 2 nodes", l.Name)
	}

	omega := consts.TWO_PI * status.Frequency
	if omega*l.Value == 0 {
		return fmt.Errorf("inductor %s: no admittance at f=%g", l.Name, status.Frequency)
	}

	// Y = 1/(jωL) = -j/(ωL)
	stampAdmittance(matrix, l.Nodes[0], l.Nodes[1], 0, -1/(omega*l.Value))
	return nil
}
