package device

import (
	"github.com/edp1096/toy-tonestack/pkg/matrix"
)

type Device interface {
	GetName() string
	GetType() string
	GetNodeNames() []string
	GetNodes() []int
	Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error
	GetValue() float64
	SetNodes(nodes []int)
}

type BaseDevice struct {
	Name      string
	Nodes     []int
	Value     float64
	NodeNames []string
}

// CircuitStatus carries the operating point of one stamp.
type CircuitStatus struct {
	Frequency float64 // AC frequency in Hz
}

func (d *BaseDevice) GetName() string {
	return d.Name
}

func (d *BaseDevice) GetNodes() []int {
	return d.Nodes
}

func (d *BaseDevice) GetNodeNames() []string {
	return d.NodeNames
}

func (d *BaseDevice) GetValue() float64 {
	return d.Value
}

func (d *BaseDevice) SetNodes(nodes []int) {
	d.Nodes = nodes
}

func newBaseDevice(name string, nodeNames []string, value float64) BaseDevice {
	return BaseDevice{
		Name:      name,
		Nodes:     make([]int, len(nodeNames)),
		NodeNames: nodeNames,
		Value:     value,
	}
}

// stampAdmittance adds y = real + j*imag between n1 and n2.
func stampAdmittance(matrix matrix.DeviceMatrix, n1, n2 int, real, imag float64) {
	if n1 != 0 {
		matrix.AddComplexElement(n1, n1, real, imag)
		if n2 != 0 {
			matrix.AddComplexElement(n1, n2, -real, -imag)
		}
	}
	if n2 != 0 {
		if n1 != 0 {
			matrix.AddComplexElement(n2, n1, -real, -imag)
		}
		matrix.AddComplexElement(n2, n2, real, imag)
	}
}
