package device

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-tonestack/pkg/matrix"
)

// VoltageSource is an ideal source. Only its AC phasor is stamped; the DC
// value is kept for reporting.
type VoltageSource struct {
	BaseDevice
	dcValue float64
	acMag   float64
	acPhase float64 // degrees
	// Branch index for MNA
	branchIdx int
}

func NewACVoltageSource(name string, nodeNames []string, dc, acMag, acPhase float64) *VoltageSource {
	return &VoltageSource{
		BaseDevice: newBaseDevice(name, nodeNames, acMag),
		dcValue:    dc,
		acMag:      acMag,
		acPhase:    acPhase,
	}
}

func (v *VoltageSource) GetType() string { return "V" }

func (v *VoltageSource) SetBranchIndex(idx int) { v.branchIdx = idx }

func (v *VoltageSource) BranchIndex() int { return v.branchIdx }

func (v *VoltageSource) DCValue() float64 { return v.dcValue }

func (v *VoltageSource) ACMagnitude() float64 { return v.acMag }

func (v *VoltageSource) ACPhase() float64 { return v.acPhase }

func (v *VoltageSource) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(v.Nodes) != 2 {
		return fmt.Errorf("voltage source %s: requires exactly 2 nodes", v.Name)
	}
	if v.branchIdx <= 0 {
		return fmt.Errorf("voltage source %s: branch index not assigned", v.Name)
	}

	n1, n2 := v.Nodes[0], v.Nodes[1]
	bIdx := v.branchIdx

	// v1 - v2 = V
	if n1 != 0 {
		matrix.AddComplexElement(bIdx, n1, 1, 0)
		matrix.AddComplexElement(n1, bIdx, 1, 0)
	}
	if n2 != 0 {
		matrix.AddComplexElement(bIdx, n2, -1, 0)
		matrix.AddComplexElement(n2, bIdx, -1, 0)
	}

	phaseRad := v.acPhase * math.Pi / 180.0
	matrix.AddComplexRHS(bIdx, v.acMag*math.Cos(phaseRad), v.acMag*math.Sin(phaseRad))
	return nil
}
