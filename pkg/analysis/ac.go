package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/edp1096/toy-tonestack/internal/consts"
	"github.com/edp1096/toy-tonestack/pkg/circuit"
	"github.com/edp1096/toy-tonestack/pkg/device"
	"github.com/edp1096/toy-tonestack/pkg/netlist"
	"github.com/edp1096/toy-tonestack/pkg/transfer"
)

var ErrNoExcitation = errors.New("no voltage source with an AC magnitude")

// ACAnalysis solves the small-signal system one frequency at a time and
// reports V(out) / (V(inPos) - V(inNeg)) as a transfer function.
type ACAnalysis struct {
	Circuit *circuit.Circuit
	out     int
	inPos   int
	inNeg   int
	err     error
}

var _ transfer.Response = (*ACAnalysis)(nil)

// NewAC measures out against the ground-referred voltage at node in.
func NewAC(ckt *circuit.Circuit, in, out string) (*ACAnalysis, error) {
	inIdx, ok := ckt.NodeIndex(in)
	if !ok || inIdx == 0 {
		return nil, fmt.Errorf("input node %q not found", in)
	}
	return newAC(ckt, inIdx, 0, out)
}

// NewACFromSource measures out against the voltage across a source.
func NewACFromSource(ckt *circuit.Circuit, source, out string) (*ACAnalysis, error) {
	v, ok := ckt.Source(source)
	if !ok {
		return nil, fmt.Errorf("input source %q not found", source)
	}
	nodes := v.GetNodes()
	return newAC(ckt, nodes[0], nodes[1], out)
}

// FromNetlist builds the analysis named by the netlist's .tf card.
func FromNetlist(ckt *circuit.Circuit, data *netlist.NetlistData) (*ACAnalysis, error) {
	if data.TFParam.Output == "" {
		return nil, fmt.Errorf("netlist %q has no .tf card", data.Title)
	}
	return NewACFromSource(ckt, data.TFParam.Input, data.TFParam.Output)
}

func newAC(ckt *circuit.Circuit, inPos, inNeg int, out string) (*ACAnalysis, error) {
	outIdx, ok := ckt.NodeIndex(out)
	if !ok || outIdx == 0 {
		return nil, fmt.Errorf("output node %q not found", out)
	}

	excited := false
	for _, dev := range ckt.GetDevices() {
		if v, ok := dev.(*device.VoltageSource); ok && v.ACMagnitude() != 0 {
			excited = true
		}
	}
	if !excited {
		return nil, ErrNoExcitation
	}

	return &ACAnalysis{Circuit: ckt, out: outIdx, inPos: inPos, inNeg: inNeg}, nil
}

func (ac *ACAnalysis) solveAt(freq float64) error {
	ac.Circuit.Status = &device.CircuitStatus{Frequency: freq}

	mat := ac.Circuit.GetMatrix()
	mat.Clear()
	err := ac.Circuit.Stamp(ac.Circuit.Status)
	if err != nil {
		return fmt.Errorf("stamping error at f=%g: %w", freq, err)
	}

	err = mat.Solve()
	if err != nil {
		return fmt.Errorf("matrix solve error at f=%g: %w", freq, err)
	}
	return nil
}

// Solve returns every node voltage V(name) and source current I(name) at freq.
func (ac *ACAnalysis) Solve(freq float64) (map[string]complex128, error) {
	if err := ac.solveAt(freq); err != nil {
		return nil, err
	}

	solution := make(map[string]complex128)

	// Node voltage
	for name, nodeIdx := range ac.Circuit.GetNodeMap() {
		solution[fmt.Sprintf("V(%s)", name)] = ac.Circuit.GetNodeVoltage(nodeIdx)
	}

	// Branch current
	mat := ac.Circuit.GetMatrix()
	for _, dev := range ac.Circuit.GetDevices() {
		if v, ok := dev.(*device.VoltageSource); ok {
			real, imag := mat.GetComplexSolution(v.BranchIndex())
			solution[fmt.Sprintf("I(%s)", dev.GetName())] = complex(real, imag)
		}
	}

	return solution, nil
}

// At solves at omega. A failed solve yields NaN and is kept for Err.
func (ac *ACAnalysis) At(omega float64) (transfer.Complex, transfer.Complex) {
	if err := ac.solveAt(omega / consts.TWO_PI); err != nil {
		if ac.err == nil {
			ac.err = err
		}
		return transfer.Complex{Re: math.NaN(), Im: math.NaN()}, transfer.Complex{Re: 1}
	}

	out := ac.Circuit.GetNodeVoltage(ac.out)
	in := ac.Circuit.GetNodeVoltage(ac.inPos) - ac.Circuit.GetNodeVoltage(ac.inNeg)
	return transfer.FromComplex128(out), transfer.FromComplex128(in)
}

// Err returns the first solve failure since the last Reset.
func (ac *ACAnalysis) Err() error {
	return ac.err
}

func (ac *ACAnalysis) Reset() {
	ac.err = nil
}
