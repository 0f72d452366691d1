package circuit

import (
	"fmt"
	"strings"

	"github.com/edp1096/toy-tonestack/pkg/device"
	"github.com/edp1096/toy-tonestack/pkg/matrix"
	"github.com/edp1096/toy-tonestack/pkg/netlist"
)

type Circuit struct {
	name      string
	nodeMap   map[string]int
	branchMap map[string]int
	devices   []device.Device
	numNodes  int
	matrix    *matrix.CircuitMatrix
	Status    *device.CircuitStatus
}

func New(name string) *Circuit {
	return &Circuit{
		name:      name,
		nodeMap:   make(map[string]int),
		branchMap: make(map[string]int),
		devices:   make([]device.Device, 0),
		Status:    &device.CircuitStatus{},
	}
}

// Build runs the whole setup for parsed netlist data.
func Build(data *netlist.NetlistData) (*Circuit, error) {
	ckt := New(data.Title)
	if err := ckt.AssignNodeBranchMaps(data.Elements); err != nil {
		return nil, err
	}
	if err := ckt.CreateMatrix(); err != nil {
		return nil, err
	}
	if err := ckt.SetupDevices(data.Elements); err != nil {
		ckt.Destroy()
		return nil, err
	}
	return ckt, nil
}

func isGround(nodeName string) bool {
	return nodeName == "0" || strings.EqualFold(nodeName, "gnd")
}

func (c *Circuit) AssignNodeBranchMaps(elements []netlist.Element) error {
	hasGround := false
	for _, elem := range elements {
		for _, nodeName := range elem.Nodes {
			if isGround(nodeName) {
				hasGround = true
				continue
			}
			if _, exists := c.nodeMap[nodeName]; !exists {
				idx := len(c.nodeMap) + 1
				c.nodeMap[nodeName] = idx
			}
		}
	}
	if len(elements) > 0 && !hasGround {
		return fmt.Errorf("circuit %s: no ground node", c.name)
	}

	branchStart := len(c.nodeMap) + 1
	for _, elem := range elements {
		if elem.Type == "V" {
			c.branchMap[elem.Name] = branchStart
			branchStart++
		}
	}

	c.numNodes = len(c.nodeMap)
	return nil
}

func (c *Circuit) CreateMatrix() error {
	matrixSize := len(c.nodeMap) + len(c.branchMap)
	mat, err := matrix.NewMatrix(matrixSize)
	if err != nil {
		return fmt.Errorf("circuit %s: %w", c.name, err)
	}
	c.matrix = mat
	return nil
}

func (c *Circuit) SetupDevices(elements []netlist.Element) error {
	for _, elem := range elements {
		dev, err := netlist.CreateDevice(elem)
		if err != nil {
			return fmt.Errorf("creating device %s: %w", elem.Name, err)
		}

		// Node index
		nodeIndices := make([]int, len(elem.Nodes))
		for i, nodeName := range elem.Nodes {
			if isGround(nodeName) {
				nodeIndices[i] = 0
				continue
			}
			nodeIndices[i] = c.nodeMap[nodeName]
		}
		dev.SetNodes(nodeIndices)

		if v, ok := dev.(*device.VoltageSource); ok {
			v.SetBranchIndex(c.branchMap[elem.Name])
		}

		c.devices = append(c.devices, dev)
	}

	// Initial stamp at 1 Hz so that every element exists before factoring
	err := c.Stamp(&device.CircuitStatus{Frequency: 1})
	if err != nil {
		return fmt.Errorf("initial stamping failed: %w", err)
	}
	c.matrix.SetupElements()

	return nil
}

func (c *Circuit) Stamp(status *device.CircuitStatus) error {
	for _, dev := range c.devices {
		err := dev.Stamp(c.matrix, status)
		if err != nil {
			return fmt.Errorf("stamping device %s: %w", dev.GetName(), err)
		}
	}
	return nil
}

func (c *Circuit) GetMatrix() *matrix.CircuitMatrix {
	return c.matrix
}

func (c *Circuit) GetNodeMap() map[string]int {
	return c.nodeMap
}

func (c *Circuit) GetBranchMap() map[string]int {
	return c.branchMap
}

func (c *Circuit) GetDevices() []device.Device {
	return c.devices
}

// NodeIndex resolves a node name. Ground is index 0.
func (c *Circuit) NodeIndex(nodeName string) (int, bool) {
	if isGround(nodeName) {
		return 0, true
	}
	idx, ok := c.nodeMap[nodeName]
	return idx, ok
}

// Source finds a voltage source by name, case-insensitively.
func (c *Circuit) Source(name string) (*device.VoltageSource, bool) {
	for _, dev := range c.devices {
		if v, ok := dev.(*device.VoltageSource); ok && strings.EqualFold(v.GetName(), name) {
			return v, true
		}
	}
	return nil, false
}

// GetNodeVoltage reads the last solution. Ground and unknown nodes are 0.
func (c *Circuit) GetNodeVoltage(nodeIdx int) complex128 {
	if nodeIdx <= 0 || c.matrix == nil {
		return 0
	}
	re, im := c.matrix.GetComplexSolution(nodeIdx)
	return complex(re, im)
}

func (c *Circuit) Destroy() {
	if c.matrix != nil {
		c.matrix.Destroy()
	}
}

func (c *Circuit) Name() string {
	return c.name
}

func (c *Circuit) GetNumNodes() int {
	return c.numNodes
}
