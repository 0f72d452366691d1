package netlist

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/edp1096/toy-tonestack/pkg/device"
	"github.com/edp1096/toy-tonestack/pkg/sweep"
	"github.com/edp1096/toy-tonestack/pkg/value"
)

var ErrSyntax = errors.New("netlist syntax error")

type NetlistData struct {
	Elements []Element      // Circuit elements
	Nodes    map[string]int // Node name and order of appearance
	HasAC    bool
	ACParam  struct {
		Sweep  string  // DEC, OCT, LIN
		Points float64 // points per decade, octave or interval
		FStart float64 // start frequency
		FStop  float64 // stop frequency
	}
	TFParam struct {
		Output string // output node
		Input  string // driving voltage source
	}
	Title string // Circuit title
}

type Element struct {
	Type   string            // Part type (R, L, C, V)
	Name   string            // Part name
	Nodes  []string          // Node names
	Value  float64           // Part value
	Params map[string]string // Parameter values
}

type sourceLine struct {
	text string
	num  int
}

// Load reads and parses a netlist file.
func Load(path string, logger *zap.Logger) (*NetlistData, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading netlist %s: %w", path, err)
	}

	data, err := Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing netlist %s: %w", path, err)
	}

	logger.Debug("netlist loaded",
		zap.String("path", path),
		zap.String("title", data.Title),
		zap.Int("elements", len(data.Elements)),
		zap.Int("nodes", len(data.Nodes)),
		zap.Bool("ac", data.HasAC))
	return data, nil
}

// Parse reads a netlist. The first line is the title; "*" starts a comment
// line, ";" an inline comment, "+" continues the previous line and .end
// stops parsing.
func Parse(input string) (*NetlistData, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	netlistData := &NetlistData{
		Nodes: make(map[string]int),
	}

	// Title or comment
	if scanner.Scan() {
		netlistData.Title = strings.TrimPrefix(scanner.Text(), "*")
		netlistData.Title = strings.TrimSpace(netlistData.Title)
	}

	var current sourceLine
	lineNum := 1
	flush := func() error {
		if current.text == "" {
			return nil
		}
		err := parseLine(netlistData, current.text)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrSyntax, current.num, err)
		}
		current = sourceLine{}
		return nil
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if idx := strings.Index(line, ";"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)

		if len(line) == 0 || strings.HasPrefix(line, "*") {
			continue
		}

		if strings.HasPrefix(line, "+") { // Line continue
			if current.text == "" {
				return nil, fmt.Errorf("%w: line %d: continuation without a line", ErrSyntax, lineNum)
			}
			current.text += " " + strings.TrimSpace(line[1:])
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}

		if strings.EqualFold(strings.Fields(line)[0], ".end") {
			break
		}
		current = sourceLine{text: line, num: lineNum}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning netlist: %w", err)
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return netlistData, nil
}

func parseLine(netlistData *NetlistData, line string) error {
	if strings.HasPrefix(line, ".") {
		return parseDotOperator(netlistData, line)
	}

	element, err := parseElement(line)
	if err != nil {
		return err
	}

	for _, e := range netlistData.Elements {
		if strings.EqualFold(e.Name, element.Name) {
			return fmt.Errorf("duplicate element %s", element.Name)
		}
	}

	netlistData.Elements = append(netlistData.Elements, *element)
	for _, node := range element.Nodes {
		if _, exists := netlistData.Nodes[node]; !exists {
			netlistData.Nodes[node] = len(netlistData.Nodes)
		}
	}
	return nil
}

// Parse .ac and .tf
func parseDotOperator(netlistData *NetlistData, line string) error {
	var err error
	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case ".ac":
		if len(fields) < 5 {
			return fmt.Errorf("insufficient AC parameters, need sweep type, points, fstart, and fstop")
		}

		// DEC, OCT, LIN
		netlistData.ACParam.Sweep = strings.ToUpper(fields[1])
		if netlistData.ACParam.Sweep != "DEC" && netlistData.ACParam.Sweep != "OCT" && netlistData.ACParam.Sweep != "LIN" {
			return fmt.Errorf("invalid sweep type: %s", netlistData.ACParam.Sweep)
		}

		netlistData.ACParam.Points, err = parseNumber(fields[2])
		if err != nil || netlistData.ACParam.Points <= 0 {
			return fmt.Errorf("invalid points number: %s", fields[2])
		}
		netlistData.ACParam.FStart, err = parseNumber(fields[3])
		if err != nil {
			return fmt.Errorf("invalid fstart: %v", err)
		}
		netlistData.ACParam.FStop, err = parseNumber(fields[4])
		if err != nil {
			return fmt.Errorf("invalid fstop: %v", err)
		}
		netlistData.HasAC = true

	case ".tf":
		if len(fields) != 3 {
			return fmt.Errorf(".tf needs an output node and an input source")
		}
		out := fields[1]
		if len(out) > 3 && strings.EqualFold(out[:2], "v(") && strings.HasSuffix(out, ")") {
			out = out[2 : len(out)-1]
		}
		netlistData.TFParam.Output = out
		netlistData.TFParam.Input = fields[2]

	default:
		return fmt.Errorf("unsupported control: %s", fields[0])
	}

	return nil
}

// Sweep converts the .ac card to a sweep configuration. DEC and OCT become
// geometric grids, LIN an arithmetic one with the same points per decade.
func (n *NetlistData) Sweep() (sweep.Config, bool) {
	if !n.HasAC {
		return sweep.Config{}, false
	}

	cfg := sweep.Config{
		Deviation: n.ACParam.Points,
		StartFreq: n.ACParam.FStart,
		StopFreq:  n.ACParam.FStop,
		Mode:      sweep.Geometric,
	}
	switch n.ACParam.Sweep {
	case "OCT":
		cfg.Deviation = n.ACParam.Points / math.Log10(2)
	case "LIN":
		cfg.Mode = sweep.Arithmetic
	}
	return cfg, true
}

// Parse circuit element
func parseElement(line string) (*Element, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid element format: %s", line)
	}

	elem := &Element{
		Name:   fields[0],
		Type:   strings.ToUpper(string(fields[0][0])),
		Nodes:  []string{fields[1], fields[2]},
		Params: make(map[string]string),
	}
	if fields[1] == fields[2] {
		return nil, fmt.Errorf("element %s: both terminals on node %s", elem.Name, fields[1])
	}

	switch elem.Type {
	case "V":
		return parseVoltageSource(elem, fields[3:])

	case "R", "C", "L":
		if len(fields) != 4 {
			return nil, fmt.Errorf("element %s: expected one value, got %q", elem.Name, strings.Join(fields[3:], " "))
		}
		profile := value.ProfileForName(elem.Type)
		parsed, ok := profile.Parse(fields[3])
		if !ok || !(parsed.Value > 0) || math.IsInf(parsed.Value, 0) {
			return nil, fmt.Errorf("element %s: invalid %s value %q", elem.Name, profile.Name, fields[3])
		}
		elem.Value = parsed.Value
		return elem, nil
	}

	return nil, fmt.Errorf("unsupported element type: %s", elem.Type)
}

func parseVoltageSource(elem *Element, words []string) (*Element, error) {
	elem.Params["dc"] = "0"
	elem.Params["ac"] = "0"
	elem.Params["phase"] = "0"

	// A bare leading number is the DC value
	if _, err := parseSigned(words[0]); err == nil {
		elem.Params["dc"] = words[0]
		words = words[1:]
	}

	for len(words) > 0 {
		switch strings.ToUpper(words[0]) {
		case "DC":
			if len(words) < 2 {
				return nil, fmt.Errorf("missing DC value")
			}
			elem.Params["dc"] = words[1]
			words = words[2:]

		case "AC":
			if len(words) < 2 {
				return nil, fmt.Errorf("missing AC magnitude")
			}
			elem.Params["ac"] = words[1]
			words = words[2:]
			if len(words) > 0 {
				if _, err := strconv.ParseFloat(words[0], 64); err == nil {
					elem.Params["phase"] = words[0]
					words = words[1:]
				}
			}

		default:
			return nil, fmt.Errorf("unsupported voltage source type: %s", words[0])
		}
	}

	magnitude, err := parseNumber(elem.Params["ac"])
	if err != nil {
		return nil, fmt.Errorf("invalid AC magnitude: %v", err)
	}
	if _, err := parseSigned(elem.Params["dc"]); err != nil {
		return nil, fmt.Errorf("invalid DC value: %v", err)
	}
	if _, err := strconv.ParseFloat(elem.Params["phase"], 64); err != nil {
		return nil, fmt.Errorf("invalid AC phase: %s", elem.Params["phase"])
	}
	elem.Value = magnitude

	return elem, nil
}

// parseNumber reads a plain value with multipliers, 100k -> 100000.
func parseNumber(text string) (float64, error) {
	parsed, ok := value.Unitless.Parse(text)
	if !ok || text == "" {
		return 0, fmt.Errorf("invalid value format: %s", text)
	}
	return parsed.Value, nil
}

func parseSigned(text string) (float64, error) {
	if rest, ok := strings.CutPrefix(text, "-"); ok {
		v, err := parseNumber(rest)
		return -v, err
	}
	return parseNumber(text)
}

func CreateDevice(elem Element) (device.Device, error) {
	switch elem.Type {
	case "R":
		return device.NewResistor(elem.Name, elem.Nodes, elem.Value), nil

	case "C":
		return device.NewCapacitor(elem.Name, elem.Nodes, elem.Value), nil

	case "L":
		return device.NewInductor(elem.Name, elem.Nodes, elem.Value), nil

	case "V":
		dc, err := parseSigned(elem.Params["dc"])
		if err != nil {
			return nil, fmt.Errorf("invalid DC value: %v", err)
		}
		phase, err := strconv.ParseFloat(elem.Params["phase"], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid AC phase: %v", err)
		}
		return device.NewACVoltageSource(elem.Name, elem.Nodes, dc, elem.Value, phase), nil
	}
	return nil, fmt.Errorf("unsupported device type: %s", elem.Type)
}
