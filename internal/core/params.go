package core

import (
	"math"
	"strconv"
)

// ParamType tags the value carried by a Parameter.
type ParamType string

const (
	ParamTypeInt   ParamType = "int"
	ParamTypeFloat ParamType = "float"
	ParamTypeBool  ParamType = "bool"
	ParamTypeText  ParamType = "text"
)

// Parameter is one read-only value shown on the HUD or in a run summary.
type Parameter struct {
	Key   string
	Label string
	Type  ParamType
	Value string
}

// Display formats the value for a panel line.
func (p Parameter) Display() string {
	if p.Type == ParamTypeBool {
		if v, err := strconv.ParseBool(p.Value); err == nil {
			if v {
				return "on"
			}
			return "off"
		}
	}
	return p.Value
}

// ParameterGroup clusters parameters under a heading.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot is the full set of values a sim reports at one moment.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// Lookup finds a parameter by key across all groups.
func (s ParameterSnapshot) Lookup(key string) (Parameter, bool) {
	for _, g := range s.Groups {
		for _, p := range g.Params {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Parameter{}, false
}

// Float parses the value of key as a float.
func (s ParameterSnapshot) Float(key string) (float64, bool) {
	p, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(p.Value, 64)
	return v, err == nil
}

// ParameterControl describes a value the HUD may nudge with -/+ buttons.
type ParameterControl struct {
	Key   string
	Label string
	Type  ParamType

	// Step is the increment per click. Float controls with Log set
	// multiply or divide by Step instead.
	Step float64
	Log  bool

	Min    float64
	Max    float64
	HasMin bool
	HasMax bool
}

// Nudge returns the value one click away from v in direction dir (-1 or
// +1), clamped to the control's bounds.
func (c ParameterControl) Nudge(v float64, dir int) float64 {
	step := c.Step
	switch {
	case c.Type == ParamTypeInt:
		step = math.Max(1, math.Round(step))
	case step <= 0:
		step = 0.05
	}
	var target float64
	if c.Log && c.Type == ParamTypeFloat && step > 1 {
		if dir < 0 {
			target = v / step
		} else {
			target = v * step
		}
	} else {
		target = v + float64(dir)*step
	}
	return c.Clamp(target)
}

// Clamp bounds v to the control's range.
func (c ParameterControl) Clamp(v float64) float64 {
	if c.HasMin && v < c.Min {
		v = c.Min
	}
	if c.HasMax && v > c.Max {
		v = c.Max
	}
	if c.Type == ParamTypeInt {
		v = math.Round(v)
	}
	return v
}

// ParameterControlsProvider exposes the HUD-adjustable controls.
type ParameterControlsProvider interface {
	ParameterControls() []ParameterControl
}

// ParameterProvider exposes a snapshot of current values.
type ParameterProvider interface {
	Parameters() ParameterSnapshot
}

// IntParameterSetter applies integer control changes.
type IntParameterSetter interface {
	SetIntParameter(key string, value int) bool
}

// FloatParameterSetter applies float control changes.
type FloatParameterSetter interface {
	SetFloatParameter(key string, value float64) bool
}
