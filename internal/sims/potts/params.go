package potts

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mad-cpm/internal/config"
	"mad-cpm/internal/core"
)

const seedCountPrefix = "cells."

// Parameters reports the live state of the world for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	m := w.model
	b := w.bundle
	ext := m.Extents()
	groups := []core.ParameterGroup{
		{
			Name: "Run",
			Params: []core.Parameter{
				textParam("field", "Field", fmt.Sprint(ext)),
				int64Param("seed", "Seed", w.seed),
				intParam("t", "Step", m.Time()),
				floatParam("temperature", "Temperature", m.Temperature()),
				intParam("accepted", "Accepted", w.last.Accepted),
				intParam("rejected", "Rejected", w.last.Rejected),
				intParam("blocked", "Blocked", w.last.Blocked),
				boolParam("connectivity", "Connectivity", m.Config().Connectivity),
			},
		},
	}
	kinds := core.ParameterGroup{Name: "Cells"}
	titleCase := cases.Title(language.English)
	for _, ks := range m.KindSummary() {
		name := b.KindName(ks.Kind)
		kinds.Params = append(kinds.Params,
			intParam(seedCountPrefix+strconv.Itoa(ks.Kind), titleCase.String(name)+" seeds", w.seedCount(ks.Kind)),
			intParam("count."+strconv.Itoa(ks.Kind), titleCase.String(name)+" alive", ks.Count),
			floatParam("volume."+strconv.Itoa(ks.Kind), titleCase.String(name)+" mean volume", round2(ks.MeanVolume)),
		)
	}
	groups = append(groups, kinds)
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values the HUD may adjust.
func (w *World) ParameterControls() []core.ParameterControl {
	controls := []core.ParameterControl{
		{Key: "temperature", Label: "Temperature", Type: core.ParamTypeFloat, Step: 1.25, Log: true, Min: 0.01, HasMin: true, Max: 1e4, HasMax: true},
	}
	titleCase := cases.Title(language.English)
	for k := 1; k < w.bundle.Kinds(); k++ {
		controls = append(controls, core.ParameterControl{
			Key:    seedCountPrefix + strconv.Itoa(k),
			Label:  titleCase.String(w.bundle.KindName(k)) + " seeds",
			Type:   core.ParamTypeInt,
			Step:   1,
			Min:    0,
			HasMin: true,
		})
	}
	return controls
}

// SetFloatParameter applies a HUD change to a float control.
func (w *World) SetFloatParameter(key string, value float64) bool {
	if key != "temperature" {
		return false
	}
	if err := w.model.SetTemperature(value); err != nil {
		return false
	}
	w.bundle.Temperature = value
	return true
}

// SetIntParameter applies a HUD change to an integer control. Seed counts
// take effect on the next reset.
func (w *World) SetIntParameter(key string, value int) bool {
	rest, ok := strings.CutPrefix(key, seedCountPrefix)
	if !ok || value < 0 {
		return false
	}
	kind, err := strconv.Atoi(rest)
	if err != nil || kind < 1 || kind >= w.bundle.Kinds() {
		return false
	}
	if w.bundle.Cells == nil {
		w.bundle.Cells = make([]int, w.bundle.Kinds()-1)
	}
	w.bundle.Cells[kind-1] = value
	return true
}

func (w *World) seedCount(kind int) int {
	if kind < 1 || kind > len(w.bundle.Cells) {
		return 0
	}
	return w.bundle.Cells[kind-1]
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeBool, Value: strconv.FormatBool(value)}
}

func textParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeText, Value: value}
}

func init() {
	core.Register("cpm", func(cfg map[string]string) (core.Sim, error) {
		b, err := config.Load(cfg["config"])
		if err != nil {
			return nil, err
		}
		b.Apply(cfg)
		return New(b)
	})
}
