package core

import "testing"

func TestSnapshotLookup(t *testing.T) {
	s := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "a", Params: []Parameter{{Key: "x", Value: "1.5"}}},
		{Name: "b", Params: []Parameter{{Key: "y", Value: "nope"}}},
	}}
	if v, ok := s.Float("x"); !ok || v != 1.5 {
		t.Fatalf("Float(x) = %v, %v", v, ok)
	}
	if _, ok := s.Float("y"); ok {
		t.Fatal("unparsable value should not report ok")
	}
	if _, ok := s.Lookup("z"); ok {
		t.Fatal("missing key found")
	}
}

func TestParameterDisplay(t *testing.T) {
	cases := []struct {
		p    Parameter
		want string
	}{
		{Parameter{Type: ParamTypeBool, Value: "true"}, "on"},
		{Parameter{Type: ParamTypeBool, Value: "false"}, "off"},
		{Parameter{Type: ParamTypeBool, Value: "maybe"}, "maybe"},
		{Parameter{Type: ParamTypeInt, Value: "3"}, "3"},
	}
	for _, c := range cases {
		if got := c.p.Display(); got != c.want {
			t.Fatalf("Display(%+v) = %q, want %q", c.p, got, c.want)
		}
	}
}

func TestControlNudge(t *testing.T) {
	lin := ParameterControl{Type: ParamTypeFloat, Step: 0.5, Min: 0.5, HasMin: true, Max: 2, HasMax: true}
	if got := lin.Nudge(1, 1); got != 1.5 {
		t.Fatalf("linear up = %v", got)
	}
	if got := lin.Nudge(0.5, -1); got != 0.5 {
		t.Fatalf("linear clamp at min = %v", got)
	}
	if got := lin.Nudge(2, 1); got != 2 {
		t.Fatalf("linear clamp at max = %v", got)
	}

	log := ParameterControl{Type: ParamTypeFloat, Step: 2, Log: true}
	if got := log.Nudge(10, 1); got != 20 {
		t.Fatalf("log up = %v", got)
	}
	if got := log.Nudge(10, -1); got != 5 {
		t.Fatalf("log down = %v", got)
	}

	ints := ParameterControl{Type: ParamTypeInt, Step: 0.2}
	if got := ints.Nudge(3, -1); got != 2 {
		t.Fatalf("int step rounds up to one: %v", got)
	}
}
