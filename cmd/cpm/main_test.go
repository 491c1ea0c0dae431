package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/logrusorgru/aurora"

	"mad-cpm/internal/config"
	"mad-cpm/internal/core"
	"mad-cpm/internal/sims/potts"
	"mad-cpm/pkg/cpm"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionAndList(t *testing.T) {
	out, err := runRoot(t, "version")
	if err != nil || !strings.Contains(out, version) {
		t.Fatalf("version output %q, err %v", out, err)
	}
	out, err = runRoot(t, "list")
	if err != nil || strings.TrimSpace(out) != "cpm" {
		t.Fatalf("list output %q, err %v", out, err)
	}
}

func TestRunPrintsSummary(t *testing.T) {
	path := writeConfig(t, "field_size: [30, 24]\ncells: [2, 1]\nruntime: 4\n")
	out, err := runRoot(t, "--config", path, "run", "--color=false", "--verify", "--show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"t=4", "cells=3", "cell", "obstacle", "bookkeeping verified"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	field := lines[len(lines)-25 : len(lines)-1]
	for i, l := range field {
		if len(l) != 30 {
			t.Fatalf("field line %d has width %d: %q", i, len(l), l)
		}
	}
	if !strings.ContainsAny(strings.Join(field, ""), "o@") {
		t.Fatal("text field shows no cells")
	}
}

func TestRunWritesPNG(t *testing.T) {
	path := writeConfig(t, "field_size: [16, 16]\ncells: [1, 0]\n")
	img := filepath.Join(t.TempDir(), "field.png")
	if _, err := runRoot(t, "--config", path, "run", "--steps", "2", "--summary=false", "--png", img, "--scale", "3"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(img)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("empty PNG")
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	path := writeConfig(t, "temperature: -1\n")
	if _, err := runRoot(t, "--config", path, "run", "--steps", "1"); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestRenderTextSamplesWideFrames(t *testing.T) {
	codes := make([]uint8, 10*4)
	codes[0] = 1
	var buf bytes.Buffer
	renderText(&buf, aurora.NewAurora(false), codes, core.Size{W: 10, H: 4}, 5)
	want := "o....\n.....\n"
	if buf.String() != want {
		t.Fatalf("text = %q, want %q", buf.String(), want)
	}
}

func TestSweepRanksCombinations(t *testing.T) {
	path := writeConfig(t, "field_size: [24, 24]\ncells: [2, 0]\n")
	out, err := runRoot(t, "--config", path, "sweep",
		"--temperature", "10,20", "--lambda-act", "0,200",
		"--seeds", "2", "--steps", "3", "--workers", "2", "--top", "0", "--color=false")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Sweeping 8 runs") {
		t.Fatalf("missing header:\n%s", out)
	}
	var rows int
	for _, l := range strings.Split(out, "\n") {
		f := strings.Fields(l)
		if len(f) == 0 {
			continue
		}
		if _, err := strconv.Atoi(f[0]); len(f) == 7 && err == nil {
			rows++
		}
	}
	if rows != 4 {
		t.Fatalf("got %d result rows, want 4:\n%s", rows, out)
	}
}

func TestSweepRejectsBadKind(t *testing.T) {
	if _, err := runRoot(t, "sweep", "--kind", "5", "--steps", "1"); err == nil {
		t.Fatal("expected error for an undeclared kind")
	}
}

func TestScenarioBundleEnablesActivity(t *testing.T) {
	base := config.Default()
	base.FieldSize = []int{20, 20}
	base.Cells = nil
	base.LambdaAct = nil
	base.MaxAct = nil
	base.ActColor = nil
	opts := sweepOptions{kind: 2, maxAct: 40}
	b := scenarioBundle(base, sweepJob{point: sweepPoint{temperature: 7, lambdaAct: 150}, seed: 9}, opts)
	if base.LambdaAct != nil || base.MaxAct != nil {
		t.Fatal("scenarioBundle modified the base bundle")
	}
	if b.Temperature != 7 || b.Seed != 9 || b.LambdaAct[2] != 150 || b.MaxAct[2] != 40 {
		t.Fatalf("scenario bundle = T %v seed %d lambda_act %v max_act %v", b.Temperature, b.Seed, b.LambdaAct, b.MaxAct)
	}
	w, err := potts.New(b)
	if err != nil {
		t.Fatal(err)
	}
	var act *cpm.Activity
	for _, c := range w.Model().Constraints() {
		if a, ok := c.(*cpm.Activity); ok {
			act = a
		}
	}
	if act == nil || act.MaxAct(2) != 40 {
		t.Fatalf("activity constraint = %v", act)
	}

	base = config.Default()
	b = scenarioBundle(base, sweepJob{point: sweepPoint{temperature: 20, lambdaAct: 10}}, sweepOptions{kind: 1, maxAct: 40})
	if b.MaxAct[1] != 80 {
		t.Fatalf("configured max_act overridden: %v", b.MaxAct)
	}
}

func TestSweepRejectsNonPositiveMaxAct(t *testing.T) {
	if _, err := runRoot(t, "sweep", "--max-act", "0", "--steps", "1"); err == nil {
		t.Fatal("expected error for a zero activity ceiling")
	}
}
