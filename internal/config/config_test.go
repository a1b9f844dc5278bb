// Copyright © 2024 Matthias Blanke <matthiasblanke@appspam.dev>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package config

import (
	"path/filepath"
	"testing"

	"github.com/matthiasblanke/appspam/internal/tree"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Weight != Default().Weight {
		t.Fatalf("Weight = %d, want default %d", cfg.Weight, Default().Weight)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Weight = 8
	cfg.DontCare = 4
	cfg.AssignmentMode = "LCA_DOMINANT"
	cfg.DominanceX = 2.5

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Weight != 8 || got.DontCare != 4 || got.AssignmentMode != "LCA_DOMINANT" || got.DominanceX != 2.5 {
		t.Fatalf("round-tripped config = %+v", got)
	}
}

func TestPolicyResolvesAssignmentMode(t *testing.T) {
	cfg := Default()
	cfg.AssignmentMode = "LCA_COUNT"
	p, err := cfg.Policy()
	if err != nil {
		t.Fatalf("Policy: %v", err)
	}
	if p.Kind != tree.LCACount {
		t.Fatalf("Kind = %v, want LCACount", p.Kind)
	}
}

func TestPolicyRejectsUnknownAssignmentMode(t *testing.T) {
	cfg := Default()
	cfg.AssignmentMode = "NOT_A_MODE"
	if _, err := cfg.Policy(); err == nil {
		t.Fatal("expected error for unknown assignment_mode")
	}
}
