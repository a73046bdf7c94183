package taboo

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultLookups(t *testing.T) {
	rs := Default()

	if !rs.IsTabooHead("CC") || !rs.IsTabooHead("|") {
		t.Error("expected CC and | to be taboo heads")
	}
	if rs.IsTabooHead("NN") {
		t.Error("NN should be allowed as head")
	}
	if !rs.IsNoLeftHead("POS") || rs.IsNoLeftHead("NN") {
		t.Error("unexpected no-left-head lookup")
	}
	if !rs.IsNoRightHead("RP") || rs.IsNoRightHead("IN") {
		t.Error("unexpected no-right-head lookup")
	}
	if rs.IsTabooHead("") {
		t.Error("empty tag should not match any rule")
	}
}

func TestPairKey(t *testing.T) {
	tests := []struct {
		headTag, modTag string
		head, mod       int
		want            string
	}{
		{"DT", "NN", 1, 2, "hDT<mNN"},
		{"DT", "NN", 3, 2, "mNN<hDT"},
		{"ROOT", "VBD", 0, 3, "hROOT<mVBD"},
	}
	for _, tt := range tests {
		got := PairKey(tt.headTag, tt.modTag, tt.head, tt.mod)
		if got != tt.want {
			t.Errorf("PairKey(%q, %q, %d, %d) = %q, want %q",
				tt.headTag, tt.modTag, tt.head, tt.mod, got, tt.want)
		}
	}
}

func TestIsTabooPairDirectional(t *testing.T) {
	rs := Default()

	// hDT<mNN: DT head to the left of an NN modifier.
	if !rs.IsTabooPair("DT", "NN", 1, 2) {
		t.Error("expected hDT<mNN to be taboo")
	}
	// mNN<hDT is also listed.
	if !rs.IsTabooPair("DT", "NN", 3, 2) {
		t.Error("expected mNN<hDT to be taboo")
	}
	// hNN<mDT is listed but mDT<hNN is not.
	if !rs.IsTabooPair("NN", "DT", 1, 2) {
		t.Error("expected hNN<mDT to be taboo")
	}
	if rs.IsTabooPair("NN", "DT", 2, 1) {
		t.Error("mDT<hNN should be allowed")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `taboo_heads: [DT]
no_left_head: [POS]
taboo_pairs:
  - hDT<mNN
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rs, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !rs.IsTabooHead("DT") || rs.IsTabooHead("CC") {
		t.Error("loaded taboo heads mismatch")
	}
	if !rs.IsNoLeftHead("POS") {
		t.Error("expected POS in no-left-head")
	}
	if rs.IsNoRightHead(".") {
		t.Error("no-right-head should be empty")
	}
	if !rs.IsTabooPair("DT", "NN", 1, 2) {
		t.Error("expected hDT<mNN")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("taboo_heads: {nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		t.Fatal(err)
	}
	if len(r.TabooHeads) != 12 || len(r.NoLeftHead) != 4 || len(r.NoRightHead) != 2 || len(r.TabooPairs) != 21 {
		t.Errorf("rule counts = %d/%d/%d/%d, want 12/4/2/21",
			len(r.TabooHeads), len(r.NoLeftHead), len(r.NoRightHead), len(r.TabooPairs))
	}
}

func TestEmpty(t *testing.T) {
	rs := Empty()
	if rs.IsTabooHead("CC") || rs.IsTabooPair("DT", "NN", 1, 2) {
		t.Error("empty rule set should veto nothing")
	}
}
