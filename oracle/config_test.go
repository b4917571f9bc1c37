package oracle

import (
	"testing"

	"github.com/AlexxNica/dnssec-oracle/rr"
)

// The published root zone KSK-2017 DS record.
const rootAnchorDS = ".	86400	IN	DS	20326 8 2 E06D44B80B8F1D39A95C0B0D7C65D08458E880409BBC683457104237C7F8EC8D"

func TestAnchorWire(t *testing.T) {
	conf := AnchorConf{DS: []string{rootAnchorDS}}
	wire, err := conf.AnchorWire()
	if err != nil {
		t.Fatalf("AnchorWire: %v", err)
	}

	it := rr.NewIterator(wire)
	rec, err := it.Next()
	if err != nil {
		t.Fatalf("anchor wire does not parse: %v", err)
	}
	if !rec.Name.Equal(rr.RootName) {
		t.Errorf("anchor owner %q, want root", rec.Name.String())
	}
	if rec.Type != rr.TypeDS || rec.Class != rr.ClassINET {
		t.Errorf("anchor type/class %d/%d", rec.Type, rec.Class)
	}
	ds, err := rr.ParseDS(rec.Rdata)
	if err != nil {
		t.Fatalf("ParseDS: %v", err)
	}
	if ds.KeyTag != 20326 || ds.Algorithm != 8 || ds.DigestType != 2 {
		t.Errorf("DS fields %d/%d/%d, want 20326/8/2", ds.KeyTag, ds.Algorithm, ds.DigestType)
	}
	if !it.Done() {
		t.Errorf("trailing bytes after single anchor record")
	}
}

func TestAnchorWireRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		ds   []string
	}{
		{"empty", nil},
		{"not a DS record", []string{". 3600 IN TXT \"hello\""}},
		{"not at the root", []string{"com. 86400 IN DS 20326 8 2 E06D44B80B8F1D39A95C0B0D7C65D08458E880409BBC683457104237C7F8EC8D"}},
		{"garbage", []string{"not a record at all"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			conf := AnchorConf{DS: tc.ds}
			if _, err := conf.AnchorWire(); err == nil {
				t.Errorf("AnchorWire accepted %v", tc.ds)
			}
		})
	}
}
