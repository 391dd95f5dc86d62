package taxonomy

import (
	"strings"
	"testing"
)

func TestReadLookupCSV(t *testing.T) {
	in := strings.Join([]string{
		"name,kingdom,phylum,class",
		"Arenicola marina,Animalia,Annelida,Polychaeta",
		"mystery sp.,NA,,",
		",Animalia,Annelida,",
	}, "\n")
	got, err := ReadLookupCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadLookupCSV: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries (empty name skipped), got %d", len(got))
	}
	am := got["Arenicola marina"]
	if am["phylum"] != "Annelida" || am["class"] != "Polychaeta" {
		t.Fatalf("ranks wrong: %v", am)
	}
	if _, ok := got["mystery sp."]["kingdom"]; ok {
		t.Fatalf("NA rank cells must stay unknown")
	}
}
