package intent_test

import (
	"testing"

	"github.com/netintent-io/netintent/intent"
)

func TestDecodeIntentsSimpleBarePath(t *testing.T) {
	data := []byte(`{
		"I1": ["OSPF", "simple", "A", "C", ["A", "C"]]
	}`)
	got, err := intent.DecodeIntents(data)
	if err != nil {
		t.Fatalf("DecodeIntents: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if got[0].Kind != intent.KindSimple {
		t.Fatalf("Kind = %v, want simple", got[0].Kind)
	}
	want := [][]string{{"A", "C"}}
	if !pathsEqual(got[0].Paths, want) {
		t.Fatalf("Paths = %v, want %v", got[0].Paths, want)
	}
}

func TestDecodeIntentsSimpleSingleElementList(t *testing.T) {
	data := []byte(`{
		"I1": ["OSPF", "simple", "A", "C", [["A", "C"]]]
	}`)
	got, err := intent.DecodeIntents(data)
	if err != nil {
		t.Fatalf("DecodeIntents: %v", err)
	}
	want := [][]string{{"A", "C"}}
	if !pathsEqual(got[0].Paths, want) {
		t.Fatalf("Paths = %v, want %v", got[0].Paths, want)
	}
}

func TestDecodeIntentsPathPreferenceWithSecondaryField(t *testing.T) {
	data := []byte(`{
		"I1": ["OSPF", "path_preference", "A", "C", ["A", "C"], ["A", "B", "C"]]
	}`)
	got, err := intent.DecodeIntents(data)
	if err != nil {
		t.Fatalf("DecodeIntents: %v", err)
	}
	want := [][]string{{"A", "C"}, {"A", "B", "C"}}
	if !pathsEqual(got[0].Paths, want) {
		t.Fatalf("Paths = %v, want %v", got[0].Paths, want)
	}
}

func TestDecodeIntentsECMP(t *testing.T) {
	data := []byte(`{
		"I1": ["OSPF", "ECMP", "A", "C", [["A", "C"], ["A", "B", "C"]]]
	}`)
	got, err := intent.DecodeIntents(data)
	if err != nil {
		t.Fatalf("DecodeIntents: %v", err)
	}
	want := [][]string{{"A", "C"}, {"A", "B", "C"}}
	if !pathsEqual(got[0].Paths, want) {
		t.Fatalf("Paths = %v, want %v", got[0].Paths, want)
	}
}

func TestDecodeIntentsRejectsUnknownKind(t *testing.T) {
	data := []byte(`{"I1": ["OSPF", "bogus", "A", "C", ["A", "C"]]}`)
	if _, err := intent.DecodeIntents(data); err == nil {
		t.Fatalf("DecodeIntents accepted an unknown kind")
	}
}

func TestDecodeIntentsIsStableAcrossKeyOrder(t *testing.T) {
	a := []byte(`{"Ib": ["OSPF","simple","A","C",["A","C"]], "Ia": ["OSPF","simple","A","C",["A","C"]]}`)
	got, err := intent.DecodeIntents(a)
	if err != nil {
		t.Fatalf("DecodeIntents: %v", err)
	}
	if got[0].ID != "Ia" || got[1].ID != "Ib" {
		t.Fatalf("decode order = [%s, %s], want sorted [Ia, Ib]", got[0].ID, got[1].ID)
	}
}

func TestDecodeTopology(t *testing.T) {
	data := []byte(`{
		"routers": [{"name":"A"},{"name":"B"},{"name":"C"}],
		"links": [
			{"node1":{"name":"A"},"node2":{"name":"B"}},
			{"node1":{"name":"B"},"node2":{"name":"C"}},
			{"node1":{"name":"A"},"node2":{"name":"C"}}
		]
	}`)
	topo, err := intent.DecodeTopology(data)
	if err != nil {
		t.Fatalf("DecodeTopology: %v", err)
	}
	if len(topo.Routers) != 3 || len(topo.Links) != 3 {
		t.Fatalf("topo = %+v, want 3 routers and 3 links", topo)
	}
}

func pathsEqual(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
