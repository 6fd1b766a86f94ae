package report_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/netintent-io/netintent"
	"github.com/netintent-io/netintent/internal/bitset"
	"github.com/netintent-io/netintent/intent"
	"github.com/netintent-io/netintent/report"
)

func sampleIntents(t *testing.T) intent.Set {
	t.Helper()
	is, err := intent.NewSet([]intent.Intent{
		{ID: "I1", Kind: intent.KindSimple, Src: "A", Dst: "C", Paths: [][]string{{"A", "C"}}},
		{ID: "I2", Kind: intent.KindSimple, Src: "A", Dst: "C", Paths: [][]string{{"A", "B", "C"}}},
	})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return is
}

func TestBuildRendersSubsetsWithIDsAndRecords(t *testing.T) {
	is := sampleIntents(t)
	topo := intent.Topology{Routers: []string{"A", "B", "C"}}
	b := report.NewBuilder(is, topo)
	b.Add(netintent.Event{Kind: netintent.KindMUS, Set: bitset.Of(1, 2)})
	b.Add(netintent.Event{Kind: netintent.KindMSS, Set: bitset.Of(1)})

	result := b.Build(netintent.Stats{})

	if result.Input.IntentCount != 2 || result.Input.RouterCount != 3 {
		t.Fatalf("Input = %+v, want IntentCount=2 RouterCount=3", result.Input)
	}
	wantMUS := report.Subset{
		IDs: []string{"I1", "I2"},
		Intents: []intent.Intent{
			{ID: "I1", Kind: intent.KindSimple, Src: "A", Dst: "C", Paths: [][]string{{"A", "C"}}},
			{ID: "I2", Kind: intent.KindSimple, Src: "A", Dst: "C", Paths: [][]string{{"A", "B", "C"}}},
		},
	}
	if len(result.MUSes) != 1 {
		t.Fatalf("MUSes = %+v, want one subset", result.MUSes)
	}
	if diff := cmp.Diff(wantMUS, result.MUSes[0]); diff != "" {
		t.Fatalf("MUSes[0] mismatch (-want +got):\n%s", diff)
	}
	if len(result.MSSes) != 1 || result.MSSes[0].IDs[0] != "I1" {
		t.Fatalf("MSSes = %+v, want one subset {I1}", result.MSSes)
	}
}

func TestBuildWithNoEventsYieldsEmptyLists(t *testing.T) {
	is := sampleIntents(t)
	b := report.NewBuilder(is, intent.Topology{})
	result := b.Build(netintent.Stats{})
	if len(result.MUSes) != 0 || len(result.MSSes) != 0 {
		t.Fatalf("Build with no events = %+v, want empty MUSes/MSSes", result)
	}
}

func TestDeltaDistributionSummarizesStats(t *testing.T) {
	is := sampleIntents(t)
	b := report.NewBuilder(is, intent.Topology{})
	result := b.Build(netintent.Stats{
		UpDeltas:   []float64{0.5, 0.25, 0.75},
		DownDeltas: []float64{1.0},
	})
	if result.Stats.UpDeltas.Count != 3 {
		t.Fatalf("UpDeltas.Count = %d, want 3", result.Stats.UpDeltas.Count)
	}
	if result.Stats.UpDeltas.Mean != 0.5 {
		t.Fatalf("UpDeltas.Mean = %v, want 0.5", result.Stats.UpDeltas.Mean)
	}
	if result.Stats.UpDeltas.Min != 0.25 || result.Stats.UpDeltas.Max != 0.75 {
		t.Fatalf("UpDeltas = %+v, want Min=0.25 Max=0.75", result.Stats.UpDeltas)
	}
	if result.Stats.DownDeltas.Count != 1 || result.Stats.DownDeltas.Mean != 1.0 {
		t.Fatalf("DownDeltas = %+v, want Count=1 Mean=1.0", result.Stats.DownDeltas)
	}
}
