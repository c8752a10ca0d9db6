package graph

import (
	"math/rand"
	"testing"

	"github.com/dd0wney/cluso-ringview/pkg/claims"
)

func seeded() BuildOption {
	return WithRand(rand.New(rand.NewSource(42)))
}

// TestBuild_SharedIdentifiers tests the reference three-claim scenario
func TestBuild_SharedIdentifiers(t *testing.T) {
	records := []claims.Record{
		{ID: "C1", IPAddress: "1.1.1.1"},
		{ID: "C2", IPAddress: "1.1.1.1"},
		{ID: "C3", PhoneNumber: "555"},
	}

	g := Build(records, seeded())

	if g.Len() != 5 {
		t.Fatalf("Expected 5 nodes, got %d", g.Len())
	}
	if len(g.Edges) != 3 {
		t.Fatalf("Expected 3 edges, got %d", len(g.Edges))
	}

	wantKinds := map[string]Kind{
		"C1":      KindClaim,
		"C2":      KindClaim,
		"C3":      KindClaim,
		"1.1.1.1": KindIPAddress,
		"555":     KindPhoneNumber,
	}
	for id, kind := range wantKinds {
		node, ok := g.Node(id)
		if !ok {
			t.Errorf("Node %q missing", id)
			continue
		}
		if node.Kind != kind {
			t.Errorf("Node %q kind = %v, want %v", id, node.Kind, kind)
		}
	}

	wantEdges := []struct {
		source, target string
		category       Category
	}{
		{"C1", "1.1.1.1", CategoryIP},
		{"C2", "1.1.1.1", CategoryIP},
		{"C3", "555", CategoryPhone},
	}
	for i, want := range wantEdges {
		e := g.Edges[i]
		if e.SourceID != want.source || e.TargetID != want.target || e.Category != want.category {
			t.Errorf("Edge %d = %s->%s (%s), want %s->%s (%s)",
				i, e.SourceID, e.TargetID, e.Category, want.source, want.target, want.category)
		}
		if g.Nodes[e.Source].ID != e.SourceID || g.Nodes[e.Target].ID != e.TargetID {
			t.Errorf("Edge %d indices do not match its ids", i)
		}
	}

	if g.Degree("1.1.1.1") != 2 {
		t.Errorf("Shared IP degree = %d, want 2", g.Degree("1.1.1.1"))
	}
}

// TestBuild_BlankIdentifiers tests that blank fields contribute nothing
func TestBuild_BlankIdentifiers(t *testing.T) {
	records := []claims.Record{
		{ID: "C1"},
		{ID: "C2", IPAddress: "", PhoneNumber: "   "},
		{ID: "C3", IPAddress: "\t\n"},
	}

	g := Build(records, seeded())

	if g.Len() != 3 {
		t.Errorf("Expected only claim nodes, got %d nodes", g.Len())
	}
	if len(g.Edges) != 0 {
		t.Errorf("Expected no edges, got %d", len(g.Edges))
	}
	if g.CountKind(KindClaim) != 3 {
		t.Errorf("Expected 3 claim nodes, got %d", g.CountKind(KindClaim))
	}
}

// TestBuild_Empty tests that no records yield an empty graph
func TestBuild_Empty(t *testing.T) {
	g := Build(nil)
	if g.Len() != 0 || len(g.Edges) != 0 {
		t.Errorf("Expected empty graph, got %d nodes %d edges", g.Len(), len(g.Edges))
	}
	if _, ok := g.Lookup("anything"); ok {
		t.Error("Lookup on empty graph should fail")
	}
}

// TestBuild_DuplicateRecords tests that repeated claims keep their edges
func TestBuild_DuplicateRecords(t *testing.T) {
	records := []claims.Record{
		{ID: "C1", IPAddress: "1.1.1.1", ClaimantName: "first"},
		{ID: "C1", IPAddress: "1.1.1.1", ClaimantName: "second"},
	}

	g := Build(records, seeded())

	if g.Len() != 2 {
		t.Fatalf("Expected 2 nodes, got %d", g.Len())
	}
	if len(g.Edges) != 2 {
		t.Errorf("Expected duplicate edge to be kept, got %d edges", len(g.Edges))
	}

	node, _ := g.Node("C1")
	if node.Claim == nil || node.Claim.ClaimantName != "first" {
		t.Errorf("Claim payload should come from the first record, got %+v", node.Claim)
	}
}

// TestBuild_IdentifierCollision tests values shared across kinds
func TestBuild_IdentifierCollision(t *testing.T) {
	records := []claims.Record{
		{ID: "555", PhoneNumber: "555"},
		{ID: "C2", IPAddress: "555", PhoneNumber: "555"},
	}

	g := Build(records, seeded())

	if g.Len() != 4 {
		t.Fatalf("Expected 4 nodes, got %d", g.Len())
	}
	if _, ok := g.Node("phone:555"); !ok {
		t.Error("Phone node should be qualified when the id is taken")
	}
	if _, ok := g.Node("ip:555"); !ok {
		t.Error("IP node should be qualified when the id is taken")
	}
	for _, e := range g.Edges {
		if e.Source == e.Target {
			t.Errorf("Self loop on %s", e.SourceID)
		}
		if g.Nodes[e.Source].Kind != KindClaim || g.Nodes[e.Target].Kind == KindClaim {
			t.Errorf("Edge %s->%s is not claim->identifier", e.SourceID, e.TargetID)
		}
	}
	if g.Degree("phone:555") != 2 {
		t.Errorf("Phone node degree = %d, want 2", g.Degree("phone:555"))
	}
}

// TestBuild_InitialPositions tests placement inside the cube with zero velocity
func TestBuild_InitialPositions(t *testing.T) {
	records := make([]claims.Record, 0, 50)
	for i := 0; i < 50; i++ {
		records = append(records, claims.Record{ID: string(rune('A'+i%26)) + string(rune('a'+i/26))})
	}

	g := Build(records, seeded(), WithSpread(2))

	for _, n := range g.Nodes {
		for _, c := range []float64{n.Position.X, n.Position.Y, n.Position.Z} {
			if c < -2 || c > 2 {
				t.Errorf("Node %s coordinate %f outside [-2, 2]", n.ID, c)
			}
		}
		if n.Velocity != (Vec3{}) {
			t.Errorf("Node %s has non-zero initial velocity %+v", n.ID, n.Velocity)
		}
	}

	seen := make(map[Vec3]string)
	for _, n := range g.Nodes {
		if other, dup := seen[n.Position]; dup {
			t.Errorf("Nodes %s and %s start coincident", n.ID, other)
		}
		seen[n.Position] = n.ID
	}
}

// TestBuild_Deterministic tests that a seeded source gives identical output
func TestBuild_Deterministic(t *testing.T) {
	records := []claims.Record{{ID: "C1", IPAddress: "a"}, {ID: "C2", PhoneNumber: "b"}}

	g1 := Build(records, WithRand(rand.New(rand.NewSource(7))))
	g2 := Build(records, WithRand(rand.New(rand.NewSource(7))))

	for i := range g1.Nodes {
		if g1.Nodes[i].Position != g2.Nodes[i].Position {
			t.Errorf("Node %d positions differ between seeded builds", i)
		}
	}
}

// TestGraphClone tests that clones do not share node storage
func TestGraphClone(t *testing.T) {
	g := Build([]claims.Record{{ID: "C1", IPAddress: "x"}}, seeded())
	c := g.Clone()

	c.Nodes[0].Position = Vec3{X: 100}

	if g.Nodes[0].Position == c.Nodes[0].Position {
		t.Error("Mutating the clone changed the original")
	}
	if idx, ok := c.Lookup("x"); !ok || idx != 1 {
		t.Errorf("Clone lookup = %d, %v", idx, ok)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindClaim, "claim"},
		{KindIPAddress, "ip"},
		{KindPhoneNumber, "phone"},
		{Kind(9), "kind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindClaim, KindIPAddress, KindPhoneNumber} {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) failed: %v", k, err)
		}
		var got Kind
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", text, err)
		}
		if got != k {
			t.Errorf("Round trip of %q = %v, want %v", text, got, k)
		}
	}

	for _, bad := range []string{"", "kind(9)", "Claim", "email"} {
		var k Kind
		if err := k.UnmarshalText([]byte(bad)); err == nil {
			t.Errorf("UnmarshalText(%q) should fail", bad)
		}
	}
}
