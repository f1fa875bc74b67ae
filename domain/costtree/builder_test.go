package costtree

import (
	"math"
	"testing"
)

func sampleItems() []LineItem {
	return []LineItem{
		{ItemName: "Blank", Process: "Stamping", Type: "Material", TargetCost: 10, ActualCost: 12},
		{ItemName: "Press labor", Process: "Stamping", Type: "Labor", TargetCost: 5, ActualCost: 4},
		{ItemName: "Weld wire", Process: "Welding", Type: "Material", TargetCost: 3, ActualCost: 3.5},
		{ItemName: "Weld labor", Process: "Welding", Type: "Labor", TargetCost: 7, ActualCost: 9},
		{ItemName: "Paint", Process: "Coating", Type: "Material", TargetCost: 2, ActualCost: 1.5},
	}
}

const tolerance = 1e-6

// checkAdditivity asserts the bottom-up invariant at every non-leaf node.
func checkAdditivity(t *testing.T, n *Node) {
	t.Helper()
	if len(n.Children) == 0 {
		return
	}
	var target, actual, variance float64
	for _, child := range n.Children {
		checkAdditivity(t, child)
		target += child.TargetCost
		actual += child.ActualCost
		variance += child.Variance
	}
	if math.Abs(n.TargetCost-target) > tolerance {
		t.Errorf("%s: target %v != child sum %v", n.ItemID, n.TargetCost, target)
	}
	if math.Abs(n.ActualCost-actual) > tolerance {
		t.Errorf("%s: actual %v != child sum %v", n.ItemID, n.ActualCost, actual)
	}
	if math.Abs(n.Variance-variance) > tolerance {
		t.Errorf("%s: variance %v != child sum %v", n.ItemID, n.Variance, variance)
	}
}

func TestBuildTreeByProcess(t *testing.T) {
	root := BuildTree(sampleItems(), ViewByProcess)

	if root.Level != 1 || root.ItemID != "ROOT" {
		t.Fatalf("bad root: %+v", root)
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected 3 process groups, got %d", len(root.Children))
	}

	// Groups appear in first-encounter order.
	wantGroups := []string{"Stamping", "Welding", "Coating"}
	for i, want := range wantGroups {
		g := root.Children[i]
		if g.ItemName != want || g.Level != 2 {
			t.Errorf("group %d: %s (level %d), want %s", i, g.ItemName, g.Level, want)
		}
	}

	stamping := root.Children[0]
	if len(stamping.Children) != 2 || stamping.TargetCost != 15 || stamping.ActualCost != 16 {
		t.Errorf("stamping rollup wrong: %+v", stamping)
	}
	for _, leaf := range stamping.Children {
		if leaf.Level != 3 || len(leaf.Children) != 0 {
			t.Errorf("leaf malformed: %+v", leaf)
		}
	}

	checkAdditivity(t, root)
}

func TestBuildTreeByType(t *testing.T) {
	root := BuildTree(sampleItems(), ViewByType)

	if len(root.Children) != 2 {
		t.Fatalf("expected 2 type groups, got %d", len(root.Children))
	}
	material := root.Children[0]
	if material.ItemName != "Material" || material.TargetCost != 15 || math.Abs(material.ActualCost-17) > tolerance {
		t.Errorf("material rollup wrong: %+v", material)
	}

	checkAdditivity(t, root)
}

func TestRootTotalsInvariantAcrossViews(t *testing.T) {
	items := sampleItems()
	byProcess := BuildTree(items, ViewByProcess)
	byType := BuildTree(items, ViewByType)

	if math.Abs(byProcess.TargetCost-byType.TargetCost) > tolerance {
		t.Errorf("root targets differ: %v vs %v", byProcess.TargetCost, byType.TargetCost)
	}
	if math.Abs(byProcess.ActualCost-byType.ActualCost) > tolerance {
		t.Errorf("root actuals differ: %v vs %v", byProcess.ActualCost, byType.ActualCost)
	}
	if math.Abs(byProcess.Variance-byType.Variance) > tolerance {
		t.Errorf("root variances differ: %v vs %v", byProcess.Variance, byType.Variance)
	}
}

func TestZeroTargetLeaf(t *testing.T) {
	items := []LineItem{
		{ItemName: "Rework", Process: "Assembly", Type: "Labor", TargetCost: 0, ActualCost: 10},
	}
	root := BuildTree(items, ViewByProcess)
	leaf := root.Children[0].Children[0]

	if leaf.Variance != 10 {
		t.Errorf("variance = %v, want 10", leaf.Variance)
	}
	if leaf.VariancePct != 0 {
		t.Errorf("variance_pct = %v, want 0 (zero target must not divide)", leaf.VariancePct)
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	root := BuildTree(nil, ViewByProcess)
	if root.TargetCost != 0 || root.ActualCost != 0 || len(root.Children) != 0 {
		t.Errorf("empty input must yield an empty zeroed root: %+v", root)
	}
}

func TestVariancePct(t *testing.T) {
	items := []LineItem{
		{ItemName: "Casting", Process: "Foundry", Type: "Material", TargetCost: 100, ActualCost: 110},
	}
	root := BuildTree(items, ViewByProcess)
	if math.Abs(root.VariancePct-10) > tolerance {
		t.Errorf("root variance_pct = %v, want 10", root.VariancePct)
	}
}
