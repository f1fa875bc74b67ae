package costtree

import "fmt"

// BuildTree folds flat line items into a three-level tree: root, one group
// node per distinct process (or cost type), and the leaf items in input
// order. Parent totals are always summed bottom-up from children, never read
// from input, so both views of the same leaf set produce identical root
// totals. The tree is rebuilt wholesale per request; nothing mutates nodes
// in place.
func BuildTree(items []LineItem, view View) *Node {
	root := &Node{
		ItemID:   "ROOT",
		ItemName: "Total Cost",
		Level:    1,
		Category: "Root",
	}

	groupPrefix := "PROC"
	if view == ViewByType {
		groupPrefix = "TYPE"
	}

	index := make(map[string]*Node)
	for _, item := range items {
		key := item.Process
		if view == ViewByType {
			key = item.Type
		}
		group, ok := index[key]
		if !ok {
			group = &Node{
				ItemID:    fmt.Sprintf("%s_%03d", groupPrefix, len(root.Children)+1),
				ItemName:  key,
				Level:     2,
				Category:  key,
				SortOrder: len(root.Children) + 1,
			}
			index[key] = group
			root.Children = append(root.Children, group)
		}

		leaf := &Node{
			ItemID:     fmt.Sprintf("%s_%03d", group.ItemID, len(group.Children)+1),
			ItemName:   item.ItemName,
			Level:      3,
			Category:   key,
			TargetCost: item.TargetCost,
			ActualCost: item.ActualCost,
			SortOrder:  len(group.Children) + 1,
		}
		finalize(leaf)
		group.Children = append(group.Children, leaf)
	}

	for _, group := range root.Children {
		rollup(group)
	}
	rollup(root)
	return root
}

// rollup sums a parent's totals from its children and recomputes variance.
func rollup(n *Node) {
	n.TargetCost, n.ActualCost = 0, 0
	for _, child := range n.Children {
		n.TargetCost += child.TargetCost
		n.ActualCost += child.ActualCost
	}
	finalize(n)
}

// finalize derives variance figures from a node's own totals. Zero target
// yields 0%, not infinity.
func finalize(n *Node) {
	n.Variance = n.ActualCost - n.TargetCost
	if n.TargetCost != 0 {
		n.VariancePct = n.Variance / n.TargetCost * 100
	} else {
		n.VariancePct = 0
	}
}
