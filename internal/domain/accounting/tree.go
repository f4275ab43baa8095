package accounting

import (
	"sort"

	"github.com/google/uuid"
)

// TreeNode is a group with its nested children and, for detailed groups,
// its accounts.
type TreeNode struct {
	Group    Group
	Children []*TreeNode
	Accounts []Account
}

// BuildTree assembles the tenant's groups and accounts into a forest of
// main groups. Nodes whose parent is missing from the input are dropped,
// as are accounts pointing at an unknown detailed group.
func BuildTree(groups []Group, accounts []Account) []*TreeNode {
	nodes := make(map[uuid.UUID]*TreeNode, len(groups))
	for i := range groups {
		nodes[groups[i].ID] = &TreeNode{Group: groups[i]}
	}

	roots := make([]*TreeNode, 0)
	for _, level := range GroupLevels() {
		for i := range groups {
			g := &groups[i]
			if g.Level != level {
				continue
			}
			node := nodes[g.ID]
			if g.ParentID == nil {
				if g.Level == LevelMain {
					roots = append(roots, node)
				}
				continue
			}
			parent, ok := nodes[*g.ParentID]
			if !ok {
				continue
			}
			parent.Children = append(parent.Children, node)
		}
	}

	for i := range accounts {
		if node, ok := nodes[accounts[i].DetailedGroupID]; ok && node.Group.Level == LevelDetailed {
			node.Accounts = append(node.Accounts, accounts[i])
		}
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Group.Code < nodes[j].Group.Code
	})
	for _, n := range nodes {
		sortNodes(n.Children)
		sort.SliceStable(n.Accounts, func(i, j int) bool {
			return n.Accounts[i].AccountName < n.Accounts[j].AccountName
		})
	}
}
