// Package hierarchy holds the pure parts of the project/task forest logic:
// subtree traversal over a children relation and the state aggregation rule.
// It does no I/O of its own; callers pass the children lookup.
package hierarchy

import "context"

// ChildrenFunc returns the direct children of a node.
type ChildrenFunc[K comparable] func(ctx context.Context, parent K) ([]K, error)

// Descendants returns every node below root in breadth-first order, root
// excluded. A node reachable twice (cyclic data) is reported once.
func Descendants[K comparable](ctx context.Context, root K, children ChildrenFunc[K]) ([]K, error) {
	all, err := Subtree(ctx, root, children)
	if err != nil {
		return nil, err
	}
	return all[1:], nil
}

// Subtree returns root followed by every node below it, breadth-first.
func Subtree[K comparable](ctx context.Context, root K, children ChildrenFunc[K]) ([]K, error) {
	visited := map[K]bool{root: true}
	out := []K{root}
	for i := 0; i < len(out); i++ {
		kids, err := children(ctx, out[i])
		if err != nil {
			return nil, err
		}
		for _, k := range kids {
			if visited[k] {
				continue
			}
			visited[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}

// PostOrder calls visit for every node of the subtree rooted at root,
// children before their parent, root last. Sibling order follows children.
func PostOrder[K comparable](ctx context.Context, root K, children ChildrenFunc[K], visit func(ctx context.Context, node K) error) error {
	visited := map[K]bool{}
	var walk func(node K) error
	walk = func(node K) error {
		visited[node] = true
		kids, err := children(ctx, node)
		if err != nil {
			return err
		}
		for _, k := range kids {
			if visited[k] {
				continue
			}
			if err := walk(k); err != nil {
				return err
			}
		}
		return visit(ctx, node)
	}
	return walk(root)
}
