package core

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"apibaseline/internal/shared"
	"apibaseline/internal/types"
	"apibaseline/internal/version"
)

type DiffOptions struct {
	Policy PolicyTable
	// Parallelism bounds the sibling comparisons run at once per node.
	// Values below 2 compare sequentially.
	Parallelism int
}

// Differ builds Diff trees from two snapshots of the same API surface.
type Differ struct {
	policy      PolicyTable
	parallelism int
}

func NewDiffer(opts DiffOptions) Differ {
	policy := opts.Policy
	if policy.Attributes == nil && policy.Modifiers == nil && policy.TypeAttributes == nil {
		policy = DefaultPolicy()
	}
	return Differ{policy: policy, parallelism: opts.Parallelism}
}

// Diff compares older against newer. Both snapshots are validated first and
// their roots must share a type; no tree is returned on failure.
func (d Differ) Diff(ctx context.Context, older types.Element, newer types.Element) (types.Diff, error) {
	if err := ValidateSnapshot(ctx, older); err != nil {
		return types.Diff{}, err
	}
	if err := ValidateSnapshot(ctx, newer); err != nil {
		return types.Diff{}, err
	}
	if older.Type != newer.Type {
		return types.Diff{}, shared.InvalidComparison("root types differ: %s vs %s", older.Type, newer.Type)
	}
	root, err := d.compare(ctx, nil, &older, &newer, nil, nil)
	if err != nil {
		return types.Diff{}, err
	}
	nodes := 0
	root.Walk(func(*types.Diff, int) bool {
		nodes++
		return true
	})
	log.Ctx(ctx).Debug().
		Str("name", root.Name).
		Str("delta", string(root.Delta)).
		Int("nodes", nodes).
		Msg("diff completed")
	return root, nil
}

type elementPair struct {
	older *types.Element
	newer *types.Element
}

// compare diffs one pair of elements. Either side may be nil, in which case
// the present side is materialised as ADDED or REMOVED. parent is the newer
// enclosing element.
func (d Differ) compare(ctx context.Context, parent *types.Element, older *types.Element, newer *types.Element, olderInherited *version.Version, newerInherited *version.Version) (types.Diff, error) {
	if err := ctx.Err(); err != nil {
		return types.Diff{}, err
	}
	if older == nil {
		return materialise(*newer, types.DeltaAdded, newerInherited), nil
	}
	if newer == nil {
		return materialise(*older, types.DeltaRemoved, olderInherited), nil
	}
	assert.NotEmpty(ctx, newer.Name, "element name must be set after validation")
	assert.NotEmpty(ctx, string(newer.Type), "element type must be set after validation")

	olderVersion := declaredVersion(*older, olderInherited)
	newerVersion := declaredVersion(*newer, newerInherited)
	pairs := pairChildren(older.Children, newer.Children)
	children, err := d.compareChildren(ctx, newer, pairs, olderVersion, newerVersion)
	if err != nil {
		return types.Diff{}, err
	}

	delta := types.DeltaUnchanged
	for i, child := range children {
		contribution := child.Delta
		if child.Delta == types.DeltaAdded {
			contribution = d.policy.Addition(*newer, *pairs[i].newer)
		}
		delta = Aggregate(delta, contribution)
	}
	delta = Aggregate(delta, d.policy.Classify(parent, *older, *newer))

	return types.Diff{
		Type:         newer.Type,
		Name:         newer.Name,
		Delta:        delta,
		OlderVersion: olderVersion,
		NewerVersion: newerVersion,
		Children:     children,
	}, nil
}

// compareChildren fans the child comparisons out and joins them before the
// parent aggregates. Results keep the pair order.
func (d Differ) compareChildren(ctx context.Context, parent *types.Element, pairs []elementPair, olderVersion *version.Version, newerVersion *version.Version) ([]types.Diff, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	children := make([]types.Diff, len(pairs))
	if d.parallelism < 2 || len(pairs) < 2 {
		for i, pair := range pairs {
			child, err := d.compare(ctx, parent, pair.older, pair.newer, olderVersion, newerVersion)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return children, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(d.parallelism)
	for i, pair := range pairs {
		g.Go(func() error {
			child, err := d.compare(gCtx, parent, pair.older, pair.newer, olderVersion, newerVersion)
			if err != nil {
				return err
			}
			children[i] = child
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return children, nil
}

// pairChildren matches children by identity: newer order first, then the
// identities only present in older, in older order.
func pairChildren(older []types.Element, newer []types.Element) []elementPair {
	olderByID := make(map[types.Identity]int, len(older))
	for i := range older {
		olderByID[older[i].Identity()] = i
	}
	pairs := make([]elementPair, 0, len(newer)+len(older))
	matched := make(map[types.Identity]struct{}, len(newer))
	for i := range newer {
		pair := elementPair{newer: &newer[i]}
		if j, ok := olderByID[newer[i].Identity()]; ok {
			pair.older = &older[j]
			matched[newer[i].Identity()] = struct{}{}
		}
		pairs = append(pairs, pair)
	}
	for i := range older {
		if _, ok := matched[older[i].Identity()]; ok {
			continue
		}
		pairs = append(pairs, elementPair{older: &older[i]})
	}
	return pairs
}

// materialise renders a one-sided subtree with every node carrying delta.
func materialise(element types.Element, delta types.Delta, inherited *version.Version) types.Diff {
	v := declaredVersion(element, inherited)
	node := types.Diff{
		Type:  element.Type,
		Name:  element.Name,
		Delta: delta,
	}
	if delta == types.DeltaAdded {
		node.NewerVersion = v
	} else {
		node.OlderVersion = v
	}
	if len(element.Children) > 0 {
		node.Children = make([]types.Diff, 0, len(element.Children))
		for _, child := range element.Children {
			node.Children = append(node.Children, materialise(child, delta, v))
		}
	}
	return node
}

// declaredVersion returns the element's own version, or the nearest
// ancestor's when it declares none.
func declaredVersion(element types.Element, inherited *version.Version) *version.Version {
	if element.Version == "" {
		return inherited
	}
	v, err := version.Parse(element.Version)
	if err != nil {
		return inherited
	}
	return &v
}
