package core

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apibaseline/internal/shared"
	"apibaseline/internal/types"
	"apibaseline/internal/version"
)

var versionComparer = cmp.Comparer(func(a, b version.Version) bool {
	return a.Equal(b)
})

func element(elementType types.ElementType, name string, children ...types.Element) types.Element {
	return types.Element{Type: elementType, Name: name, Children: children}
}

func withVersion(e types.Element, v string) types.Element {
	e.Version = v
	return e
}

func withAttrs(e types.Element, kv ...string) types.Element {
	e.Attributes = map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Attributes[kv[i]] = kv[i+1]
	}
	return e
}

func withModifiers(e types.Element, modifiers ...string) types.Element {
	e.Modifiers = modifiers
	return e
}

func method(name string, returns string) types.Element {
	return withAttrs(element(types.ElementMethod, name), types.AttributeReturn, returns)
}

func bundleWithClass(bundleVersion string, members ...types.Element) types.Element {
	return withVersion(element(types.ElementBundle, "com.acme.api",
		element(types.ElementPackage, "com.acme.api",
			element(types.ElementClass, "com.acme.api.Foo", members...),
		),
	), bundleVersion)
}

func diff(t *testing.T, older types.Element, newer types.Element) types.Diff {
	t.Helper()
	d, err := NewDiffer(DiffOptions{}).Diff(t.Context(), older, newer)
	require.NoError(t, err)
	return d
}

// ----------------------------------------------------------------------------
// Scenarios
// ----------------------------------------------------------------------------

func TestDiffRemovedMethodIsMajor(t *testing.T) {
	older := bundleWithClass("1.0.0", method("foo()", "int"))
	newer := bundleWithClass("1.1.0")

	root := diff(t, older, newer)

	assert.Equal(t, types.DeltaMajor, root.Delta)
	pkg := root.Find(types.ElementPackage, "com.acme.api")
	require.NotNil(t, pkg)
	assert.Equal(t, types.DeltaMajor, pkg.Delta)
	removed := pkg.Get("com.acme.api.Foo").Get("foo()")
	require.NotNil(t, removed)
	assert.Equal(t, types.DeltaRemoved, removed.Delta)
	require.NotNil(t, removed.OlderVersion)
	assert.Equal(t, "1.0.0", removed.OlderVersion.String())
	assert.Nil(t, removed.NewerVersion)
}

func TestDiffAddedMethodIsMinor(t *testing.T) {
	older := bundleWithClass("1.0.0")
	newer := bundleWithClass("1.1.0", method("bar()", "void"))

	root := diff(t, older, newer)

	assert.Equal(t, types.DeltaMinor, root.Delta)
	added := root.Get("com.acme.api").Get("com.acme.api.Foo").Get("bar()")
	require.NotNil(t, added)
	assert.Equal(t, types.DeltaAdded, added.Delta)
	assert.Nil(t, added.OlderVersion)
	require.NotNil(t, added.NewerVersion)
	assert.Equal(t, "1.1.0", added.NewerVersion.String())
}

func TestDiffIdenticalSnapshotsAreUnchanged(t *testing.T) {
	snapshot := bundleWithClass("1.0.0", method("foo()", "int"), withAttrs(element(types.ElementField, "count"), types.AttributeType, "long"))
	root := diff(t, snapshot, snapshot)
	root.Walk(func(node *types.Diff, _ int) bool {
		assert.Equal(t, types.DeltaUnchanged, node.Delta, "node %s", node.Name)
		return true
	})
}

// ----------------------------------------------------------------------------
// Policy table
// ----------------------------------------------------------------------------

func TestDiffAttributeSeverities(t *testing.T) {
	tests := []struct {
		name  string
		older types.Element
		newer types.Element
		want  types.Delta
	}{
		{
			name:  "return type change",
			older: method("foo()", "int"),
			newer: method("foo()", "long"),
			want:  types.DeltaMajor,
		},
		{
			name:  "doc change",
			older: withAttrs(element(types.ElementMethod, "foo()"), types.AttributeDoc, "a"),
			newer: withAttrs(element(types.ElementMethod, "foo()"), types.AttributeDoc, "b"),
			want:  types.DeltaMicro,
		},
		{
			name:  "unknown attribute",
			older: withAttrs(element(types.ElementMethod, "foo()"), "line", "10"),
			newer: withAttrs(element(types.ElementMethod, "foo()"), "line", "12"),
			want:  types.DeltaChanged,
		},
		{
			name:  "constant value",
			older: withAttrs(element(types.ElementConstant, "MAX"), types.AttributeValue, "1"),
			newer: withAttrs(element(types.ElementConstant, "MAX"), types.AttributeValue, "2"),
			want:  types.DeltaMajor,
		},
		{
			name:  "throws gained",
			older: element(types.ElementMethod, "foo()"),
			newer: withAttrs(element(types.ElementMethod, "foo()"), types.AttributeThrows, "java.io.IOException"),
			want:  types.DeltaMinor,
		},
		{
			name:  "static added",
			older: element(types.ElementMethod, "foo()"),
			newer: withModifiers(element(types.ElementMethod, "foo()"), types.ModifierStatic),
			want:  types.DeltaMajor,
		},
		{
			name:  "final removed",
			older: withModifiers(element(types.ElementMethod, "foo()"), types.ModifierFinal),
			newer: element(types.ElementMethod, "foo()"),
			want:  types.DeltaMinor,
		},
		{
			name:  "deprecated",
			older: element(types.ElementMethod, "foo()"),
			newer: withModifiers(element(types.ElementMethod, "foo()"), types.ModifierDeprecated),
			want:  types.DeltaMicro,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := diff(t, bundleWithClass("1.0.0", tt.older), bundleWithClass("1.0.0", tt.newer))
			member := root.Get("com.acme.api").Get("com.acme.api.Foo").Get(tt.older.Name)
			require.NotNil(t, member)
			assert.Equal(t, tt.want, member.Delta)
			assert.Equal(t, tt.want, root.Delta)
		})
	}
}

func TestDiffFinalIgnoredOnMembersOfFinalClass(t *testing.T) {
	finalClass := func(members ...types.Element) types.Element {
		return element(types.ElementBundle, "b",
			element(types.ElementPackage, "p",
				withModifiers(element(types.ElementClass, "p.C", members...), types.ModifierFinal),
			),
		)
	}
	older := finalClass(element(types.ElementMethod, "m()"))
	newer := finalClass(withModifiers(element(types.ElementMethod, "m()"), types.ModifierFinal))

	root := diff(t, older, newer)
	assert.Equal(t, types.DeltaUnchanged, root.Delta)
}

func TestDiffAdditionOverrides(t *testing.T) {
	tests := []struct {
		name   string
		parent types.Element
		added  types.Element
		want   types.Delta
	}{
		{
			name:   "method on consumer interface",
			parent: element(types.ElementInterface, "p.Listener"),
			added:  method("onEvent()", "void"),
			want:   types.DeltaMajor,
		},
		{
			name:   "default method on consumer interface",
			parent: element(types.ElementInterface, "p.Listener"),
			added:  withModifiers(method("onEvent()", "void"), types.ModifierDefault),
			want:   types.DeltaMinor,
		},
		{
			name:   "method on provider interface",
			parent: types.Element{Type: types.ElementInterface, Name: "p.Service", Provider: true},
			added:  method("lookup()", "java.lang.Object"),
			want:   types.DeltaMinor,
		},
		{
			name:   "abstract method on class",
			parent: element(types.ElementClass, "p.Base"),
			added:  withModifiers(method("run()", "void"), types.ModifierAbstract),
			want:   types.DeltaMajor,
		},
		{
			name:   "annotation element without default",
			parent: element(types.ElementAnnotation, "p.Marker"),
			added:  method("value()", "java.lang.String"),
			want:   types.DeltaMajor,
		},
		{
			name:   "annotation element with default",
			parent: element(types.ElementAnnotation, "p.Marker"),
			added:  withAttrs(method("value()", "java.lang.String"), types.AttributeReturn, "java.lang.String", types.AttributeDefault, "\"\""),
			want:   types.DeltaMinor,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			older := element(types.ElementBundle, "b", element(types.ElementPackage, "p", tt.parent))
			grown := tt.parent
			grown.Children = []types.Element{tt.added}
			newer := element(types.ElementBundle, "b", element(types.ElementPackage, "p", grown))

			root := diff(t, older, newer)

			assert.Equal(t, tt.want, root.Delta)
			member := root.Get("p").Get(tt.parent.Name).Get(tt.added.Name)
			require.NotNil(t, member)
			assert.Equal(t, types.DeltaAdded, member.Delta)
		})
	}
}

// ----------------------------------------------------------------------------
// Tree shape
// ----------------------------------------------------------------------------

func TestDiffChildOrder(t *testing.T) {
	older := element(types.ElementBundle, "b",
		element(types.ElementPackage, "gone.one"),
		element(types.ElementPackage, "kept"),
		element(types.ElementPackage, "gone.two"),
	)
	newer := element(types.ElementBundle, "b",
		element(types.ElementPackage, "fresh"),
		element(types.ElementPackage, "kept"),
	)

	root := diff(t, older, newer)

	var got []string
	for _, child := range root.Children {
		got = append(got, child.Name+"="+string(child.Delta))
	}
	want := []string{"fresh=ADDED", "kept=UNCHANGED", "gone.one=REMOVED", "gone.two=REMOVED"}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("unexpected child order (-want +got):\n%s", d)
	}
}

func TestDiffMaterialisesAddedSubtree(t *testing.T) {
	older := element(types.ElementBundle, "b")
	newer := element(types.ElementBundle, "b",
		withVersion(element(types.ElementPackage, "p",
			element(types.ElementClass, "p.C", method("m()", "void")),
		), "2.1.0"),
	)

	root := diff(t, older, newer)

	depth := 0
	root.Children[0].Walk(func(node *types.Diff, d int) bool {
		assert.Equal(t, types.DeltaAdded, node.Delta, "node %s", node.Name)
		require.NotNil(t, node.NewerVersion)
		assert.Equal(t, "2.1.0", node.NewerVersion.String())
		depth = max(depth, d)
		return true
	})
	assert.Equal(t, 2, depth)
}

func TestDiffParallelMatchesSequential(t *testing.T) {
	var olderPkgs, newerPkgs []types.Element
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		olderPkgs = append(olderPkgs, element(types.ElementPackage, name,
			element(types.ElementClass, name+".C", method("x()", "int"), method("y()", "int")),
		))
		newerPkgs = append(newerPkgs, element(types.ElementPackage, name,
			element(types.ElementClass, name+".C", method("x()", "long"), method("z()", "int")),
		))
	}
	older := element(types.ElementBundle, "bundle", olderPkgs...)
	newer := element(types.ElementBundle, "bundle", newerPkgs...)

	sequential, err := NewDiffer(DiffOptions{}).Diff(t.Context(), older, newer)
	require.NoError(t, err)
	parallel, err := NewDiffer(DiffOptions{Parallelism: 4}).Diff(t.Context(), older, newer)
	require.NoError(t, err)

	if d := cmp.Diff(sequential, parallel, versionComparer); d != "" {
		t.Fatalf("parallel diff differs (-sequential +parallel):\n%s", d)
	}
}

func TestDiffSymmetry(t *testing.T) {
	older := withVersion(element(types.ElementBundle, "b",
		element(types.ElementPackage, "p",
			element(types.ElementClass, "p.C", method("a()", "int"), method("b()", "int"),
				withAttrs(element(types.ElementField, "f"), types.AttributeType, "int", types.AttributeDoc, "x")),
			element(types.ElementClass, "p.Old"),
		),
		element(types.ElementPackage, "q", element(types.ElementClass, "q.D", method("d()", "void"))),
	), "1.0.0")
	newer := withVersion(element(types.ElementBundle, "b",
		element(types.ElementPackage, "p",
			element(types.ElementClass, "p.C", method("a()", "long"), method("c()", "int"),
				withAttrs(element(types.ElementField, "f"), types.AttributeType, "int", types.AttributeDoc, "y")),
		),
		element(types.ElementPackage, "q", element(types.ElementClass, "q.D", method("d()", "void"))),
		element(types.ElementPackage, "r"),
	), "2.0.0")

	forward := deltasByPath(diff(t, older, newer))
	backward := deltasByPath(diff(t, newer, older))

	require.Len(t, backward, len(forward))
	for path, node := range forward {
		reverse, ok := backward[path]
		require.True(t, ok, "missing %s in reversed diff", path)
		switch node.delta {
		case types.DeltaAdded:
			assert.Equal(t, types.DeltaRemoved, reverse.delta, path)
		case types.DeltaRemoved:
			assert.Equal(t, types.DeltaAdded, reverse.delta, path)
		default:
			if !node.structural {
				assert.Equal(t, node.delta, reverse.delta, path)
			}
		}
	}
	assert.Equal(t, types.DeltaMicro, forward["bundle:b/package:p/class:p.C/field:f"].delta)
	assert.Equal(t, types.DeltaUnchanged, forward["bundle:b/package:q"].delta)
}

// Modifier severities are keyed on direction, so reversing a comparison
// changes the delta of a matched element whose only difference is a
// modifier. Symmetric entries keep their delta.
func TestDiffModifierSeverityDependsOnDirection(t *testing.T) {
	tests := []struct {
		modifier string
		forward  types.Delta
		backward types.Delta
	}{
		{modifier: types.ModifierPublic, forward: types.DeltaMinor, backward: types.DeltaMajor},
		{modifier: types.ModifierFinal, forward: types.DeltaMajor, backward: types.DeltaMinor},
		{modifier: types.ModifierStatic, forward: types.DeltaMajor, backward: types.DeltaMajor},
		{modifier: types.ModifierDeprecated, forward: types.DeltaMicro, backward: types.DeltaMicro},
	}
	for _, tt := range tests {
		t.Run(tt.modifier, func(t *testing.T) {
			plain := bundleWithClass("1.0.0", method("m()", "int"))
			modified := bundleWithClass("1.0.0", withModifiers(method("m()", "int"), tt.modifier))
			path := "bundle:com.acme.api/package:com.acme.api/class:com.acme.api.Foo/method:m()"

			forward := deltasByPath(diff(t, plain, modified))
			backward := deltasByPath(diff(t, modified, plain))

			assert.Equal(t, tt.forward, forward[path].delta, "modifier added")
			assert.Equal(t, tt.backward, backward[path].delta, "modifier removed")
			assert.Equal(t, tt.forward == tt.backward, forward[path].delta == backward[path].delta)
		})
	}
}

type pathDelta struct {
	delta types.Delta
	// structural is set when the subtree holds additions or removals, whose
	// contribution to ancestors depends on the comparison direction.
	structural bool
}

func deltasByPath(root types.Diff) map[string]pathDelta {
	out := map[string]pathDelta{}
	var visit func(node types.Diff, prefix string) bool
	visit = func(node types.Diff, prefix string) bool {
		path := prefix + string(node.Type) + ":" + node.Name
		structural := node.Delta.Absolute()
		for _, child := range node.Children {
			if visit(child, path+"/") {
				structural = true
			}
		}
		out[path] = pathDelta{delta: node.Delta, structural: structural}
		return structural
	}
	visit(root, "")
	return out
}

// ----------------------------------------------------------------------------
// Failures
// ----------------------------------------------------------------------------

func TestDiffRejectsInvalidInput(t *testing.T) {
	valid := bundleWithClass("1.0.0")
	tests := []struct {
		name  string
		older types.Element
		newer types.Element
		check func(error) bool
		msg   string
	}{
		{
			name:  "mismatched roots",
			older: valid,
			newer: element(types.ElementPackage, "com.acme.api"),
			check: shared.IsInvalidComparison,
			msg:   "root types differ",
		},
		{
			name:  "missing name",
			older: valid,
			newer: element(types.ElementBundle, "b", element(types.ElementPackage, "")),
			check: shared.IsInvalidComparison,
			msg:   "has no name",
		},
		{
			name:  "missing type",
			older: element(types.ElementBundle, "b", types.Element{Name: "x"}),
			newer: valid,
			check: shared.IsInvalidComparison,
			msg:   "has no type",
		},
		{
			name:  "unknown type",
			older: element(types.ElementBundle, "b", element("module", "x")),
			newer: valid,
			check: shared.IsInvalidComparison,
			msg:   "unknown type",
		},
		{
			name:  "duplicate sibling",
			older: element(types.ElementBundle, "b", element(types.ElementPackage, "p"), element(types.ElementPackage, "p")),
			newer: valid,
			check: shared.IsInvalidComparison,
			msg:   "duplicate element package:p",
		},
		{
			name:  "malformed version",
			older: withVersion(element(types.ElementBundle, "b"), "1.x"),
			newer: valid,
			check: shared.IsMalformedVersion,
			msg:   "bundle:b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDiffer(DiffOptions{}).Diff(t.Context(), tt.older, tt.newer)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			assert.True(t, strings.Contains(err.Error(), tt.msg), "error %q should mention %q", err.Error(), tt.msg)
		})
	}
}

func TestDiffHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := NewDiffer(DiffOptions{Parallelism: 2}).Diff(ctx, bundleWithClass("1.0.0"), bundleWithClass("1.0.0"))
	require.ErrorIs(t, err, context.Canceled)
}
