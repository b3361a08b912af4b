package types

import "apibaseline/internal/version"

// Diff is one node of the comparison tree. OlderVersion is nil when the
// element only exists in the newer snapshot and NewerVersion is nil when it
// only exists in the older one.
type Diff struct {
	Type         ElementType      `yaml:"type" json:"type"`
	Name         string           `yaml:"name" json:"name"`
	Delta        Delta            `yaml:"delta" json:"delta"`
	OlderVersion *version.Version `yaml:"older_version,omitempty" json:"older_version,omitempty"`
	NewerVersion *version.Version `yaml:"newer_version,omitempty" json:"newer_version,omitempty"`
	Children     []Diff           `yaml:"children,omitempty" json:"children,omitempty"`
}

// Get returns the first child with the given name.
func (d *Diff) Get(name string) *Diff {
	for i := range d.Children {
		if d.Children[i].Name == name {
			return &d.Children[i]
		}
	}
	return nil
}

// Find returns the direct child identified by (elementType, name).
func (d *Diff) Find(elementType ElementType, name string) *Diff {
	for i := range d.Children {
		if d.Children[i].Type == elementType && d.Children[i].Name == name {
			return &d.Children[i]
		}
	}
	return nil
}

// Walk visits d and its descendants depth first in child order. Returning
// false from fn skips the children of the visited node.
func (d *Diff) Walk(fn func(node *Diff, depth int) bool) {
	d.walk(fn, 0)
}

func (d *Diff) walk(fn func(node *Diff, depth int) bool, depth int) {
	if !fn(d, depth) {
		return
	}
	for i := range d.Children {
		d.Children[i].walk(fn, depth+1)
	}
}
