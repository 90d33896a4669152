// Package refs attaches git references to laid out commits.
//
// References are only materialized once their target commit has a position:
// the Resolver waits on the store's placement futures and records the
// resulting Ref in a per-generation Registry.
package refs

import "strings"

// Type is the kind of a reference, derived from its name prefix.
type Type uint8

const (
	Unknown Type = iota
	LocalBranch
	Remote
	Tag
	Stash
)

var typeInfo = [...]struct {
	root   string
	label  string
	branch bool
}{
	Unknown:     {},
	LocalBranch: {root: "refs/heads", label: "branch", branch: true},
	Remote:      {root: "refs/remotes", label: "remote", branch: true},
	Tag:         {root: "refs/tags", label: "tag"},
	Stash:       {root: "refs/stash", label: "stash"},
}

// Types lists every known type in display order.
func Types() []Type {
	return []Type{LocalBranch, Remote, Tag, Stash}
}

// Classify returns the type of a fully qualified reference name. Prefixes are
// tried in display order.
func Classify(name string) (Type, bool) {
	for _, t := range Types() {
		root := t.Root()
		if name == root || strings.HasPrefix(name, root+"/") {
			return t, true
		}
	}
	return Unknown, false
}

// Root is the namespace of the type, e.g. "refs/heads".
func (t Type) Root() string {
	if int(t) >= len(typeInfo) {
		return ""
	}
	return typeInfo[t].root
}

// Prefix is Root with a trailing slash.
func (t Type) Prefix() string {
	if t == Unknown || int(t) >= len(typeInfo) {
		return ""
	}
	return typeInfo[t].root + "/"
}

// SimpleName is the last segment of Root, e.g. "heads".
func (t Type) SimpleName() string {
	root := t.Root()
	return root[strings.LastIndexByte(root, '/')+1:]
}

func (t Type) String() string {
	if t == Unknown || int(t) >= len(typeInfo) {
		return "unknown"
	}
	return typeInfo[t].label
}

// Order is the sort key of labels of this type; checked out references
// sort before every type.
func (t Type) Order() int {
	if int(t) >= len(typeInfo) {
		return 0
	}
	return int(t)
}

// IsBranch reports whether labels of this type take the commit's lane colour.
func (t Type) IsBranch() bool {
	if int(t) >= len(typeInfo) {
		return false
	}
	return typeInfo[t].branch
}

// OpKind is an operation triggered by dropping one reference on another.
type OpKind uint8

const (
	OpMerge OpKind = iota + 1
	OpPush
	OpPull
	OpApply
)

func (k OpKind) String() string {
	switch k {
	case OpMerge:
		return "merge"
	case OpPush:
		return "push"
	case OpPull:
		return "pull"
	case OpApply:
		return "apply"
	}
	return "unknown"
}

var applications = map[Type]map[Type]OpKind{
	LocalBranch: {LocalBranch: OpMerge, Remote: OpPush},
	Remote:      {LocalBranch: OpPull},
	Stash:       {LocalBranch: OpApply},
}

// Operation returns what dropping a reference of type from on one of type to
// does.
func Operation(from, to Type) (OpKind, bool) {
	op, ok := applications[from][to]
	return op, ok
}

// Applicable reports whether references of this type can be dropped at all.
func (t Type) Applicable() bool {
	return len(applications[t]) > 0
}

func (t Type) ApplicableTo(to Type) bool {
	_, ok := Operation(t, to)
	return ok
}

// ApplicableTypes lists the drop targets of t in display order.
func (t Type) ApplicableTypes() []Type {
	var out []Type
	for _, to := range Types() {
		if t.ApplicableTo(to) {
			out = append(out, to)
		}
	}
	return out
}
