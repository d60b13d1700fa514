package planner

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// References the executor knows how to resolve.
const (
	RefMasterPrivateIP = "master.private_ip"
	RefMasterPublicIP  = "master.public_ip"
	RefPeerCIDR        = "peer.cidr"
	RefPeerSubnets     = "peer.subnets"
	RefPeeringID       = "peering.id"
)

var knownRefs = []string{
	RefMasterPrivateIP,
	RefMasterPublicIP,
	RefPeerCIDR,
	RefPeerSubnets,
	RefPeeringID,
}

var refPattern = regexp.MustCompile(`\$\{ref:([A-Za-z0-9_.-]+)\}`)

// Value is either a literal or a reference resolved at execution time.
type Value struct {
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
	Ref     string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// Lit returns a literal value.
func Lit(s string) Value {
	return Value{Literal: s}
}

// RefTo returns a reference to a value resolved by the executor.
func RefTo(name string) Value {
	return Value{Ref: name}
}

// IsRef reports whether v is deferred.
func (v Value) IsRef() bool {
	return v.Ref != ""
}

// String returns the literal, or the placeholder form of a reference.
func (v Value) String() string {
	if v.IsRef() {
		return Placeholder(v.Ref)
	}
	return v.Literal
}

// Resolve returns the concrete value.
func (v Value) Resolve(values map[string]string) (string, error) {
	if !v.IsRef() {
		return v.Literal, nil
	}
	s, ok := values[v.Ref]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedReference, v.Ref)
	}
	return s, nil
}

// Placeholder is how a reference is embedded in command text.
func Placeholder(name string) string {
	return "${ref:" + name + "}"
}

// Refs returns the reference names embedded in s, in order of appearance.
func Refs(s string) []string {
	var refs []string
	for _, m := range refPattern.FindAllStringSubmatch(s, -1) {
		refs = append(refs, m[1])
	}
	return refs
}

// Substitute replaces every placeholder in s. Missing values are reported
// together.
func Substitute(s string, values map[string]string) (string, error) {
	var missing []string
	out := refPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := refPattern.FindStringSubmatch(m)[1]
		v, ok := values[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("%w: %s", ErrUnresolvedReference, joinUnique(missing))
	}
	return out, nil
}

func joinUnique(names []string) string {
	return strings.Join(slices.Compact(names), ", ")
}

func isKnownRef(name string) bool {
	return slices.Contains(knownRefs, name)
}
