// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"maps"
	"strings"

	"github.com/pdiddy/company-lens/pkg/types"
)

// DefaultMaxDepth bounds recursive PSC expansion.
const DefaultMaxDepth = 3

// NodeKind classifies an ownership tree node.
type NodeKind string

const (
	NodeIndividual  NodeKind = "individual"
	NodeCorporate   NodeKind = "corporate"
	NodeLegalPerson NodeKind = "legal_person"
)

// UntraceableReason says why a branch could not be expanded further.
type UntraceableReason string

const (
	UntraceableCyclic        UntraceableReason = "cyclic"
	UntraceableDepthExceeded UntraceableReason = "depth_exceeded"
	UntraceableFetchFailed   UntraceableReason = "fetch_failed"
)

// OwnershipNode is one controller in the ownership tree.
type OwnershipNode struct {
	Name             string
	Kind             NodeKind
	NaturesOfControl []string

	// Depth is the layer the controller was discovered at; the target
	// company's direct PSCs sit at depth 0.
	Depth int

	// RegistrationNumber and Jurisdiction are set for corporate controllers.
	RegistrationNumber string
	Jurisdiction       string

	// Foreign marks a corporate controller registered outside this registry's
	// jurisdiction; such controllers are never expanded.
	Foreign bool

	// Nationality is set for individual controllers.
	Nationality string

	// Untraceable is non-empty when the branch below this controller could
	// not be expanded.
	Untraceable UntraceableReason

	Children []OwnershipNode
}

// OwnershipTree is the traced control structure above one company.
type OwnershipTree struct {
	CompanyNumber string
	Nodes         []OwnershipNode
}

// OwnershipSummary aggregates the whole tree for the ownership-clarity
// evaluator.
type OwnershipSummary struct {
	Individuals     int
	CorporateLayers int
	Trusts          int
	ForeignEntities []string
	Untraceable     bool
	MaxDepth        int
}

// PSCFetcher retrieves the active PSCs of one company. A nil slice with a
// nil error means the company simply has no registered PSCs.
type PSCFetcher func(ctx context.Context, companyNumber string) ([]types.PSC, error)

// TraceOwnership recursively expands the PSC chain above companyNumber.
// Corporate PSCs registered in the same jurisdiction are expanded by calling
// fetch again; individuals and legal persons are always leaves; foreign
// corporate controllers are leaves regardless of remaining depth. The
// visited set is copied down each branch so sibling branches stay
// independent, and no company identifier is revisited on one path. A fetch
// failure below the root becomes an untraceable leaf without disturbing
// sibling branches; only a root fetch failure is returned as an error.
func TraceOwnership(ctx context.Context, companyNumber string, fetch PSCFetcher, maxDepth int) (*OwnershipTree, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	visited := map[string]bool{companyNumber: true}
	pscs, err := fetch(ctx, companyNumber)
	if err != nil {
		return nil, err
	}
	return &OwnershipTree{
		CompanyNumber: companyNumber,
		Nodes:         expand(ctx, pscs, fetch, 0, maxDepth, visited),
	}, nil
}

// expand converts one company's PSC list into nodes at the given depth,
// recursing into traceable corporate controllers.
func expand(ctx context.Context, pscs []types.PSC, fetch PSCFetcher, depth, maxDepth int, visited map[string]bool) []OwnershipNode {
	var nodes []OwnershipNode
	for _, psc := range pscs {
		if !psc.IsActive() {
			continue
		}

		node := OwnershipNode{
			Name:             psc.Name,
			NaturesOfControl: psc.NaturesOfControl,
			Depth:            depth,
		}

		switch {
		case psc.IsIndividual():
			node.Kind = NodeIndividual
			node.Nationality = psc.Nationality

		case psc.IsLegalPerson():
			node.Kind = NodeLegalPerson

		case psc.IsCorporate():
			node.Kind = NodeCorporate
			node.RegistrationNumber = psc.Identification.RegistrationNumber
			node.Jurisdiction = strings.TrimSpace(
				psc.Identification.PlaceRegistered + " " + psc.Identification.CountryRegistered)

			reg := psc.Identification.RegistrationNumber
			if !sameJurisdiction(psc.Identification) {
				node.Foreign = true
				break
			}
			if visited[reg] {
				node.Untraceable = UntraceableCyclic
				break
			}
			if depth+1 >= maxDepth {
				node.Untraceable = UntraceableDepthExceeded
				break
			}

			branchVisited := maps.Clone(visited)
			branchVisited[reg] = true

			subPSCs, err := fetch(ctx, reg)
			if err != nil {
				node.Untraceable = UntraceableFetchFailed
				break
			}
			node.Children = expand(ctx, subPSCs, fetch, depth+1, maxDepth, branchVisited)

		default:
			// Unknown kind: keep the record but never expand it.
			node.Kind = NodeLegalPerson
		}

		nodes = append(nodes, node)
	}
	return nodes
}

// sameJurisdiction reports whether a corporate controller is registered
// with this registry and can therefore be expanded. An eight-digit numeric
// registration number is accepted even when the place fields are sloppy,
// which they often are.
func sameJurisdiction(id types.PSCIdentification) bool {
	if id.RegistrationNumber == "" {
		return false
	}
	place := strings.ToLower(id.PlaceRegistered)
	country := strings.ToLower(id.CountryRegistered)
	switch {
	case strings.Contains(place, "england"),
		strings.Contains(place, "wales"),
		strings.Contains(place, "scotland"),
		strings.Contains(place, "companies house"),
		strings.Contains(country, "united kingdom"),
		strings.Contains(country, "england"):
		return true
	}
	return isEightDigit(id.RegistrationNumber)
}

func isEightDigit(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Summary walks the tree and aggregates the counts the ownership-clarity
// evaluator needs.
func (t *OwnershipTree) Summary() OwnershipSummary {
	var s OwnershipSummary
	summarize(t.Nodes, &s)
	return s
}

func summarize(nodes []OwnershipNode, s *OwnershipSummary) {
	for _, n := range nodes {
		if n.Depth > s.MaxDepth {
			s.MaxDepth = n.Depth
		}
		switch n.Kind {
		case NodeIndividual:
			s.Individuals++
		case NodeLegalPerson:
			s.Trusts++
		case NodeCorporate:
			if n.Foreign {
				s.ForeignEntities = append(s.ForeignEntities, n.Name)
			} else {
				s.CorporateLayers++
			}
		}
		if n.Untraceable != "" {
			s.Untraceable = true
		}
		summarize(n.Children, s)
	}
}
