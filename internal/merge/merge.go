// Package merge inserts decoded proxy records into a loaded Clash
// configuration document. Only the proxies and proxy-groups subtrees are
// touched; everything else in the document is left as loaded.
package merge

import (
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/submerge-go/internal/document"
	"github.com/John-Robertt/submerge-go/internal/model"
)

type Options struct {
	// AddToSpeedtest inserts new node names into every url-test, fallback
	// and load-balance group.
	AddToSpeedtest bool
	// AddToManual inserts new node names into every select group.
	AddToManual bool
}

// Merge appends proxies to the document's proxies sequence (created when
// absent) and, flag-dependent, their names to eligible groups. Duplicate
// names already present in a group are not appended again. Groups whose
// proxies field is missing or not a sequence are skipped.
func Merge(doc *document.Document, proxies []model.Proxy, opt Options) error {
	seq, err := doc.EnsureSequence("proxies")
	if err != nil {
		return err
	}
	for _, p := range proxies {
		seq.Content = append(seq.Content, proxyNode(p))
	}

	if !opt.AddToSpeedtest && !opt.AddToManual {
		return nil
	}

	groups, err := doc.Sequence("proxy-groups")
	if err != nil {
		return err
	}
	if groups == nil {
		return nil
	}

	names := lo.Map(proxies, func(p model.Proxy, _ int) string { return p.Name })
	for _, g := range groups.Content {
		g = resolve(g)
		if g.Kind != yaml.MappingNode {
			continue
		}
		typ := strings.ToLower(mapGetString(g, "type"))
		eligible := (opt.AddToSpeedtest && model.SpeedtestEligible(typ)) ||
			(opt.AddToManual && model.ManualEligible(typ))
		if !eligible {
			continue
		}
		appendMembers(g, names)
	}
	return nil
}

func appendMembers(group *yaml.Node, names []string) {
	members := mapGet(group, "proxies")
	if members == nil || members.Kind != yaml.SequenceNode {
		return
	}
	current := make([]string, 0, len(members.Content))
	for _, n := range members.Content {
		current = append(current, resolve(n).Value)
	}
	for _, name := range names {
		if lo.Contains(current, name) {
			continue
		}
		members.Content = append(members.Content, strNode(name))
		current = append(current, name)
	}
}
