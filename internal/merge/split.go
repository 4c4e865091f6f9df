package merge

import (
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/submerge-go/internal/document"
	"github.com/John-Robertt/submerge-go/internal/model"
)

// SplitPerProxy produces one single-node test configuration per proxy from
// the same template. Each output document holds exactly that one proxy, and
// every group's member list is rewritten to the recognized sentinel entries
// (DIRECT/REJECT/PASS) plus the new node's name — the template's other
// proxies and memberships are discarded on purpose.
//
// The template bytes are re-decoded per proxy; that is the deep copy.
func SplitPerProxy(source string, template []byte, proxies []model.Proxy) ([]*document.Document, error) {
	docs := make([]*document.Document, 0, len(proxies))
	for _, p := range proxies {
		doc, err := document.Load(source, template)
		if err != nil {
			return nil, err
		}

		seq, err := doc.EnsureSequence("proxies")
		if err != nil {
			return nil, err
		}
		seq.Content = []*yaml.Node{proxyNode(p)}

		groups, err := doc.EnsureSequence("proxy-groups")
		if err != nil {
			return nil, err
		}
		for _, g := range groups.Content {
			g = resolve(g)
			if g.Kind != yaml.MappingNode {
				continue
			}
			rewriteMembers(g, p.Name)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func rewriteMembers(group *yaml.Node, name string) {
	members := mapGet(group, "proxies")
	if members == nil || members.Kind != yaml.SequenceNode {
		return
	}
	kept := make([]*yaml.Node, 0, len(members.Content)+1)
	for _, n := range members.Content {
		if lo.Contains(model.SentinelMembers, resolve(n).Value) {
			kept = append(kept, n)
		}
	}
	members.Content = append(kept, strNode(name))
}
