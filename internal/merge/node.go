package merge

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(n int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}
}

func boolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func mapPut(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, strNode(key), value)
}

// mapGet scans a mapping node for a key, resolving aliases on both sides.
func mapGet(m *yaml.Node, key string) *yaml.Node {
	c := m.Content
	for i := 0; i+1 < len(c); i += 2 {
		if resolve(c[i]).Value == key {
			return resolve(c[i+1])
		}
	}
	return nil
}

func mapGetString(m *yaml.Node, key string) string {
	if n := mapGet(m, key); n != nil && n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return ""
}

func resolve(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}
