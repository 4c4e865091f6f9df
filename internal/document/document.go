// Package document wraps the YAML engine behind a small load / get-subtree /
// ensure-subtree / encode surface so the merge algorithm never touches
// gopkg.in/yaml.v3 node plumbing directly. Working on the node tree (instead
// of map[string]any) is what keeps key order and comments of the loaded
// configuration intact across a merge.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/John-Robertt/submerge-go/internal/model"
	"gopkg.in/yaml.v3"
)

type DocError struct {
	AppError model.AppError
	Cause    error
}

func (e *DocError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *DocError) Unwrap() error { return e.Cause }

// Document is one loaded YAML configuration. The root is always a mapping.
type Document struct {
	source string
	root   *yaml.Node
}

// Load decodes a single-document YAML mapping. Empty and null input yield an
// empty mapping document; multi-document input is rejected.
func Load(source string, data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{source: source, root: emptyMapping()}, nil
		}
		return nil, newDocError(source, "CONFIG_PARSE_ERROR", "配置 YAML 解析失败", "", err)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return nil, newDocError(source, "CONFIG_PARSE_ERROR", "配置不允许包含多个 YAML 文档", "", nil)
	} else if !errors.Is(err, io.EOF) {
		return nil, newDocError(source, "CONFIG_PARSE_ERROR", "配置 YAML 解析失败", "", err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, newDocError(source, "CONFIG_PARSE_ERROR", "配置 YAML 结构不合法", "", nil)
	}
	root := deref(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		root = emptyMapping()
	}
	if root.Kind != yaml.MappingNode {
		return nil, newDocError(source, "CONFIG_TYPE_ERROR", "配置根节点必须是映射", kindName(root), nil)
	}
	return &Document{source: source, root: root}, nil
}

// Source returns the identifier Load was given (file path or "inline").
func (d *Document) Source() string { return d.source }

// Get returns the value node for a top-level key, or nil when absent.
func (d *Document) Get(key string) *yaml.Node {
	c := d.root.Content
	for i := 0; i+1 < len(c); i += 2 {
		if deref(c[i]).Value == key {
			return deref(c[i+1])
		}
	}
	return nil
}

// Sequence returns the top-level sequence for key. Absent keys yield
// (nil, nil); a present non-sequence value is a type error naming the key
// and its actual kind.
func (d *Document) Sequence(key string) (*yaml.Node, error) {
	node := d.Get(key)
	if node == nil {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, d.typeError(key, node)
	}
	return node, nil
}

// EnsureSequence returns the top-level sequence for key, creating an empty
// one when the key is absent.
func (d *Document) EnsureSequence(key string) (*yaml.Node, error) {
	node, err := d.Sequence(key)
	if err != nil {
		return nil, err
	}
	if node != nil {
		return node, nil
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	d.root.Content = append(d.root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		seq,
	)
	return seq, nil
}

// Encode renders the whole document with 2-space indent.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, newDocError(d.source, "CONFIG_ENCODE_ERROR", "配置 YAML 序列化失败", "", err)
	}
	if err := enc.Close(); err != nil {
		return nil, newDocError(d.source, "CONFIG_ENCODE_ERROR", "配置 YAML 序列化失败", "", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) typeError(key string, node *yaml.Node) error {
	return &DocError{
		AppError: model.AppError{
			Code:    "CONFIG_TYPE_ERROR",
			Message: fmt.Sprintf("%s 必须是序列，实际为 %s", key, kindName(node)),
			Stage:   "merge",
			Source:  d.source,
			Line:    node.Line,
			Hint:    fmt.Sprintf("expected: %s: [...]", key),
		},
	}
}

func deref(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

func emptyMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "映射"
	case yaml.SequenceNode:
		return "序列"
	case yaml.ScalarNode:
		return "标量"
	case yaml.AliasNode:
		return "别名"
	default:
		return "未知节点"
	}
}

func newDocError(source, code, message, snippet string, cause error) error {
	return &DocError{
		AppError: model.AppError{
			Code:    code,
			Message: message,
			Stage:   "load_config",
			Source:  source,
			Snippet: snippet,
		},
		Cause: cause,
	}
}
