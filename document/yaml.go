package document

import (
	"errors"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

var errNotMapping = errors.New("document: top level value is not a mapping")

func toNode(s *Section) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range s.keys {
		var value *yaml.Node
		switch x := s.values[k].(type) {
		case *Section:
			child, err := toNode(x)
			if err != nil {
				return nil, err
			}
			value = child
		default:
			str, err := formatScalar(x)
			if err != nil {
				return nil, err
			}
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: scalarTag(x), Value: str}
			if _, ok := x.(string); ok && !plainString(str) {
				value.Style = yaml.DoubleQuotedStyle
			}
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, value)
	}
	return n, nil
}

// plainString reports whether s reads back as the same string when
// written unquoted.
func plainString(s string) bool {
	var v interface{}
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return false
	}
	str, ok := v.(string)
	return ok && str == s
}

func scalarTag(v interface{}) string {
	switch v.(type) {
	case int64, uint64:
		return "!!int"
	case float32, float64:
		return "!!float"
	case bool:
		return "!!bool"
	}
	return "!!str"
}

// EncodeYAML writes s to w as a YAML mapping with keys in insertion order.
func EncodeYAML(w io.Writer, s *Section) error {
	n, err := toNode(s)
	if err != nil {
		return err
	}
	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	if err := e.Encode(n); err != nil {
		return err
	}
	return e.Close()
}

func fromNode(n *yaml.Node) (*Section, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return New(), nil
		}
		n = n.Content[0]
	}
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil, errNotMapping
	}

	s := New()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i].Value, n.Content[i+1]
		if value.Kind == yaml.AliasNode {
			value = value.Alias
		}
		switch value.Kind {
		case yaml.MappingNode:
			child, err := fromNode(value)
			if err != nil {
				return nil, err
			}
			s.Set(key, child)
		case yaml.ScalarNode:
			v, err := scalarValue(value)
			if err != nil {
				return nil, err
			}
			s.Set(key, v)
		default:
			// Sequences become sections keyed by index
			child := New()
			for j, item := range value.Content {
				if item.Kind == yaml.MappingNode {
					c, err := fromNode(item)
					if err != nil {
						return nil, err
					}
					child.Set(strconv.Itoa(j), c)
					continue
				}
				v, err := scalarValue(item)
				if err != nil {
					return nil, err
				}
				child.Set(strconv.Itoa(j), v)
			}
			s.Set(key, child)
		}
	}
	return s, nil
}

func scalarValue(n *yaml.Node) (interface{}, error) {
	switch n.ShortTag() {
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i, nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return nil, err
		}
		return u, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!null":
		return "", nil
	}
	return n.Value, nil
}

// DecodeYAML reads a YAML mapping from r.
func DecodeYAML(r io.Reader) (*Section, error) {
	var n yaml.Node
	if err := yaml.NewDecoder(r).Decode(&n); err != nil {
		if err == io.EOF {
			return New(), nil
		}
		return nil, err
	}
	return fromNode(&n)
}
