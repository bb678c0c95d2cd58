package source

import (
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reoring/docmap"
	"github.com/reoring/docmap/value"
)

// ParseYAML decodes the first YAML document in data. Mapping order is kept,
// !!timestamp scalars become timestamps and !!binary scalars bytes. Mapping
// keys must be scalars.
func ParseYAML(data []byte, opts ...Options) (value.Value, error) {
	o := pickOptions(opts)
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return value.Value{}, parseError(err)
	}
	if root.Kind == 0 {
		// empty input
		return value.Null(), nil
	}
	y := yamlDecoder{opt: o}
	return y.node(&root, "", 0)
}

type yamlDecoder struct {
	opt Options
}

func (y yamlDecoder) node(n *yaml.Node, path string, depth int) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return y.node(n.Content[0], path, depth)
	case yaml.AliasNode:
		return y.node(n.Alias, path, depth)
	case yaml.MappingNode, yaml.SequenceNode:
		if y.opt.MaxDepth > 0 && depth+1 > y.opt.MaxDepth {
			return value.Value{}, issueError(docmap.CodeRecursionLimit, path, "max depth of %d exceeded", y.opt.MaxDepth)
		}
		if n.Kind == yaml.SequenceNode {
			items := make([]value.Value, 0, len(n.Content))
			for i, c := range n.Content {
				v, err := y.node(c, path+"["+strconv.Itoa(i)+"]", depth+1)
				if err != nil {
					return value.Value{}, err
				}
				items = append(items, v)
			}
			return value.Array(items...), nil
		}
		return y.mapping(n, path, depth)
	case yaml.ScalarNode:
		return y.scalar(n, path)
	}
	return value.Value{}, issueError(docmap.CodeParseError, path, "unexpected YAML node kind %d", n.Kind)
}

func (y yamlDecoder) mapping(n *yaml.Node, path string, depth int) (value.Value, error) {
	m := value.NewMap()
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return value.Value{}, issueError(docmap.CodeParseError, path, "line %d: mapping keys must be scalars", k.Line)
		}
		if k.ShortTag() == "!!merge" {
			return value.Value{}, issueError(docmap.CodeParseError, path, "line %d: merge keys are not supported", k.Line)
		}
		kp := k.Value
		if path != "" {
			kp = path + "." + k.Value
		}
		if _, dup := m.Get(k.Value); dup {
			msg := "key '" + k.Value + "' duplicated"
			switch y.opt.OnDuplicateKey {
			case docmap.SeverityError:
				return value.Value{}, issueError(docmap.CodeDuplicateKey, kp, "%s", msg)
			case docmap.SeverityWarn:
				y.opt.Sink.Warn(docmap.Issue{Path: kp, Code: docmap.CodeDuplicateKey, Message: msg})
			}
		}
		child, err := y.node(v, kp, depth+1)
		if err != nil {
			return value.Value{}, err
		}
		m.Set(k.Value, child)
	}
	return value.MapOf(m), nil
}

func (y yamlDecoder) scalar(n *yaml.Node, path string) (value.Value, error) {
	fail := func(err error) (value.Value, error) {
		return value.Value{}, issueError(docmap.CodeParseError, path, "line %d: %v", n.Line, err)
	}
	switch n.ShortTag() {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return fail(err)
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Integer(i), nil
		}
		// too wide for 64 bits
		var f float64
		if err := n.Decode(&f); err != nil {
			return fail(err)
		}
		return value.Double(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return fail(err)
		}
		return value.Double(f), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return fail(err)
		}
		return value.Timestamp(t), nil
	case "!!binary":
		var b []byte
		if err := n.Decode(&b); err != nil {
			return fail(err)
		}
		return value.Bytes(b), nil
	case "!!str":
		return value.String(n.Value), nil
	}
	// application-specific tags keep their literal text
	return value.String(n.Value), nil
}
