package docmap

import (
	"fmt"
	"reflect"
)

// EnumMember declares one member of an enumerated type. Alias, when set, is
// the wire spelling; otherwise Name is written.
type EnumMember struct {
	Name  string
	Alias string
	Value any
}

// Enum is implemented (with a value receiver) by types that map to and from
// strings through a fixed member table.
//
//	type Color int
//
//	func (Color) EnumMembers() []docmap.EnumMember {
//		return []docmap.EnumMember{
//			{Name: "Red", Value: Red},
//			{Name: "DarkBlue", Alias: "dark_blue", Value: DarkBlue},
//		}
//	}
type Enum interface {
	EnumMembers() []EnumMember
}

var enumType = reflect.TypeFor[Enum]()

type enumTable struct {
	members []EnumMember
	byValue map[any]int
	byAlias map[string]int
	byName  map[string]int
}

func newEnumTable(t reflect.Type) (*enumTable, error) {
	members := reflect.Zero(t).Interface().(Enum).EnumMembers()
	et := &enumTable{
		members: members,
		byValue: make(map[any]int, len(members)),
		byAlias: map[string]int{},
		byName:  make(map[string]int, len(members)),
	}
	for i, m := range members {
		if m.Value == nil || reflect.TypeOf(m.Value) != t {
			return nil, fmt.Errorf("enum member %s of %s has value of type %T", m.Name, t, m.Value)
		}
		if _, dup := et.byValue[m.Value]; dup {
			return nil, fmt.Errorf("enum %s declares value %v twice", t, m.Value)
		}
		et.byValue[m.Value] = i
		et.byName[m.Name] = i
		if m.Alias != "" {
			et.byAlias[m.Alias] = i
		}
	}
	return et, nil
}

// wireName returns the alias if declared, else the member name.
func (et *enumTable) wireName(v any) (string, bool) {
	i, ok := et.byValue[v]
	if !ok {
		return "", false
	}
	m := et.members[i]
	if m.Alias != "" {
		return m.Alias, true
	}
	return m.Name, true
}

// lookup matches aliases first and falls back to exact member names.
func (et *enumTable) lookup(s string) (any, bool) {
	if i, ok := et.byAlias[s]; ok {
		return et.members[i].Value, true
	}
	if i, ok := et.byName[s]; ok {
		return et.members[i].Value, true
	}
	return nil, false
}
