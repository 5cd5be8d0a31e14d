// Package serialization round-trips mapping collections through a versioned
// YAML document.
//
// The document stores the shared buttons and keys once at the top; mappings
// reference buttons by identifier and keys by token. Combos are a closed
// variant discriminated by an explicit kind field.
package serialization

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nezoba/nezoba/pkg/remap"
)

// Version is the document version written by Marshal and required by
// Unmarshal.
const Version = "1.0"

type document struct {
	Version string      `yaml:"version"`
	Content mappingsDoc `yaml:"content"`
}

type mappingsDoc struct {
	Layout   string       `yaml:"layout,omitempty"`
	Buttons  []buttonDoc  `yaml:"buttons"`
	Keys     []keyDoc     `yaml:"keys"`
	Mappings []mappingDoc `yaml:"mappings"`
}

type buttonDoc struct {
	Identifier int    `yaml:"identifier"`
	Name       string `yaml:"name"`
}

type keyDoc struct {
	Key         string `yaml:"key"`
	Identifier  int    `yaml:"identifier"`
	Group       string `yaml:"group"`
	Description string `yaml:"description,omitempty"`
}

type mappingDoc struct {
	Identifier  int             `yaml:"identifier"`
	Title       string          `yaml:"title,omitempty"`
	Description string          `yaml:"description,omitempty"`
	Scheme      string          `yaml:"scheme,omitempty"`
	Combos      []assignmentDoc `yaml:"combos"`
}

type assignmentDoc struct {
	Button int      `yaml:"button"`
	Combo  comboDoc `yaml:"combo"`
}

// Combo variant kinds.
const (
	kindPress = "press"
	kindAnd   = "and"
)

type comboDoc struct {
	Kind    string     `yaml:"kind"`
	Key     string     `yaml:"key,omitempty"`
	Turbo   int        `yaml:"turbo,omitempty"`
	Hold    int        `yaml:"hold,omitempty"`
	Held    bool       `yaml:"held,omitempty"`
	Members []comboDoc `yaml:"members,omitempty"`
}

// Marshal serializes a mapping collection into a versioned YAML document.
func Marshal(ms *remap.Mappings) ([]byte, error) {
	doc := document{Version: Version}
	if buttons, ok := ms.Buttons(); ok {
		doc.Content.Layout = string(buttons.Layout())
		for i := 0; i < buttons.Len(); i++ {
			b := buttons.At(i)
			doc.Content.Buttons = append(doc.Content.Buttons,
				buttonDoc{Identifier: b.Identifier, Name: b.Name})
		}
	}
	if keys, ok := ms.Keys(); ok {
		for i := 0; i < keys.Len(); i++ {
			k := keys.At(i)
			doc.Content.Keys = append(doc.Content.Keys, keyDoc{
				Key:         k.Key,
				Identifier:  k.Identifier,
				Group:       string(k.Group),
				Description: k.Description,
			})
		}
	}
	for i := 0; i < ms.Len(); i++ {
		md, err := marshalMapping(ms.At(i))
		if err != nil {
			return nil, fmt.Errorf("mapping %d: %w", i, err)
		}
		doc.Content.Mappings = append(doc.Content.Mappings, md)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize mappings: %w", err)
	}
	return data, nil
}

func marshalMapping(m *remap.Mapping) (mappingDoc, error) {
	md := mappingDoc{
		Identifier:  m.Identifier,
		Title:       m.Title,
		Description: m.Description,
	}
	if named, ok := m.Keys().(remap.NamedKeys); ok {
		md.Scheme = named.Scheme().String()
	}
	buttons := m.Buttons()
	for i := 0; i < buttons.Len(); i++ {
		button := buttons.At(i)
		combo, ok := m.Get(button)
		if !ok {
			continue
		}
		cd, err := marshalCombo(combo)
		if err != nil {
			return mappingDoc{}, fmt.Errorf("button %d: %w", button.Identifier, err)
		}
		md.Combos = append(md.Combos, assignmentDoc{Button: button.Identifier, Combo: cd})
	}
	return md, nil
}

func marshalCombo(c remap.Combo) (comboDoc, error) {
	switch v := c.(type) {
	case remap.Press:
		return comboDoc{
			Kind:  kindPress,
			Key:   v.Key.Unnamed().Key,
			Turbo: v.Turbo,
			Hold:  v.Hold,
			Held:  v.Held,
		}, nil
	case remap.And:
		members := make([]comboDoc, len(v))
		for i, member := range v {
			md, err := marshalCombo(member)
			if err != nil {
				return comboDoc{}, err
			}
			members[i] = md
		}
		return comboDoc{Kind: kindAnd, Members: members}, nil
	default:
		return comboDoc{}, fmt.Errorf("unsupported combo type %T", c)
	}
}

// Unmarshal deserializes a versioned YAML document into a mapping collection.
// Documents with a different version, unknown combo kinds, or references to
// undeclared buttons or keys fail without partial results.
func Unmarshal(data []byte) (*remap.Mappings, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse mappings document: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("cannot deserialize version %q (expected %q)",
			doc.Version, Version)
	}
	buttonList := make([]remap.Button, len(doc.Content.Buttons))
	for i, bd := range doc.Content.Buttons {
		buttonList[i] = remap.Button{Identifier: bd.Identifier, Name: bd.Name}
	}
	buttons, err := remap.NewButtons(buttonList, remap.ButtonLayout(doc.Content.Layout))
	if err != nil {
		return nil, fmt.Errorf("invalid buttons: %w", err)
	}
	keyList := make([]remap.Key, len(doc.Content.Keys))
	for i, kd := range doc.Content.Keys {
		keyList[i] = remap.Key{
			Key:         kd.Key,
			Identifier:  kd.Identifier,
			Group:       remap.KeyGroup(kd.Group),
			Description: kd.Description,
		}
	}
	keys, err := remap.NewKeys(keyList)
	if err != nil {
		return nil, fmt.Errorf("invalid keys: %w", err)
	}
	mappings := make([]*remap.Mapping, len(doc.Content.Mappings))
	for i, md := range doc.Content.Mappings {
		m, err := unmarshalMapping(md, buttons, keys)
		if err != nil {
			return nil, fmt.Errorf("mapping %d: %w", i, err)
		}
		mappings[i] = m
	}
	return remap.NewMappings(mappings)
}

func unmarshalMapping(md mappingDoc, buttons remap.Buttons, keys remap.Keys) (*remap.Mapping, error) {
	var keySet remap.KeySet = keys
	if md.Scheme != "" {
		scheme, ok := remap.SchemeFromName(md.Scheme)
		if !ok {
			return nil, fmt.Errorf("unknown naming scheme %q", md.Scheme)
		}
		named := remap.SchemeKeys(scheme)
		if !named.Unnamed().Equal(keys) {
			return nil, fmt.Errorf("scheme %s does not cover the document's keys", scheme)
		}
		keySet = named
	}
	m := remap.NewMapping(buttons, keySet, md.Identifier, md.Title, md.Description)
	for _, ad := range md.Combos {
		button, ok := findButton(buttons, ad.Button)
		if !ok {
			return nil, fmt.Errorf("undeclared button %d", ad.Button)
		}
		combo, err := unmarshalCombo(ad.Combo, keySet)
		if err != nil {
			return nil, fmt.Errorf("button %d: %w", ad.Button, err)
		}
		if err := m.Set(button, combo); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func findButton(buttons remap.Buttons, identifier int) (remap.Button, bool) {
	for i := 0; i < buttons.Len(); i++ {
		if b := buttons.At(i); b.Identifier == identifier {
			return b, true
		}
	}
	return remap.Button{}, false
}

func unmarshalCombo(cd comboDoc, keys remap.KeySet) (remap.Combo, error) {
	switch cd.Kind {
	case kindPress:
		key, ok := keys.Find(cd.Key)
		if !ok {
			return nil, fmt.Errorf("undeclared key %q", cd.Key)
		}
		return remap.Press{Key: key, Turbo: cd.Turbo, Hold: cd.Hold, Held: cd.Held}, nil
	case kindAnd:
		members := make(remap.And, len(cd.Members))
		for i, member := range cd.Members {
			mc, err := unmarshalCombo(member, keys)
			if err != nil {
				return nil, err
			}
			members[i] = mc
		}
		return members, nil
	default:
		return nil, fmt.Errorf("unknown combo kind %q", cd.Kind)
	}
}
