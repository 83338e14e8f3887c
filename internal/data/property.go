package data

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMissingField reports a structurally required field absent from authoring data.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidType reports an unknown type tag.
	ErrInvalidType = errors.New("invalid type")
	// ErrInvalidValue reports a value that does not parse as its declared type.
	ErrInvalidValue = errors.New("invalid value")
)

// PropertyType is the declared type of a custom property.
type PropertyType string

const (
	PropertyString PropertyType = "string"
	PropertyInt    PropertyType = "int"
	PropertyFloat  PropertyType = "float"
	PropertyBool   PropertyType = "bool"
	PropertyColor  PropertyType = "color"
	PropertyFile   PropertyType = "file"
	PropertyObject PropertyType = "object"
)

// PropertyDef is a property as written in a level file. Value may be omitted,
// in which case the type's default applies.
type PropertyDef struct {
	Name  string  `yaml:"name"`
	Type  string  `yaml:"type"`
	Value *string `yaml:"value"`
}

// Property is a parsed, typed property value: string, int64, float64 or bool.
type Property struct {
	Type  PropertyType
	Value any
}

// Properties maps property names to values.
type Properties map[string]Property

// Bool returns the named bool property, or false.
func (p Properties) Bool(name string) bool {
	v, ok := p[name].Value.(bool)
	return ok && v
}

func (p Properties) String(name string) string {
	v, _ := p[name].Value.(string)
	return v
}

func (p Properties) Int(name string) int64 {
	v, _ := p[name].Value.(int64)
	return v
}

func validateType(t string) (PropertyType, error) {
	switch pt := PropertyType(t); pt {
	case PropertyString, PropertyInt, PropertyFloat, PropertyBool, PropertyColor, PropertyFile, PropertyObject:
		return pt, nil
	}
	return "", fmt.Errorf("property type %q: %w", t, ErrInvalidType)
}

func defaultValue(t PropertyType) any {
	switch t {
	case PropertyInt:
		return int64(0)
	case PropertyFloat:
		return float64(0)
	case PropertyBool:
		return false
	case PropertyColor:
		return "#00000000"
	case PropertyFile:
		return "."
	case PropertyObject:
		return int64(-1)
	}
	return ""
}

func parseValue(t PropertyType, raw string) (any, error) {
	switch t {
	case PropertyInt, PropertyObject:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q as %s: %w", raw, t, ErrInvalidValue)
		}
		return v, nil
	case PropertyFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%q as %s: %w", raw, t, ErrInvalidValue)
		}
		return v, nil
	case PropertyBool:
		v, ok := parseBool(raw)
		if !ok {
			return nil, fmt.Errorf("%q as %s: %w", raw, t, ErrInvalidValue)
		}
		return v, nil
	}
	return raw, nil
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}

// ParseProperties validates and converts property definitions. where names
// the owning element for error messages.
func ParseProperties(where string, defs []PropertyDef) (Properties, error) {
	props := make(Properties, len(defs))
	for i, def := range defs {
		field := fmt.Sprintf("%s.properties[%d]", where, i)
		if def.Name == "" {
			return nil, fmt.Errorf("%s.name: %w", field, ErrMissingField)
		}
		if def.Type == "" {
			return nil, fmt.Errorf("%s.type: %w", field, ErrMissingField)
		}
		t, err := validateType(def.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		var v any
		if def.Value == nil {
			v = defaultValue(t)
		} else if v, err = parseValue(t, *def.Value); err != nil {
			return nil, fmt.Errorf("%s.value: %w", field, err)
		}
		props[def.Name] = Property{Type: t, Value: v}
	}
	return props, nil
}
