package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParamType is the declared type of a tool parameter
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
)

// Param declares one parameter of a tool, in call order
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any // used when an optional argument is absent
}

// String declares a required string parameter
func String(name, description string) Param {
	return Param{Name: name, Type: TypeString, Description: description, Required: true}
}

// Number declares a required number parameter
func Number(name, description string) Param {
	return Param{Name: name, Type: TypeNumber, Description: description, Required: true}
}

// Optional returns a copy of p that is optional with the given default
func (p Param) Optional(def any) Param {
	p.Required = false
	p.Default = def
	return p
}

// Integer declares a required integer parameter
func Integer(name, description string) Param {
	return Param{Name: name, Type: TypeInteger, Description: description, Required: true}
}

// Boolean declares a required boolean parameter
func Boolean(name, description string) Param {
	return Param{Name: name, Type: TypeBoolean, Description: description, Required: true}
}

// schemaFor builds the JSON schema object for an ordered parameter list
func schemaFor(params []Param) *JSONSchema {
	schema := &JSONSchema{
		Type:       "object",
		Properties: make(map[string]*JSONSchema, len(params)),
	}
	for _, p := range params {
		schema.Properties[p.Name] = &JSONSchema{
			Type:        string(p.Type),
			Description: p.Description,
			Default:     p.Default,
		}
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

// coerce converts an untyped JSON value to the parameter's declared type
func (p Param) coerce(v any) (any, error) {
	switch p.Type {
	case TypeNumber:
		return toFloat(v)
	case TypeInteger:
		return toInt(v)
	case TypeBoolean:
		return toBool(v)
	case TypeString:
		return toString(v)
	default:
		return v, nil
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected a number, got %q", n.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("expected a number, got %q", n)
		}
		return f, nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, nil
		}
	}

	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %v", v)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("expected an integer, got %v", v)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("integer out of range, got %v", v)
	}
	return int64(f), nil
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, fmt.Errorf("expected a boolean, got %q", b)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("expected a boolean, got %T", v)
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case bool:
		return strconv.FormatBool(s), nil
	}
	return "", fmt.Errorf("expected a string, got %T", v)
}
