package tools

import (
	"fmt"
	"math"
	"strings"
)

// validateArgs checks raw wire arguments against a descriptor's parameter
// specs and produces a typed Args map. It runs before any network call so
// invalid input never costs an upstream request.
func validateArgs(d *Descriptor, raw map[string]any) (Args, *DispatchError) {
	args := make(Args, len(d.Params))

	for _, spec := range d.Params {
		value, present := raw[spec.Name]
		if !present || value == nil {
			if spec.Required {
				return nil, missingParameterError(spec.Name)
			}
			args[spec.Name] = defaultFor(spec)
			continue
		}

		coerced, derr := coerceValue(spec, value)
		if derr != nil {
			return nil, derr
		}
		args[spec.Name] = coerced
	}

	return args, nil
}

// defaultFor returns the declared default, or the type's zero value when the
// spec carries none.
func defaultFor(spec ParamSpec) any {
	if spec.Default != nil {
		return spec.Default
	}
	switch spec.Type {
	case TypeInt:
		return 0
	case TypeString:
		return ""
	case TypeStringArray:
		return []string{}
	}
	return nil
}

func coerceValue(spec ParamSpec, value any) (any, *DispatchError) {
	switch spec.Type {
	case TypeInt:
		return coerceInt(spec, value)
	case TypeString:
		return coerceString(spec, value)
	case TypeStringArray:
		return coerceStringArray(spec, value)
	}
	return nil, invalidParameterError(spec.Name, fmt.Sprintf("unsupported parameter type %q", spec.Type))
}

// coerceInt accepts JSON numbers (float64 over the wire) plus native ints.
// Fractional values are rejected rather than truncated.
func coerceInt(spec ParamSpec, value any) (any, *DispatchError) {
	var n int
	switch v := value.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return nil, invalidParameterError(spec.Name, fmt.Sprintf("expected an integer, got %v", v))
		}
		n = int(v)
	default:
		return nil, invalidParameterError(spec.Name, fmt.Sprintf("expected an integer, got %T", value))
	}

	if spec.Min != nil && n < *spec.Min {
		return nil, invalidParameterError(spec.Name, fmt.Sprintf("must be >= %d, got %d", *spec.Min, n))
	}
	if spec.Max != nil && n > *spec.Max {
		return nil, invalidParameterError(spec.Name, fmt.Sprintf("must be <= %d, got %d", *spec.Max, n))
	}
	return n, nil
}

// coerceString rejects non-strings; an empty string for a required parameter
// counts as missing, matching how callers actually misuse component keys.
func coerceString(spec ParamSpec, value any) (any, *DispatchError) {
	s, ok := value.(string)
	if !ok {
		return nil, invalidParameterError(spec.Name, fmt.Sprintf("expected a string, got %T", value))
	}
	if spec.Required && s == "" {
		return nil, missingParameterError(spec.Name)
	}
	return s, nil
}

// coerceStringArray accepts []string and the generic []any that JSON
// decoding produces, and checks enum membership per element.
func coerceStringArray(spec ParamSpec, value any) (any, *DispatchError) {
	var items []string
	switch v := value.(type) {
	case []string:
		items = v
	case []any:
		items = make([]string, 0, len(v))
		for _, el := range v {
			s, ok := el.(string)
			if !ok {
				return nil, invalidParameterError(spec.Name, fmt.Sprintf("expected an array of strings, found %T element", el))
			}
			items = append(items, s)
		}
	default:
		return nil, invalidParameterError(spec.Name, fmt.Sprintf("expected an array of strings, got %T", value))
	}

	if len(spec.Enum) > 0 {
		for _, item := range items {
			if !containsString(spec.Enum, item) {
				return nil, invalidParameterError(spec.Name,
					fmt.Sprintf("%q is not one of [%s]", item, strings.Join(spec.Enum, ", ")))
			}
		}
	}
	return items, nil
}

func containsString(set []string, s string) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}
