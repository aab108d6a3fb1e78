package model

import (
	"fmt"
	"path"
	"strconv"

	"github.com/vvka-141/fmured/pkg/fmured"
)

// ParseStart parses the lexical form of a start value per the declared
// value type. Real follows xs:double (including INF/-INF/NaN), Integer and
// Enumeration are 32-bit signed integers, Boolean follows the xs:boolean
// lexical space, String is taken as-is.
func ParseStart(vt fmured.ValueType, text string) (any, error) {
	switch vt {
	case fmured.TypeReal:
		switch text {
		case "INF":
			return strconv.ParseFloat("+Inf", 64)
		case "-INF":
			return strconv.ParseFloat("-Inf", 64)
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("not a real number: %q", text)
		}
		return f, nil

	case fmured.TypeInteger, fmured.TypeEnumeration:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("not a 32-bit integer: %q", text)
		}
		return int32(n), nil

	case fmured.TypeBoolean:
		switch text {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("not a boolean: %q", text)

	case fmured.TypeString:
		return text, nil
	}
	return nil, fmt.Errorf("unknown value type %q", vt)
}

// FormatStart converts a caller-supplied value into the canonical lexical
// form for the declared type. Inputs that would require coercion across
// types (a float for an Integer variable, a number for a Boolean) are
// rejected; string inputs are accepted when they parse as the type.
func FormatStart(vt fmured.ValueType, value any) (string, error) {
	switch vt {
	case fmured.TypeReal:
		switch n := value.(type) {
		case float64:
			return strconv.FormatFloat(n, 'g', -1, 64), nil
		case float32:
			return strconv.FormatFloat(float64(n), 'g', -1, 32), nil
		case int:
			return strconv.Itoa(n), nil
		case int32:
			return strconv.FormatInt(int64(n), 10), nil
		case int64:
			return strconv.FormatInt(n, 10), nil
		case string:
			if _, err := ParseStart(vt, n); err != nil {
				return "", err
			}
			return n, nil
		}

	case fmured.TypeInteger, fmured.TypeEnumeration:
		switch n := value.(type) {
		case int:
			if int64(n) != int64(int32(n)) {
				return "", fmt.Errorf("out of 32-bit range: %d", n)
			}
			return strconv.Itoa(n), nil
		case int32:
			return strconv.FormatInt(int64(n), 10), nil
		case int64:
			if n != int64(int32(n)) {
				return "", fmt.Errorf("out of 32-bit range: %d", n)
			}
			return strconv.FormatInt(n, 10), nil
		case string:
			if _, err := ParseStart(vt, n); err != nil {
				return "", err
			}
			return n, nil
		}

	case fmured.TypeBoolean:
		switch b := value.(type) {
		case bool:
			return strconv.FormatBool(b), nil
		case string:
			v, err := ParseStart(vt, b)
			if err != nil {
				return "", err
			}
			return strconv.FormatBool(v.(bool)), nil
		}

	case fmured.TypeString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("value %v does not match declared type %s", value, vt)
}

// matchPattern applies glob matching to a variable name. Variable names
// never contain path separators, so path.Match semantics fit.
func matchPattern(pattern, name string) (bool, error) {
	return path.Match(pattern, name)
}
