package dash

import (
	"strconv"
)

const ( // value kinds
	NONE = iota
	BOOL
	NUMBER
	STRING
)

// Value is the typed payload carried by a feed. Payloads arrive as strings
// on the wire and are parsed once on delivery - nothing downstream
// re-interprets stringified data.
type Value struct {
	str  string
	num  float64
	b    bool
	kind int
}

func BoolValue(b bool) Value {
	return Value{kind: BOOL, b: b}
}

func NumberValue(n float64) Value {
	return Value{kind: NUMBER, num: n}
}

func StringValue(s string) Value {
	return Value{kind: STRING, str: s}
}

// ParseValue converts a wire payload into a typed Value. Booleans are tried
// first ("True"/"False" in either casing, plus the usual 1/0 forms), then
// numbers, and anything else stays a string.
func ParseValue(raw string) Value {
	if b, err := strconv.ParseBool(raw); err == nil {
		return BoolValue(b)
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return NumberValue(n)
	}
	return StringValue(raw)
}

func (v Value) Kind() int { return v.kind }

func (v Value) IsSet() bool { return v.kind != NONE }

func (v Value) Bool() bool { return v.b }

func (v Value) Number() float64 { return v.num }

// Payload returns the wire form of the value. Booleans keep the "True" /
// "False" casing the dashboard feeds use.
func (v Value) Payload() string {
	switch v.kind {
	case BOOL:
		if v.b {
			return "True"
		}
		return "False"
	case NUMBER:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case STRING:
		return v.str
	default:
		return ""
	}
}

// arg returns the value in the shape fmt expects for the given format verb,
// so "%d" templates get an integer and "%.1f" templates get a float.
func (v Value) arg(verb byte) any {
	switch v.kind {
	case BOOL:
		if verb == 's' || verb == 'q' || verb == 'v' {
			return v.Payload()
		}
		return v.b
	case NUMBER:
		switch verb {
		case 'd', 'b', 'o', 'x', 'X', 'c':
			return int64(v.num)
		default:
			return v.num
		}
	case STRING:
		return v.str
	default:
		return ""
	}
}
