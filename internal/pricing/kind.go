package pricing

import "fmt"

// OptionKind selects between the two European option variants this engine
// can price. The zero value is Call.
type OptionKind int

const (
	Call OptionKind = iota
	Put
)

// ParseOptionKind converts a wire/flag string ("call" or "put") to an
// OptionKind. Anything else is an UnsupportedKindError.
func ParseOptionKind(s string) (OptionKind, error) {
	switch s {
	case "call":
		return Call, nil
	case "put":
		return Put, nil
	default:
		return 0, &UnsupportedKindError{Raw: s}
	}
}

func (k OptionKind) String() string {
	switch k {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return fmt.Sprintf("OptionKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler so kinds round-trip through
// JSON and YAML as "call"/"put".
func (k OptionKind) MarshalText() ([]byte, error) {
	switch k {
	case Call, Put:
		return []byte(k.String()), nil
	default:
		return nil, &UnsupportedKindError{Kind: k}
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *OptionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseOptionKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
