package binder

import "fmt"

// Mode selects which values trigger a slot's default.
type Mode int

const (
	// OmittedOnly applies defaults only to absent values. An explicit null
	// is bound as-is.
	OmittedOnly Mode = iota
	// OmittedOrNullish applies defaults to absent and null values.
	OmittedOrNullish
)

func (m Mode) String() string {
	switch m {
	case OmittedOnly:
		return "omitted-only"
	case OmittedOrNullish:
		return "omitted-or-nullish"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses the String form of a Mode. The empty string is
// OmittedOnly.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "omitted-only":
		return OmittedOnly, nil
	case "omitted-or-nullish":
		return OmittedOrNullish, nil
	default:
		return 0, fmt.Errorf("unknown binding mode %q (want omitted-only or omitted-or-nullish)", s)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Mode) triggersDefault(v Value) bool {
	if m == OmittedOrNullish {
		return IsNullish(v)
	}
	return IsAbsent(v)
}
