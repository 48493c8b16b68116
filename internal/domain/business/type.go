// internal/domain/business/type.go
package business

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeRestaurant Type = "restaurant"
	TypeRetail     Type = "retail"
	TypeServices   Type = "services"
	TypeBeauty     Type = "beauty"
	TypeHealth     Type = "health"
)

var typeAliases = map[string]Type{
	"restaurant": TypeRestaurant,
	"horeca":     TypeRestaurant,
	"retail":     TypeRetail,
	"services":   TypeServices,
	"servicios":  TypeServices,
	"beauty":     TypeBeauty,
	"estetica":   TypeBeauty,
	"health":     TypeHealth,
	"salud":      TypeHealth,
}

// ParseType accepts canonical and Spanish spellings.
func ParseType(s string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("é", "e", "í", "i").Replace(key)
	if t, ok := typeAliases[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown business type %q", s)
}

func (t *Type) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = TypeRestaurant
		return nil
	}
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AppointmentBased reports whether capacity is measured in professionals
// and slots instead of tables and kitchen staff.
func (t Type) AppointmentBased() bool {
	return t == TypeServices || t == TypeBeauty || t == TypeHealth
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t), nil
}
