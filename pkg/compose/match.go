package compose

import (
	"reflect"

	"github.com/spf13/cast"

	"github.com/nicholas-fedor/composer/pkg/types"
)

// Matches reports whether every criterion is an attribute of the entry with an equal value.
//
// Scalar attributes compare after conversion, so a criterion of 512 matches a
// cpu_shares of int64(512). Collections compare deeply. Unknown keys never match.
//
// Parameters:
//   - criteria: Attribute filter; empty matches everything.
//
// Returns:
//   - bool: True if the entry satisfies all criteria.
func (e *Entry) Matches(criteria types.Criteria) bool {
	for key, want := range criteria {
		if key == types.AttrLoadedFromEnvironment {
			got, err := cast.ToBoolE(want)
			if err != nil || got != e.loadedFromEnvironment {
				return false
			}

			continue
		}

		have, ok := e.attributes.Value(key)
		if !ok || !attributeEqual(have, want) {
			return false
		}
	}

	return true
}

// attributeEqual compares an attribute value with a criterion value.
func attributeEqual(have, want any) bool {
	switch h := have.(type) {
	case string:
		w, err := cast.ToStringE(want)

		return err == nil && w == h
	case int64:
		w, err := cast.ToInt64E(want)

		return err == nil && w == h
	case *types.Build:
		switch w := want.(type) {
		case nil:
			return h == nil
		case types.Build:
			return h != nil && *h == w
		case *types.Build:
			return reflect.DeepEqual(h, w)
		default:
			return false
		}
	default:
		return reflect.DeepEqual(have, want)
	}
}
