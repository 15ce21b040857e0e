package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

//
// ErrUnsupportedValue is returned when a field holds a value that cannot be rendered into a request
// parameter (maps, structs, channels, etc).
//
var ErrUnsupportedValue = errors.New("unsupported field value")

//
// Fields represents the caller-supplied parameters of a request against an exchange's API. Values
// may be strings, any Go integer or float kind, booleans, decimal.Decimal amounts, json.Number,
// fmt.Stringer implementations, nil (rendered as an empty value), or slices of any of those (rendered
// as one parameter per element).
//
type Fields map[string]interface{}

//
// Merge returns a new set of fields holding the receiver's entries overlaid with the provided
// overrides. Neither input is modified. Keys present in both take the override's value.
//
func (o Fields) Merge(overrides Fields) Fields {
	merged := make(Fields, len(o)+len(overrides))

	for k, v := range o {
		merged[k] = v
	}

	for k, v := range overrides {
		merged[k] = v
	}

	return merged
}

//
// SortedKeys returns the keys of the fields in ascending byte-wise order.
//
func (o Fields) SortedKeys() []string {
	keys := make([]string, 0, len(o))

	for k := range o {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

//
// Values renders the value stored under the specified key into its string form(s). Scalars render
// to exactly one string; slices render to one string per element.
//
func (o Fields) Values(key string) ([]string, error) {
	v, ok := o[key]
	if !ok {
		return nil, nil
	}

	if s, ok := v.(string); ok {
		return []string{s}, nil
	}

	rv := reflect.ValueOf(v)
	if v != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		ret := make([]string, 0, rv.Len())

		for i := 0; i < rv.Len(); i++ {
			s, err := formatScalar(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("field %q[%d]: %w", key, i, err)
			}

			ret = append(ret, s)
		}

		return ret, nil
	}

	s, err := formatScalar(v)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}

	return []string{s}, nil
}

//
// Body renders the fields into a JSON-encodable object whose values carry exactly the text Values
// produces for them, so a body built from it matches what was signed. Strings and booleans stay
// JSON strings and booleans, numbers become JSON numbers with the rendered digits, and every other
// kind (decimals, Stringers, byte slices, nil) becomes its rendered string. Slices become arrays.
//
func (o Fields) Body() (map[string]interface{}, error) {
	body := make(map[string]interface{}, len(o))

	for key, v := range o {
		rv := reflect.ValueOf(v)
		if _, isString := v.(string); !isString && v != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			elems := make([]interface{}, 0, rv.Len())

			for i := 0; i < rv.Len(); i++ {
				elem, err := jsonScalar(rv.Index(i).Interface())
				if err != nil {
					return nil, fmt.Errorf("field %q[%d]: %w", key, i, err)
				}

				elems = append(elems, elem)
			}

			body[key] = elems
			continue
		}

		elem, err := jsonScalar(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}

		body[key] = elem
	}

	return body, nil
}

func jsonScalar(v interface{}) (interface{}, error) {
	s, err := formatScalar(v)
	if err != nil {
		return nil, err
	}

	switch val := v.(type) {
	case bool:
		return val, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return json.Number(s), nil
	default:
		return s, nil
	}
}

func formatScalar(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.FormatInt(int64(val), 10), nil
	case int8:
		return strconv.FormatInt(int64(val), 10), nil
	case int16:
		return strconv.FormatInt(int64(val), 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case decimal.Decimal:
		return val.String(), nil
	case *decimal.Decimal:
		if val == nil {
			return "", nil
		}

		return val.String(), nil
	case json.Number:
		return val.String(), nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
