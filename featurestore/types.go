package featurestore

import (
	"strconv"
	"strings"

	"github.com/drivernote/drivernote/errors"
)

// FeatureRef is a fully-qualified feature reference of the form
// <feature-view>:<feature-name>.
type FeatureRef struct {
	View    string
	Feature string
}

// ParseFeatureRef parses "view:feature" into a FeatureRef
func ParseFeatureRef(s string) (FeatureRef, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return FeatureRef{}, errors.Newf("invalid feature reference %q (want <feature-view>:<feature-name>)", s)
	}
	return FeatureRef{View: parts[0], Feature: parts[1]}, nil
}

// String returns the view:feature form
func (r FeatureRef) String() string {
	return r.View + ":" + r.Feature
}

// EntityRow maps entity-key names to identifier values for one lookup row
type EntityRow map[string]any

// FeatureVector is the columnar result of an online lookup: one column per
// requested feature (keyed by short feature name), one value per entity row.
// Missing entities yield nil values, not errors.
type FeatureVector struct {
	order   []string
	columns map[string][]any
}

// NewFeatureVector allocates columns for the given refs and row count.
// Values default to nil until Set.
func NewFeatureVector(refs []FeatureRef, rows int) *FeatureVector {
	v := &FeatureVector{
		columns: make(map[string][]any, len(refs)),
	}
	for _, ref := range refs {
		if _, ok := v.columns[ref.Feature]; ok {
			continue
		}
		v.order = append(v.order, ref.Feature)
		v.columns[ref.Feature] = make([]any, rows)
	}
	return v
}

// Set records the value for a feature at the given row index
func (v *FeatureVector) Set(feature string, row int, value any) {
	v.columns[feature][row] = value
}

// Features returns the feature names in request order
func (v *FeatureVector) Features() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Column returns all values for one feature, one per entity row
func (v *FeatureVector) Column(feature string) ([]any, error) {
	col, ok := v.columns[feature]
	if !ok {
		return nil, errors.Newf("feature %q not in result", feature)
	}
	return col, nil
}

// Rows returns the number of entity rows in the result
func (v *FeatureVector) Rows() int {
	for _, col := range v.columns {
		return len(col)
	}
	return 0
}

// Row flattens one entity row into a feature-name -> value map
func (v *FeatureVector) Row(i int) (map[string]any, error) {
	if i < 0 || i >= v.Rows() {
		return nil, errors.Newf("row %d out of range (rows: %d)", i, v.Rows())
	}
	out := make(map[string]any, len(v.order))
	for _, name := range v.order {
		out[name] = v.columns[name][i]
	}
	return out, nil
}

// ToMap returns the full columnar result as feature name -> values
func (v *FeatureVector) ToMap() map[string][]any {
	out := make(map[string][]any, len(v.columns))
	for name, col := range v.columns {
		vals := make([]any, len(col))
		copy(vals, col)
		out[name] = vals
	}
	return out
}

// Value types understood by the online store
const (
	TypeInt64   = "int64"
	TypeFloat64 = "float64"
	TypeString  = "string"
	TypeBool    = "bool"
	typeNull    = "null"
)

// encodeValue converts a scalar into its storage form (canonical string + type tag)
func encodeValue(v any) (value string, valueType string, err error) {
	switch val := v.(type) {
	case nil:
		return "", typeNull, nil
	case int:
		return strconv.FormatInt(int64(val), 10), TypeInt64, nil
	case int32:
		return strconv.FormatInt(int64(val), 10), TypeInt64, nil
	case int64:
		return strconv.FormatInt(val, 10), TypeInt64, nil
	case float64:
		// Shortest representation that round-trips exactly
		return strconv.FormatFloat(val, 'g', -1, 64), TypeFloat64, nil
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), TypeFloat64, nil
	case string:
		return val, TypeString, nil
	case bool:
		return strconv.FormatBool(val), TypeBool, nil
	default:
		return "", "", errors.Newf("unsupported feature value type %T", v)
	}
}

// decodeValue converts a stored value back into its scalar form
func decodeValue(value string, valueType string) (any, error) {
	switch valueType {
	case typeNull:
		return nil, nil
	case TypeInt64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "decode int64 %q", value)
		}
		return n, nil
	case TypeFloat64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "decode float64 %q", value)
		}
		return f, nil
	case TypeString:
		return value, nil
	case TypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.Wrapf(err, "decode bool %q", value)
		}
		return b, nil
	default:
		return nil, errors.Newf("unknown value type %q", valueType)
	}
}

// serializeEntityKey converts an entity identifier into its storage key form.
// Identifiers are opaque; integers and strings are accepted.
func serializeEntityKey(v any) (string, error) {
	switch val := v.(type) {
	case int:
		return strconv.FormatInt(int64(val), 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case string:
		if val == "" {
			return "", errors.New("empty entity key")
		}
		return val, nil
	default:
		return "", errors.Newf("unsupported entity key type %T", v)
	}
}
