// Package infer derives a field schema from the samples themselves, for
// collections that ship without one. The inferred schema feeds the same
// schema-driven rules an explicit schema would.
package infer

import (
	"fmt"
	"sort"

	"github.com/knowlyr/datacheck/internal/model"
)

const (
	// requiredPresence is the presence ratio above which a field is
	// considered required
	requiredPresence = 0.95

	// maxEnumValues caps how many distinct values a field may take and still
	// be declared an enum
	maxEnumValues = 10
)

// fieldObservation accumulates what the samples show for one field
type fieldObservation struct {
	present   int
	nulls     int
	typeVotes map[model.FieldType]int

	lengths []int // rune lengths of string values
	numbers []float64

	distinct     map[string]interface{} // normalized scalar -> representative value
	enumEligible bool
}

// Infer derives a schema from a sample collection. An empty collection yields
// an empty schema.
func Infer(samples []model.Sample) *model.Schema {
	schema := &model.Schema{
		SampleCount: len(samples),
		Fields:      make(map[string]model.FieldSpec),
	}
	if len(samples) == 0 {
		return schema
	}

	obs := make(map[string]*fieldObservation)
	for _, sample := range samples {
		for _, field := range sample.Fields() {
			o := obs[field]
			if o == nil {
				o = &fieldObservation{
					typeVotes:    make(map[model.FieldType]int),
					distinct:     make(map[string]interface{}),
					enumEligible: true,
				}
				obs[field] = o
			}
			o.observe(sample[field])
		}
	}

	for field, o := range obs {
		schema.Fields[field] = o.spec(len(samples))
	}
	return schema
}

func (o *fieldObservation) observe(v interface{}) {
	o.present++
	if v == nil {
		o.nulls++
		return
	}

	t := typeOf(v)
	o.typeVotes[t]++

	switch t {
	case model.TypeString:
		o.lengths = append(o.lengths, len([]rune(v.(string))))
	case model.TypeInteger, model.TypeNumber:
		o.numbers = append(o.numbers, toFloat(v))
	default:
		// Containers and booleans never become enums
		o.enumEligible = false
	}

	if o.enumEligible {
		key := fmt.Sprintf("%v", normalizeScalar(v))
		if _, seen := o.distinct[key]; !seen {
			o.distinct[key] = normalizeScalar(v)
			if len(o.distinct) > maxEnumValues {
				o.enumEligible = false
				o.distinct = nil
			}
		}
	}
}

// spec folds the observations into a field spec
func (o *fieldObservation) spec(total int) model.FieldSpec {
	spec := model.FieldSpec{
		Type:     o.majorityType(),
		Required: float64(o.present)/float64(total) >= requiredPresence,
		Nullable: o.nulls > 0,
	}

	if len(o.lengths) > 0 {
		min, max, sum := o.lengths[0], o.lengths[0], 0
		for _, l := range o.lengths {
			if l < min {
				min = l
			}
			if l > max {
				max = l
			}
			sum += l
		}
		avg := sum / len(o.lengths)
		spec.MinLength = &min
		spec.MaxLength = &max
		spec.AvgLength = &avg
	}

	if len(o.numbers) > 0 {
		min, max := o.numbers[0], o.numbers[0]
		for _, n := range o.numbers {
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}
		spec.MinValue = &min
		spec.MaxValue = &max
	}

	// Declare an enum only when values actually repeat; ten distinct values
	// across ten samples is a free-form field, not a category set
	if o.enumEligible && len(o.distinct) > 0 && len(o.distinct) < o.present-o.nulls {
		keys := make([]string, 0, len(o.distinct))
		for k := range o.distinct {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			spec.Enum = append(spec.Enum, o.distinct[k])
		}
	}

	return spec
}

// majorityType picks the most voted type; ties break toward the more general
// type via name order after count.
func (o *fieldObservation) majorityType() model.FieldType {
	best := model.TypeString
	bestCount := -1
	types := make([]model.FieldType, 0, len(o.typeVotes))
	for t := range o.typeVotes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		if o.typeVotes[t] > bestCount {
			best = t
			bestCount = o.typeVotes[t]
		}
	}
	// Mixed integer and float votes widen to number
	if best == model.TypeInteger && o.typeVotes[model.TypeNumber] > 0 {
		return model.TypeNumber
	}
	return best
}

// typeOf classifies a loaded value. JSON numbers arrive as float64; integral
// ones are classified integer.
func typeOf(v interface{}) model.FieldType {
	switch n := v.(type) {
	case string:
		return model.TypeString
	case bool:
		return model.TypeBoolean
	case int, int64:
		return model.TypeInteger
	case float64:
		if n == float64(int64(n)) {
			return model.TypeInteger
		}
		return model.TypeNumber
	case []interface{}:
		return model.TypeArray
	case map[string]interface{}:
		return model.TypeObject
	}
	return model.TypeString
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// normalizeScalar collapses integral floats so enum members compare and
// render consistently across JSON and YAML sources
func normalizeScalar(v interface{}) interface{} {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return v
}
