package models

// Supported comparison operators for filter criteria.
const (
	OpGreater      = ">"
	OpLess         = "<"
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
	OpEqual        = "=="
)

// FilterCriteria is the structured form of a natural-language query:
// a single (attribute, operator, value) constraint produced by the
// language model. Value holds whatever the model emitted, a float64
// or a string after JSON decoding. The struct is populated verbatim
// from the model output with no schema validation; unknown attributes
// and operators simply never match during evaluation.
type FilterCriteria struct {
	Attribute string `json:"attribute"`
	Operator  string `json:"operator"`
	Value     any    `json:"value"`
}
