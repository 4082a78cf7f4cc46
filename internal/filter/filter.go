package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skylinehq/skyline/api/internal/models"
)

// Apply evaluates the criteria against each building and returns the
// matching subset, preserving the original order. A building whose queried
// attribute is absent never matches, regardless of operator; non-comparable
// operand types and unsupported operators are treated as non-matches rather
// than errors.
func Apply(criteria models.FilterCriteria, buildings []models.Building) []models.Building {
	matched := make([]models.Building, 0, len(buildings))
	for _, building := range buildings {
		if Matches(criteria, building) {
			matched = append(matched, building)
		}
	}
	return matched
}

// Matches reports whether one building satisfies the criteria.
func Matches(criteria models.FilterCriteria, building models.Building) bool {
	field, ok := building.AttributeValue(criteria.Attribute)
	if !ok {
		return false
	}

	switch criteria.Operator {
	case models.OpGreater, models.OpLess, models.OpGreaterEqual, models.OpLessEqual:
		return compareOrdered(criteria.Operator, field, criteria.Value)
	case models.OpEqual:
		return compareEqual(field, criteria.Value)
	default:
		// Unsupported operator: no match
		return false
	}
}

// compareOrdered handles >, <, >=, <=. Numeric fields compare against
// numeric values, textual fields lexicographically against string values;
// mismatched operand types exclude the building rather than raising.
func compareOrdered(operator string, field models.FieldValue, value any) bool {
	if field.IsText {
		text, ok := value.(string)
		if !ok {
			return false
		}
		return orderedHolds(operator, strings.Compare(field.Text, text))
	}

	number, ok := asNumber(value)
	if !ok {
		return false
	}

	switch operator {
	case models.OpGreater:
		return field.Number > number
	case models.OpLess:
		return field.Number < number
	case models.OpGreaterEqual:
		return field.Number >= number
	case models.OpLessEqual:
		return field.Number <= number
	}
	return false
}

// orderedHolds maps a three-way comparison result onto an ordered operator.
func orderedHolds(operator string, cmp int) bool {
	switch operator {
	case models.OpGreater:
		return cmp > 0
	case models.OpLess:
		return cmp < 0
	case models.OpGreaterEqual:
		return cmp >= 0
	case models.OpLessEqual:
		return cmp <= 0
	}
	return false
}

// compareEqual handles ==. Textual fields compare case-insensitively
// against the string form of the criteria value; numeric fields compare
// for exact equality.
func compareEqual(field models.FieldValue, value any) bool {
	if field.IsText {
		return strings.EqualFold(field.Text, asText(value))
	}

	number, ok := asNumber(value)
	if !ok {
		return false
	}
	return field.Number == number
}

// asText renders a criteria value for comparison against a textual field.
// Integral floats render with a trailing ".0" so that a numeric criteria
// value like 600000.0 equals the stored text "600000.0".
func asText(value any) string {
	v, ok := value.(float64)
	if !ok {
		return fmt.Sprint(value)
	}

	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// asNumber extracts a float64 from a decoded JSON value. json.Unmarshal
// produces float64 for numbers; the other cases cover criteria built in
// code rather than parsed from model output.
func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
