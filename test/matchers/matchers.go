package matchers

import (
	"encoding/json"
	"fmt"

	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/format"
	. "github.com/onsi/gomega/gstruct"
	"github.com/onsi/gomega/types"
)

func parseJSONObject(actual any) (object map[string]any, err error) {
	var data []byte
	switch a := actual.(type) {
	case []byte:
		data = a
	case string:
		data = []byte(a)
	default:
		err = fmt.Errorf("MatchJSONObject matcher actual value must be of type []byte or string. Got:\n%s", format.Object(actual, 1))
		return
	}
	err = json.Unmarshal(data, &object)
	if err != nil {
		err = fmt.Errorf("MatchJSONObject failed to parse JSON object from actual value: %w", err)
	}
	return
}

func normalizeToJSONString(actual any) ([]byte, error) {
	switch a := actual.(type) {
	case []byte:
		return a, nil
	case string:
		return []byte(a), nil
	default:
		return json.Marshal(a)
	}
}

// MatchJSONObject decodes a JSON object and applies matchWith to it, or
// compares it for JSON equality with matchWith when that is not a matcher.
func MatchJSONObject(matchWith any) OmegaMatcher {
	switch matchWith := matchWith.(type) {
	case OmegaMatcher:
		return WithTransform(parseJSONObject, matchWith)
	default:
		jsonString, err := json.Marshal(matchWith)
		if err != nil {
			// KLUDGE: probably should deal with this error instead of panic...
			panic(err)
		}
		return WithTransform(normalizeToJSONString, MatchJSON(jsonString))
	}
}

// HaveAPIError matches an error body of the given type. When details are
// given each of them must appear among the error details.
func HaveAPIError(errorType string, details ...string) OmegaMatcher {
	var detailsMatcher types.GomegaMatcher = BeAssignableToTypeOf([]any{})
	if len(details) > 0 {
		expected := make([]any, 0, len(details))
		for _, detail := range details {
			expected = append(expected, detail)
		}
		detailsMatcher = ContainElements(expected...)
	}
	return MatchJSONObject(MatchAllKeys(Keys{
		"error":             Equal(errorType),
		"error_description": Not(BeEmpty()),
		"error_details":     detailsMatcher,
	}))
}

func JSONValue(value any) (output any) {
	serializedValue, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	err = json.Unmarshal(serializedValue, &output)
	if err != nil {
		panic(err)
	}
	return output
}
