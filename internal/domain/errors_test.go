package domain

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ApiError", func() {
	It("can be serialized as JSON", func() {
		Expect(json.Marshal(ApiError{
			Type:    ApiErrorTypeBadParam,
			Details: []string{"title: is required"},
		})).To(MatchJSON(`
			{
				"error": "bad_param",
				"error_description": "A validation error occurred",
				"error_details": ["title: is required"]
			}
		`))
	})

	It("serializes missing details as an empty list", func() {
		Expect(json.Marshal(ApiError{Type: ApiErrorTypeNotFound})).To(MatchJSON(`
			{
				"error": "not_found",
				"error_description": "The requested resource could not be found",
				"error_details": []
			}
		`))
	})

	DescribeTable("describes every error type",
		func(errorType ApiErrorType) {
			Expect(ApiError{Type: errorType}.Description()).NotTo(BeEmpty())
			Expect(errorType.IsValid()).To(BeTrue())
		},
		Entry("unknown", ApiErrorTypeUnknown),
		Entry("bad_param", ApiErrorTypeBadParam),
		Entry("missing_param", ApiErrorTypeMissingParam),
		Entry("not_found", ApiErrorTypeNotFound),
		Entry("invalid_cursor", ApiErrorTypeInvalidCursor),
		Entry("unauthorized", ApiErrorTypeUnauthorized),
	)

	It("includes its details in the error message", func() {
		err := ApiError{Type: ApiErrorTypeInvalidCursor, Details: []string{"cursor: missing sort"}}
		Expect(err.Error()).To(HavePrefix("invalid_cursor: "))
		Expect(err.Error()).To(ContainSubstring("cursor: missing sort"))
	})
})
