package paging_test

import (
	"encoding/base64"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/taiwon1/sprint3/internal/paging"
)

func rawToken(payload string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

var _ = Describe("cursor codec", func() {
	snapshot := paging.RowSnapshot{
		"created_at": paging.Time(at("2024-01-01T00:00:00.123456Z")),
		"id":         paging.Int(9007199254740993),
	}

	It("round-trips data and sort", func() {
		token, err := paging.EncodeCursor(snapshot, commentOrder)
		Expect(err).NotTo(HaveOccurred())

		env, err := paging.Decode(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Sort).To(Equal(commentOrder.Canonical()))

		decoded, err := env.Bind(commentOrder)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded).To(HaveLen(len(snapshot)))
		for field, value := range snapshot {
			Expect(decoded[field].Equal(value)).To(BeTrue(), field)
		}
	})

	It("compares timestamps by instant across time zones", func() {
		local := time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("KST", 9*60*60))
		token, err := paging.EncodeCursor(paging.RowSnapshot{"created_at": paging.Time(local), "id": paging.Int(1)}, commentOrder)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := paging.DecodeCursor(token, commentOrder)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded["created_at"].Time().Equal(at("2024-01-01T00:00:00Z"))).To(BeTrue())
	})

	It("is deterministic", func() {
		first, err := paging.EncodeCursor(snapshot, commentOrder)
		Expect(err).NotTo(HaveOccurred())
		second, err := paging.EncodeCursor(paging.RowSnapshot{"id": snapshot["id"], "created_at": snapshot["created_at"]}, commentOrder)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("produces URL-safe tokens", func() {
		token, err := paging.EncodeCursor(paging.RowSnapshot{"created_at": paging.Time(at("2024-01-01T00:00:00Z")), "id": paging.Int(1)}, commentOrder)
		Expect(err).NotTo(HaveOccurred())
		Expect(token).To(MatchRegexp(`^[A-Za-z0-9_-]+$`))
	})

	It("round-trips string keys", func() {
		order := paging.SortSpec{paging.Asc("title", paging.FieldTypeString), paging.Asc("id", paging.FieldTypeInteger)}
		token, err := paging.EncodeCursor(paging.RowSnapshot{"title": paging.String("héllo_world"), "id": paging.Int(3)}, order)
		Expect(err).NotTo(HaveOccurred())
		decoded, err := paging.DecodeCursor(token, order)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded["title"].Equal(paging.String("héllo_world"))).To(BeTrue())
	})

	DescribeTable("coerces identifiers to integers",
		func(payload string) {
			decoded, err := paging.DecodeCursor(rawToken(payload), commentOrder)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded["id"].Type()).To(Equal(paging.FieldTypeInteger))
			Expect(decoded["id"].Int()).To(Equal(int64(12)))
		},
		Entry("decimal string", `{"data":{"created_at":"2024-01-01T00:00:00Z","id":"12"},"sort":["created_at_desc","id_asc"]}`),
		Entry("JSON number", `{"data":{"created_at":"2024-01-01T00:00:00Z","id":12},"sort":["created_at_desc","id_asc"]}`),
	)

	DescribeTable("rejects corrupted tokens with ErrInvalidCursor",
		func(token string) {
			_, err := paging.DecodeCursor(token, commentOrder)
			Expect(err).To(MatchError(paging.ErrInvalidCursor))
		},
		Entry("not base64", "%%%not-base64%%%"),
		Entry("standard base64 padding", base64.StdEncoding.EncodeToString([]byte(`{"data":{},"sort":["id_asc"]}`))+"="),
		Entry("base64 of non-JSON", rawToken("2024-01-01T00:00:00Z_12")),
		Entry("JSON array", rawToken(`[1,2]`)),
		Entry("JSON null", rawToken(`null`)),
		Entry("missing data", rawToken(`{"sort":["created_at_desc","id_asc"]}`)),
		Entry("null data", rawToken(`{"data":null,"sort":["created_at_desc","id_asc"]}`)),
		Entry("missing sort", rawToken(`{"data":{"created_at":"2024-01-01T00:00:00Z","id":"1"}}`)),
		Entry("empty sort", rawToken(`{"data":{"created_at":"2024-01-01T00:00:00Z","id":"1"},"sort":[]}`)),
		Entry("malformed sort key", rawToken(`{"data":{"created_at":"2024-01-01T00:00:00Z","id":"1"},"sort":["created_at","id_asc"]}`)),
		Entry("foreign ordering", rawToken(`{"data":{"created_at":"2024-01-01T00:00:00Z","id":"1"},"sort":["created_at_asc","id_asc"]}`)),
		Entry("reordered keys", rawToken(`{"data":{"created_at":"2024-01-01T00:00:00Z","id":"1"},"sort":["id_asc","created_at_desc"]}`)),
		Entry("missing field value", rawToken(`{"data":{"created_at":"2024-01-01T00:00:00Z"},"sort":["created_at_desc","id_asc"]}`)),
		Entry("null field value", rawToken(`{"data":{"created_at":"2024-01-01T00:00:00Z","id":null},"sort":["created_at_desc","id_asc"]}`)),
		Entry("malformed timestamp", rawToken(`{"data":{"created_at":"yesterday","id":"1"},"sort":["created_at_desc","id_asc"]}`)),
		Entry("numeric timestamp", rawToken(`{"data":{"created_at":1704067200,"id":"1"},"sort":["created_at_desc","id_asc"]}`)),
		Entry("fractional identifier", rawToken(`{"data":{"created_at":"2024-01-01T00:00:00Z","id":"1.5"},"sort":["created_at_desc","id_asc"]}`)),
		Entry("identifier overflowing int64", rawToken(`{"data":{"created_at":"2024-01-01T00:00:00Z","id":"99999999999999999999"},"sort":["created_at_desc","id_asc"]}`)),
	)

	It("reports the reason for a rejected token", func() {
		_, err := paging.Decode(rawToken(`{"sort":["created_at_desc","id_asc"]}`))
		Expect(err).To(MatchError(ContainSubstring("missing data")))
	})
})
