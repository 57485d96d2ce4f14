package paging_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/taiwon1/sprint3/internal/paging"
)

var _ = Describe("SortSpec", func() {
	It("renders canonical keys in precedence order", func() {
		Expect(commentOrder.Canonical()).To(Equal([]string{"created_at_desc", "id_asc"}))
	})

	It("renders an empty spec as an empty list", func() {
		Expect(paging.SortSpec{}.Canonical()).To(BeEmpty())
	})

	It("orders rows by the primary key then the tie-breaker", func() {
		newer := testRow{ID: 9, CreatedAt: at("2024-01-02T00:00:00Z")}
		older := testRow{ID: 1, CreatedAt: at("2024-01-01T00:00:00Z")}
		tiedLow := testRow{ID: 2, CreatedAt: at("2024-01-01T00:00:00Z")}

		Expect(commentOrder.Compare(newer, older)).To(Equal(-1))
		Expect(commentOrder.Compare(older, newer)).To(Equal(1))
		Expect(commentOrder.Compare(older, tiedLow)).To(Equal(-1))
		Expect(commentOrder.Compare(older, older)).To(Equal(0))
	})

	It("snapshots only the fields named by the ordering", func() {
		row := testRow{ID: 7, CreatedAt: at("2024-01-01T00:00:00Z"), Group: 3}
		snapshot, err := commentOrder.Snapshot(row)
		Expect(err).NotTo(HaveOccurred())
		Expect(snapshot).To(HaveLen(2))
		Expect(snapshot["id"].Equal(paging.Int(7))).To(BeTrue())
		Expect(snapshot["created_at"].Equal(paging.Time(row.CreatedAt))).To(BeTrue())
	})

	It("refuses to snapshot a row missing a sort field", func() {
		_, err := paging.SortSpec{paging.Asc("title", paging.FieldTypeString), paging.Asc("id", paging.FieldTypeInteger)}.Snapshot(testRow{ID: 1})
		Expect(err).To(HaveOccurred())
	})

	It("refuses to snapshot a field whose type differs from the declared one", func() {
		_, err := paging.SortSpec{paging.Asc("id", paging.FieldTypeString), paging.Asc("group", paging.FieldTypeInteger)}.Snapshot(testRow{ID: 1})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ParseSortKey", func() {
	DescribeTable("splits on the last separator",
		func(text string, field string, direction paging.Direction) {
			parsedField, parsedDirection, err := paging.ParseSortKey(text)
			Expect(err).NotTo(HaveOccurred())
			Expect(parsedField).To(Equal(field))
			Expect(parsedDirection).To(Equal(direction))
		},
		Entry("simple field", "id_asc", "id", paging.DirectionAsc),
		Entry("field containing the separator", "created_at_desc", "created_at", paging.DirectionDesc),
		Entry("field ending in a direction word", "sort_asc_desc", "sort_asc", paging.DirectionDesc),
	)

	DescribeTable("rejects malformed keys",
		func(text string) {
			_, _, err := paging.ParseSortKey(text)
			Expect(err).To(HaveOccurred())
		},
		Entry("no separator", "id"),
		Entry("empty field", "_asc"),
		Entry("unknown direction", "id_sideways"),
		Entry("empty direction", "id_"),
		Entry("empty string", ""),
	)

	It("inverts Canonical", func() {
		for i, text := range commentOrder.Canonical() {
			field, direction, err := paging.ParseSortKey(text)
			Expect(err).NotTo(HaveOccurred())
			Expect(field).To(Equal(commentOrder[i].Field))
			Expect(direction).To(Equal(commentOrder[i].Direction))
		}
	})
})
