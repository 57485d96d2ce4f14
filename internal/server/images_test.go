package server

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("image keys", func() {
	It("groups images by product and keeps the extension", func() {
		Expect(imageKey(42, ".png")).To(MatchRegexp(`^images/products/42/42-[0-9a-f-]{36}\.png$`))
	})

	It("never reuses a key", func() {
		Expect(imageKey(1, ".gif")).NotTo(Equal(imageKey(1, ".gif")))
	})

	It("points clients at the image route", func() {
		Expect(imageURL(7)).To(Equal("/products/7/image"))
	})
})
