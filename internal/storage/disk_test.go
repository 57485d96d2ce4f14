package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

var _ = Describe("DiskStore", func() {
	var store *DiskStore
	var root string

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		var err error
		store, err = NewDiskStore(root)
		Expect(err).NotTo(HaveOccurred())
	})

	It("stores and reopens an object", func(ctx context.Context) {
		key := "images/products/1/1-abc.png"
		Expect(store.Put(ctx, key, bytes.NewReader(pngHeader), int64(len(pngHeader)), "image/png")).To(Succeed())
		Expect(filepath.Join(root, "images", "products", "1", "1-abc.png")).To(BeAnExistingFile())

		obj, err := store.Open(ctx, key)
		Expect(err).NotTo(HaveOccurred())
		defer obj.Close()
		Expect(obj.ContentType).To(Equal("image/png"))
		Expect(obj.Size).To(Equal(int64(len(pngHeader))))
		Expect(io.ReadAll(obj)).To(Equal(pngHeader))
	})

	It("replaces an existing object", func(ctx context.Context) {
		key := "a/b.bin"
		Expect(store.Put(ctx, key, bytes.NewReader([]byte("first")), 5, "")).To(Succeed())
		Expect(store.Put(ctx, key, bytes.NewReader([]byte("second")), 6, "")).To(Succeed())
		obj, err := store.Open(ctx, key)
		Expect(err).NotTo(HaveOccurred())
		defer obj.Close()
		Expect(io.ReadAll(obj)).To(Equal([]byte("second")))
	})

	It("leaves nothing behind when the size does not match", func(ctx context.Context) {
		err := store.Put(ctx, "short.bin", bytes.NewReader([]byte("abc")), 10, "")
		Expect(err).To(MatchError(ContainSubstring("short write")))
		entries, err := os.ReadDir(root)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("reports missing objects", func(ctx context.Context) {
		_, err := store.Open(ctx, "missing.png")
		Expect(err).To(MatchError(ErrObjectNotFound))
		Expect(store.Delete(ctx, "missing.png")).To(MatchError(ErrObjectNotFound))
	})

	It("deletes objects", func(ctx context.Context) {
		Expect(store.Put(ctx, "x.bin", bytes.NewReader([]byte("x")), 1, "")).To(Succeed())
		Expect(store.Delete(ctx, "x.bin")).To(Succeed())
		_, err := store.Open(ctx, "x.bin")
		Expect(err).To(MatchError(ErrObjectNotFound))
	})

	DescribeTable("rejects keys escaping the root",
		func(ctx context.Context, key string) {
			Expect(store.Put(ctx, key, bytes.NewReader(nil), 0, "")).To(MatchError(ContainSubstring("invalid object key")))
		},
		Entry("empty", ""),
		Entry("absolute", "/etc/passwd"),
		Entry("parent", "../outside"),
		Entry("nested parent", "a/../../outside"),
		Entry("dot", "."),
	)
})

