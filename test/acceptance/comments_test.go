package acceptance

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/taiwon1/sprint3/internal/domain"
	"github.com/taiwon1/sprint3/internal/paging"
	"github.com/taiwon1/sprint3/test/acceptance/testutils"
	. "github.com/taiwon1/sprint3/test/matchers"
)

type commentPage = paging.Page[domain.Comment]

func commentIDs(comments []domain.Comment) []string {
	ids := make([]string, 0, len(comments))
	for _, comment := range comments {
		ids = append(ids, fmt.Sprint(comment.ID))
	}
	return ids
}

var _ = Describe("comments", func() {
	Describe("paging through tied timestamps", func() {
		var (
			article testutils.Parent
			seeded  []string
		)

		BeforeEach(func(ctx context.Context) {
			article = testutils.Article(fmt.Sprint(createArticle("busy thread").ID))
			var err error
			seeded, err = testDBConn.SeedArticleComments(ctx, article.ID, 5, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
			Expect(err).NotTo(HaveOccurred())
		})

		It("visits every comment once, ordered by id within the tie", func() {
			var visited []string
			cursor := ""
			pages := 0
			for {
				res := apiClient.ListComments(article, testutils.PageOptions{Limit: 2, Cursor: cursor})
				Expect(res).To(HaveHTTPStatus(http.StatusOK))
				link := res.Header.Get("Link")
				page := readJSONBody[commentPage](res)
				pages++
				Expect(len(page.Data)).To(BeNumerically("<=", 2))
				visited = append(visited, commentIDs(page.Data)...)
				if !page.HasNext {
					Expect(page.NextCursor).To(BeNil())
					Expect(link).To(BeEmpty())
					break
				}
				Expect(page.NextCursor).NotTo(BeNil())
				Expect(link).To(ContainSubstring(`rel="next"`))
				cursor = *page.NextCursor
				Expect(pages).To(BeNumerically("<", 10), "paging did not terminate")
			}
			Expect(pages).To(Equal(3))
			Expect(visited).To(Equal(seeded))
		})

		It("links to the next page", func() {
			res := apiClient.ListComments(article, testutils.PageOptions{Limit: 2})
			Expect(res).To(HaveHTTPStatus(http.StatusOK))
			first := readJSONBody[commentPage](res)
			Expect(first.HasNext).To(BeTrue())

			next, rel, ok := strings.Cut(strings.TrimPrefix(res.Header.Get("Link"), "<"), ">")
			Expect(ok).To(BeTrue())
			Expect(rel).To(Equal(`; rel="next"`))

			second := readJSONBody[commentPage](apiClient.Get(next))
			Expect(commentIDs(second.Data)).To(Equal(seeded[2:4]))
		})

		It("serves an empty page past the end", func() {
			page := readJSONBody[commentPage](apiClient.ListComments(article, testutils.PageOptions{Limit: 5}))
			Expect(page.Data).To(HaveLen(5))
			Expect(page.HasNext).To(BeFalse())
			Expect(page.NextCursor).To(BeNil())
		})

		It("rejects a malformed cursor", func() {
			res := apiClient.ListComments(article, testutils.PageOptions{Cursor: "not-a-cursor!"})
			Expect(res).To(HaveHTTPStatus(http.StatusBadRequest))
			Expect(readBody(res)).To(HaveAPIError("invalid_cursor"))
		})

		It("rejects a cursor issued under another ordering", func() {
			foreign, err := paging.EncodeCursor(
				paging.RowSnapshot{"id": paging.Int(1), "created_at": paging.Time(time.Now())},
				paging.SortSpec{paging.Asc("created_at", paging.FieldTypeTimestamp), paging.Asc("id", paging.FieldTypeInteger)},
			)
			Expect(err).NotTo(HaveOccurred())
			res := apiClient.ListComments(article, testutils.PageOptions{Cursor: foreign})
			Expect(res).To(HaveHTTPStatus(http.StatusBadRequest))
			Expect(readBody(res)).To(HaveAPIError("invalid_cursor"))
		})
	})

	for _, kind := range []string{"articles", "products"} {
		Describe("on "+kind, func() {
			var parent testutils.Parent

			BeforeEach(func() {
				if kind == "articles" {
					parent = testutils.Article(fmt.Sprint(createArticle("commented").ID))
				} else {
					parent = testutils.Product(fmt.Sprint(createProduct("commented", 100).ID))
				}
			})

			It("creates, lists, edits and deletes comments", func() {
				res := apiClient.CreateComment(parent, map[string]any{"content": "first!"})
				Expect(res).To(HaveHTTPStatus(http.StatusCreated))
				body := readBody(res)
				Expect(body).To(MatchJSONObject(HaveKey("created_at")))
				Expect(body).To(MatchJSONObject(HaveKeyWithValue("content", "first!")))
				Expect(body).To(MatchJSONObject(HaveKeyWithValue("id", BeAssignableToTypeOf(""))))

				page := readJSONBody[commentPage](apiClient.ListComments(parent, testutils.PageOptions{}))
				Expect(page.Data).To(HaveLen(1))
				commentID := fmt.Sprint(page.Data[0].ID)

				res = apiClient.UpdateComment(parent, commentID, map[string]any{"content": "edited"})
				Expect(res).To(HaveHTTPStatus(http.StatusOK))
				Expect(readJSONBody[domain.Comment](res).Content).To(Equal("edited"))

				Expect(apiClient.DeleteComment(parent, commentID)).To(HaveHTTPStatus(http.StatusNoContent))
				Expect(apiClient.DeleteComment(parent, commentID)).To(HaveHTTPStatus(http.StatusNotFound))
				page = readJSONBody[commentPage](apiClient.ListComments(parent, testutils.PageOptions{}))
				Expect(page.Data).To(BeEmpty())
			})

			It("lists newest comments first", func() {
				for _, content := range []string{"one", "two", "three"} {
					Expect(apiClient.CreateComment(parent, map[string]any{"content": content})).To(HaveHTTPStatus(http.StatusCreated))
				}
				page := readJSONBody[commentPage](apiClient.ListComments(parent, testutils.PageOptions{}))
				Expect(page.Data).To(HaveLen(3))
				Expect(page.Data[0].Content).To(Equal("three"))
				Expect(page.Data[2].Content).To(Equal("one"))
			})

			It("does not touch comments of another parent", func() {
				other := testutils.Article(fmt.Sprint(createArticle("elsewhere").ID))
				res := apiClient.CreateComment(other, map[string]any{"content": "not yours"})
				Expect(res).To(HaveHTTPStatus(http.StatusCreated))
				comment := readJSONBody[domain.Comment](res)

				Expect(apiClient.UpdateComment(parent, fmt.Sprint(comment.ID), map[string]any{"content": "hijack"})).
					To(HaveHTTPStatus(http.StatusNotFound))
				Expect(apiClient.DeleteComment(parent, fmt.Sprint(comment.ID))).To(HaveHTTPStatus(http.StatusNotFound))
			})

			It("rejects empty content", func() {
				res := apiClient.CreateComment(parent, map[string]any{"content": ""})
				Expect(res).To(HaveHTTPStatus(http.StatusBadRequest))
				Expect(readBody(res)).To(HaveAPIError("bad_param", "content: must be at least 1 characters long"))
			})

			It("treats a non-numeric comment id as missing", func() {
				res := apiClient.DeleteComment(parent, "abc")
				Expect(res).To(HaveHTTPStatus(http.StatusNotFound))
				Expect(readBody(res)).To(HaveAPIError("not_found"))
			})

			It("returns 404 for a missing parent", func() {
				missing := testutils.Parent{Collection: parent.Collection, ID: "4242"}
				Expect(apiClient.ListComments(missing, testutils.PageOptions{})).To(HaveHTTPStatus(http.StatusNotFound))
				Expect(apiClient.CreateComment(missing, map[string]any{"content": "hello?"})).To(HaveHTTPStatus(http.StatusNotFound))
			})

			It("removes comments with their parent", func() {
				Expect(apiClient.CreateComment(parent, map[string]any{"content": "bye"})).To(HaveHTTPStatus(http.StatusCreated))
				if kind == "articles" {
					Expect(apiClient.DeleteArticle(parent.ID)).To(HaveHTTPStatus(http.StatusNoContent))
				} else {
					Expect(apiClient.DeleteProduct(parent.ID)).To(HaveHTTPStatus(http.StatusNoContent))
				}
				Expect(apiClient.ListComments(parent, testutils.PageOptions{})).To(HaveHTTPStatus(http.StatusNotFound))
			})
		})
	}
})
