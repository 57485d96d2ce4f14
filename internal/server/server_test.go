package server

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/taiwon1/sprint3/internal/logging"
	"github.com/taiwon1/sprint3/internal/storage"
)

type apiErrorBody struct {
	Error       string   `json:"error"`
	Description string   `json:"error_description"`
	Details     []string `json:"error_details"`
}

func decodeAPIError(rec *httptest.ResponseRecorder) (body apiErrorBody) {
	Expect(rec.Header().Get("Content-Type")).To(HavePrefix("application/json"))
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return
}

func signToken(key *rsa.PrivateKey, subject string, expiresAt time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(key)
	Expect(err).NotTo(HaveOccurred())
	return signed
}

var _ = Describe("Server", func() {
	var (
		conn      *unavailableDB
		publicKey *rsa.PublicKey
		router    *chi.Mux
	)

	send := func(method, target, body string, headers ...string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		for i := 0; i+1 < len(headers); i += 2 {
			req.Header.Set(headers[i], headers[i+1])
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		conn = &unavailableDB{}
		publicKey = nil
	})

	JustBeforeEach(func() {
		logger, err := logging.New("error", "text", GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())
		images, err := storage.NewDiskStore(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		router, err = New(Env{
			Logger:    logger,
			DB:        conn,
			Images:    images,
			PublicKey: publicKey,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("refuses to start without its collaborators", func() {
		_, err := New(Env{})
		Expect(err).To(HaveOccurred())
	})

	Describe("GET /", func() {
		It("describes the API", func() {
			rec := send(http.MethodGet, "/", "")
			Expect(rec).To(HaveHTTPStatus(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON(`{"message":"API Server","endpoints":["/products","/articles"]}`))
		})
	})

	It("answers health checks without touching the database", func() {
		Expect(send(http.MethodGet, "/health", "")).To(HaveHTTPStatus(http.StatusOK))
		Expect(conn.calls).To(BeZero())
	})

	It("exposes metrics", func() {
		send(http.MethodGet, "/", "")
		rec := send(http.MethodGet, "/metrics", "")
		Expect(rec).To(HaveHTTPStatus(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("sprint3_http_requests_total"))
	})

	It("answers unknown routes with a not_found error", func() {
		rec := send(http.MethodGet, "/nowhere", "")
		Expect(rec).To(HaveHTTPStatus(http.StatusNotFound))
		Expect(decodeAPIError(rec).Error).To(Equal("not_found"))
	})

	It("answers unsupported methods with 405", func() {
		rec := send(http.MethodPut, "/articles", "{}")
		Expect(rec).To(HaveHTTPStatus(http.StatusMethodNotAllowed))
		Expect(decodeAPIError(rec).Error).To(Equal("bad_param"))
	})

	It("answers unsupported methods on nested routers with 405", func() {
		rec := send(http.MethodPut, "/articles/1/comments", "{}")
		Expect(rec).To(HaveHTTPStatus(http.StatusMethodNotAllowed))
		Expect(decodeAPIError(rec).Error).To(Equal("bad_param"))
	})

	DescribeTable("rejects malformed ids before querying",
		func(method, target, body string) {
			rec := send(method, target, body)
			Expect(rec).To(HaveHTTPStatus(http.StatusBadRequest))
			Expect(decodeAPIError(rec).Details).To(ConsistOf("id: must be a positive integer"))
			Expect(conn.calls).To(BeZero())
		},
		Entry("fetch article", http.MethodGet, "/articles/abc", ""),
		Entry("update article", http.MethodPatch, "/articles/abc", `{"title":"x"}`),
		Entry("delete article", http.MethodDelete, "/articles/abc", ""),
		Entry("zero article id", http.MethodGet, "/articles/0", ""),
		Entry("fetch product", http.MethodGet, "/products/1.5", ""),
		Entry("delete product", http.MethodDelete, "/products/abc", ""),
		Entry("list comments", http.MethodGet, "/articles/abc/comments", ""),
		Entry("create comment", http.MethodPost, "/products/abc/comments", `{"content":"hi"}`),
		Entry("product image", http.MethodGet, "/products/abc/image", ""),
	)

	DescribeTable("validates list parameters",
		func(target string, detail string) {
			rec := send(http.MethodGet, target, "")
			Expect(rec).To(HaveHTTPStatus(http.StatusBadRequest))
			body := decodeAPIError(rec)
			Expect(body.Error).To(Equal("bad_param"))
			Expect(body.Details).To(ContainElement(detail))
			Expect(conn.calls).To(BeZero())
		},
		Entry("zero limit", "/articles?limit=0", "limit: must be a positive integer"),
		Entry("non-numeric limit", "/products?limit=ten", "limit: must be a positive integer"),
		Entry("oversized limit", "/articles?limit=101", "limit: must be less than or equal to 100"),
		Entry("negative offset", "/products?offset=-1", "offset: must be a non-negative integer"),
		Entry("comment page limit", "/articles/1/comments?limit=-2", "limit: must be a positive integer"),
	)

	DescribeTable("validates payloads before querying",
		func(method, target, body string, details ...string) {
			rec := send(method, target, body)
			Expect(rec).To(HaveHTTPStatus(http.StatusBadRequest))
			apiErr := decodeAPIError(rec)
			Expect(apiErr.Error).To(Equal("bad_param"))
			Expect(apiErr.Details).To(ContainElements(details))
			Expect(conn.calls).To(BeZero())
		},
		Entry("malformed JSON", http.MethodPost, "/articles", `{"title":`, "body: must be a valid JSON object"),
		Entry("missing article fields", http.MethodPost, "/articles", `{}`, "title: missing required field", "content: missing required field"),
		Entry("empty article patch", http.MethodPatch, "/articles/1", `{}`, "body: must contain at least one field to update"),
		Entry("negative price", http.MethodPost, "/products", `{"name":"lamp","price":-1}`, "price: must be greater than or equal to 0"),
		Entry("empty product patch", http.MethodPatch, "/products/1", `{}`, "body: must contain at least one field to update"),
		Entry("missing comment content", http.MethodPost, "/articles/1/comments", `{}`, "content: missing required field"),
		Entry("comment patch without content", http.MethodPatch, "/products/1/comments/2", `{}`, "content: missing required field"),
	)

	It("treats a malformed comment id as a missing comment", func() {
		rec := send(http.MethodDelete, "/articles/1/comments/abc", "")
		Expect(rec).To(HaveHTTPStatus(http.StatusNotFound))
		Expect(decodeAPIError(rec).Error).To(Equal("not_found"))
		Expect(conn.calls).To(BeZero())
	})

	It("hides storage failures behind an unknown error", func() {
		rec := send(http.MethodGet, "/articles/1", "")
		Expect(rec).To(HaveHTTPStatus(http.StatusInternalServerError))
		body := decodeAPIError(rec)
		Expect(body.Error).To(Equal("unknown"))
		Expect(body.Details).NotTo(ContainElement(ContainSubstring(errUnavailable.Error())))
		Expect(conn.calls).To(Equal(1))
	})

	Context("with a public key configured", func() {
		var privateKey *rsa.PrivateKey

		BeforeEach(func() {
			var err error
			privateKey, err = rsa.GenerateKey(rand.Reader, 2048)
			Expect(err).NotTo(HaveOccurred())
			publicKey = &privateKey.PublicKey
		})

		It("keeps reads public", func() {
			Expect(send(http.MethodGet, "/", "")).To(HaveHTTPStatus(http.StatusOK))
			Expect(send(http.MethodGet, "/articles/abc", "")).To(HaveHTTPStatus(http.StatusBadRequest))
		})

		DescribeTable("rejects writes without a valid bearer token",
			func(authorization func() string) {
				var headers []string
				if header := authorization(); header != "" {
					headers = []string{"Authorization", header}
				}
				rec := send(http.MethodPost, "/articles", `{"title":"t","content":"c"}`, headers...)
				Expect(rec).To(HaveHTTPStatus(http.StatusUnauthorized))
				Expect(rec).To(HaveHTTPHeaderWithValue("WWW-Authenticate", `Bearer, charset="UTF-8"`))
				Expect(decodeAPIError(rec).Error).To(Equal("unauthorized"))
				Expect(conn.calls).To(BeZero())
			},
			Entry("missing header", func() string { return "" }),
			Entry("wrong scheme", func() string { return "Basic dXNlcjpwYXNz" }),
			Entry("empty token", func() string { return "Bearer " }),
			Entry("garbage token", func() string { return "Bearer not-a-jwt" }),
			Entry("expired token", func() string {
				return "Bearer " + signToken(privateKey, "alice", time.Now().Add(-time.Minute))
			}),
			Entry("token signed by another key", func() string {
				otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
				Expect(err).NotTo(HaveOccurred())
				return "Bearer " + signToken(otherKey, "mallory", time.Now().Add(time.Hour))
			}),
			Entry("unsigned token", func() string {
				token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "eve"}).
					SignedString(jwt.UnsafeAllowNoneSignatureType)
				Expect(err).NotTo(HaveOccurred())
				return "Bearer " + token
			}),
		)

		It("admits writes carrying a valid token", func() {
			token := signToken(privateKey, "alice", time.Now().Add(time.Hour))
			rec := send(http.MethodPost, "/articles", `{}`, "Authorization", "Bearer "+token)
			Expect(rec).To(HaveHTTPStatus(http.StatusBadRequest))
			Expect(decodeAPIError(rec).Details).To(ContainElement("title: missing required field"))
		})
	})
})
