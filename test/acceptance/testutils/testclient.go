package testutils

import (
	"bytes"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/gomega"
)

type TestClient struct {
	baseURL    url.URL
	authToken  string
	signingKey rsa.PrivateKey
}

func NewTestClient(baseURL url.URL, signingKey rsa.PrivateKey) *TestClient {
	return &TestClient{baseURL: baseURL, signingKey: signingKey}
}

func (client *TestClient) endpoint(path ...string) *url.URL {
	return client.baseURL.JoinPath(path...)
}

func (client *TestClient) authenticateWithAuthToken(signingMethod jwt.SigningMethod, key any, claims jwt.Claims) {
	authToken := jwt.NewWithClaims(signingMethod, claims)
	var err error
	client.authToken, err = authToken.SignedString(key)
	Expect(err).NotTo(HaveOccurred())
}

func (client *TestClient) AuthenticateAs(subject string) {
	client.authenticateWithAuthToken(jwt.SigningMethodRS256, &client.signingKey, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
}

func (client *TestClient) AuthenticateWithExpiredJWT() {
	client.authenticateWithAuthToken(jwt.SigningMethodRS256, &client.signingKey, jwt.RegisteredClaims{
		Subject:   "expired",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
}

func (client *TestClient) AuthenticateWithUnsignedJWT() {
	client.authenticateWithAuthToken(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.RegisteredClaims{
		Subject: "unsigned",
	})
}

func (client *TestClient) Unauthenticate() {
	client.authToken = ""
}

func (client *TestClient) send(method string, endpoint *url.URL, contentType string, body io.Reader) (res *http.Response) {
	req, err := http.NewRequest(method, endpoint.String(), body)
	Expect(err).NotTo(HaveOccurred())
	if client.authToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", client.authToken))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err = http.DefaultClient.Do(req)
	Expect(err).NotTo(HaveOccurred())
	return
}

func (client *TestClient) sendJSON(method string, endpoint *url.URL, body any) *http.Response {
	if body == nil {
		return client.send(method, endpoint, "", nil)
	}
	jsonBody, err := json.Marshal(body)
	Expect(err).NotTo(HaveOccurred())
	return client.send(method, endpoint, "application/json", bytes.NewReader(jsonBody))
}

// SendRaw posts an arbitrary payload, for exercising malformed input.
func (client *TestClient) SendRaw(method string, path string, contentType string, body []byte) *http.Response {
	return client.send(method, client.endpoint(path), contentType, bytes.NewReader(body))
}

// Get follows a path or an absolute URL, such as one taken from a Link header.
func (client *TestClient) Get(path string) (response *http.Response) {
	uri, err := url.Parse(path)
	Expect(err).NotTo(HaveOccurred())
	endpoint := client.baseURL.JoinPath(uri.Path)
	endpoint.RawQuery = uri.RawQuery
	return client.sendJSON(http.MethodGet, endpoint, nil)
}

type ListOptions struct {
	Limit   int
	Offset  int
	Keyword string
}

func (options ListOptions) apply(endpoint *url.URL) *url.URL {
	query := endpoint.Query()
	if options.Limit != 0 {
		query.Set("limit", fmt.Sprint(options.Limit))
	}
	if options.Offset != 0 {
		query.Set("offset", fmt.Sprint(options.Offset))
	}
	if options.Keyword != "" {
		query.Set("keyword", options.Keyword)
	}
	endpoint.RawQuery = query.Encode()
	return endpoint
}

func (client *TestClient) CreateArticle(article any) *http.Response {
	return client.sendJSON(http.MethodPost, client.endpoint("articles"), article)
}

func (client *TestClient) ListArticles(options ListOptions) *http.Response {
	return client.sendJSON(http.MethodGet, options.apply(client.endpoint("articles")), nil)
}

func (client *TestClient) GetArticle(id string) *http.Response {
	return client.sendJSON(http.MethodGet, client.endpoint("articles", id), nil)
}

func (client *TestClient) UpdateArticle(id string, patch any) *http.Response {
	return client.sendJSON(http.MethodPatch, client.endpoint("articles", id), patch)
}

func (client *TestClient) DeleteArticle(id string) *http.Response {
	return client.sendJSON(http.MethodDelete, client.endpoint("articles", id), nil)
}

func (client *TestClient) CreateProduct(product any) *http.Response {
	return client.sendJSON(http.MethodPost, client.endpoint("products"), product)
}

func (client *TestClient) ListProducts(options ListOptions) *http.Response {
	return client.sendJSON(http.MethodGet, options.apply(client.endpoint("products")), nil)
}

func (client *TestClient) GetProduct(id string) *http.Response {
	return client.sendJSON(http.MethodGet, client.endpoint("products", id), nil)
}

func (client *TestClient) UpdateProduct(id string, patch any) *http.Response {
	return client.sendJSON(http.MethodPatch, client.endpoint("products", id), patch)
}

func (client *TestClient) DeleteProduct(id string) *http.Response {
	return client.sendJSON(http.MethodDelete, client.endpoint("products", id), nil)
}

// Parent names a resource that owns comments, e.g. {"articles", "1"}.
type Parent struct {
	Collection string
	ID         string
}

func Article(id string) Parent {
	return Parent{Collection: "articles", ID: id}
}

func Product(id string) Parent {
	return Parent{Collection: "products", ID: id}
}

type PageOptions struct {
	Limit  int
	Cursor string
}

func (client *TestClient) ListComments(parent Parent, options PageOptions) *http.Response {
	endpoint := client.endpoint(parent.Collection, parent.ID, "comments")
	query := endpoint.Query()
	if options.Limit != 0 {
		query.Set("limit", fmt.Sprint(options.Limit))
	}
	if options.Cursor != "" {
		query.Set("cursor", options.Cursor)
	}
	endpoint.RawQuery = query.Encode()
	return client.sendJSON(http.MethodGet, endpoint, nil)
}

func (client *TestClient) CreateComment(parent Parent, comment any) *http.Response {
	return client.sendJSON(http.MethodPost, client.endpoint(parent.Collection, parent.ID, "comments"), comment)
}

func (client *TestClient) UpdateComment(parent Parent, commentID string, comment any) *http.Response {
	return client.sendJSON(http.MethodPatch, client.endpoint(parent.Collection, parent.ID, "comments", commentID), comment)
}

func (client *TestClient) DeleteComment(parent Parent, commentID string) *http.Response {
	return client.sendJSON(http.MethodDelete, client.endpoint(parent.Collection, parent.ID, "comments", commentID), nil)
}

// UploadProductImage posts content as a multipart file under field.
func (client *TestClient) UploadProductImage(productID string, field string, filename string, content []byte) *http.Response {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile(field, filename)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write(content)
	Expect(err).NotTo(HaveOccurred())
	Expect(form.Close()).To(Succeed())
	return client.send(http.MethodPost, client.endpoint("products", productID, "image"), form.FormDataContentType(), &body)
}

func (client *TestClient) GetProductImage(productID string) *http.Response {
	return client.sendJSON(http.MethodGet, client.endpoint("products", productID, "image"), nil)
}
