package domain

import (
	"fmt"
	"net/url"
)

type URL struct {
	*url.URL
}

func (u URL) String() string {
	if u.URL == nil {
		return ""
	}
	return u.URL.String()
}

func (u URL) ModifyQuery(mod func(query url.Values)) URL {
	newURL := u.Clone()
	query := newURL.Query()
	mod(query)
	newURL.RawQuery = query.Encode()
	return newURL
}

func (u URL) Clone() URL {
	inner := *u.URL
	return URL{&inner}
}

// Link renders u as a single Link header value with the given relation.
func (u URL) Link(rel string) string {
	return fmt.Sprintf(`<%s>; rel="%s"`, u, rel)
}

func ParseURL(text string) (u URL, err error) {
	p, err := url.Parse(text)
	u = URL{p}
	return
}
