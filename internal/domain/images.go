package domain

import (
	"path"
	"strings"
	"time"
)

const MaxImageSize = 5 << 20

var imageContentTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type ProductImage struct {
	ID          int64     `json:"id,string"`
	ProductID   int64     `json:"productId,string"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ImageContentType returns the content type implied by filename's extension,
// or false when the extension is not an accepted image format.
func ImageContentType(filename string) (string, bool) {
	contentType, ok := imageContentTypes[strings.ToLower(path.Ext(filename))]
	return contentType, ok
}

// IsImageContentType reports whether a sniffed content type is an accepted image format.
func IsImageContentType(contentType string) bool {
	for _, accepted := range imageContentTypes {
		if accepted == contentType {
			return true
		}
	}
	return false
}

type UploadedFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

type ImageUploadResponse struct {
	Message string       `json:"message"`
	File    UploadedFile `json:"file"`
}
