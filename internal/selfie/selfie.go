// Package selfie is the capture upload boundary. The engine only ever sees
// the public URL that comes back; pixel data never crosses into it.
package selfie

import (
	"context"
	"fmt"
	"io"
	"time"
)

type Kind string

const (
	KindCheckIn  Kind = "checkin"
	KindCheckOut Kind = "checkout"
)

// ObjectPath builds the storage key for a capture:
// {employeeID}/{checkin|checkout}-{epochMillis}.jpg
func ObjectPath(employeeID string, kind Kind, at time.Time) string {
	return fmt.Sprintf("%s/%s-%d.jpg", employeeID, kind, at.UnixMilli())
}

//go:generate mockgen -source=selfie.go -destination=mock/selfie_mock.go -package=mock
type Uploader interface {
	Upload(ctx context.Context, path string, blob io.Reader) (string, error)
}

// StaticUploader discards the blob and returns a deterministic URL. Used in
// tests and in environments without Cloudinary credentials.
type StaticUploader struct {
	BaseURL string
}

func (u StaticUploader) Upload(_ context.Context, path string, _ io.Reader) (string, error) {
	return u.BaseURL + "/" + path, nil
}
