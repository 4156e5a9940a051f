package selfie

import (
	"context"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, folder string, logger ...*zap.Logger) *CloudinaryUploader {
	l := zap.L().Named("selfie.uploader")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("selfie.uploader")
	}
	return &CloudinaryUploader{cld: cld, folder: folder, logger: l}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, path string, blob io.Reader) (string, error) {
	// Cloudinary appends the format itself, the extension stays out of the id
	publicID := strings.TrimSuffix(path, ".jpg")

	resp, err := u.cld.Upload.Upload(ctx, blob, uploader.UploadParams{
		Folder:   u.folder,
		PublicID: publicID,
	})
	if err != nil {
		u.logger.Error("selfie upload failed", zap.String("path", path), zap.Error(err))
		return "", err
	}

	u.logger.Debug("selfie uploaded", zap.String("path", path), zap.String("url", resp.SecureURL))
	return resp.SecureURL, nil
}
