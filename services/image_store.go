package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// ImageStore holds room photos. Save returns the public URL of the stored image.
type ImageStore interface {
	Save(ctx context.Context, folder string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// decodeBase64Image accepts raw base64 or a data URI.
func decodeBase64Image(b64 string) ([]byte, error) {
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	if len(data) == 0 {
		return nil, newValidationError("image", "is empty")
	}
	return data, nil
}

// LocalImageStore writes images under Dir and serves them from URLPrefix.
type LocalImageStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalImageStore(dir, urlPrefix string) *LocalImageStore {
	return &LocalImageStore{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *LocalImageStore) Save(_ context.Context, folder string, data []byte) (string, error) {
	dir := filepath.Join(s.Dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	filename := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.URLPrefix + "/" + path.Join(folder, filename), nil
}

func (s *LocalImageStore) Delete(_ context.Context, url string) error {
	rel := strings.TrimPrefix(url, s.URLPrefix+"/")
	if rel == url || strings.Contains(rel, "..") {
		// not one of ours
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// CloudinaryImageStore uploads to a Cloudinary account.
type CloudinaryImageStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryImageStore(cloudinaryURL string) (*CloudinaryImageStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &CloudinaryImageStore{cld: cld}, nil
}

func (s *CloudinaryImageStore) Save(ctx context.Context, folder string, data []byte) (string, error) {
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
	resp, err := s.cld.Upload.Upload(ctx, dataURI, uploader.UploadParams{
		Folder:   folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryImageStore) Delete(ctx context.Context, url string) error {
	publicID, ok := cloudinaryPublicID(url)
	if !ok {
		return nil
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+/`)

// cloudinaryPublicID extracts "folder/name" from
// https://res.cloudinary.com/<cloud>/image/upload/v123/folder/name.jpg
func cloudinaryPublicID(url string) (string, bool) {
	idx := strings.Index(url, "/upload/")
	if idx < 0 {
		return "", false
	}
	rest := versionSegment.ReplaceAllString(url[idx+len("/upload/"):], "")
	if ext := path.Ext(rest); ext != "" {
		rest = strings.TrimSuffix(rest, ext)
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}
