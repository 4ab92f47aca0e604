package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"pet-tag/internal/ports/objects"
)

var _ objects.Store = (*Store)(nil)

// Store sube las fotos a Cloudinary. El public id es la key sin extensión,
// dentro de la carpeta configurada.
type Store struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func New(cloudName, apiKey, apiSecret, folder string) (*Store, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &Store{cld: cld, folder: strings.Trim(folder, "/")}, nil
}

func (s *Store) Put(ctx context.Context, key, _ string, body io.Reader) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID(key),
		Overwrite:    api.Bool(true),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	id := publicID(key)
	if s.folder != "" {
		id = s.folder + "/" + id
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     id,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}

// KeyForURL parte una secure URL de Cloudinary:
// https://res.cloudinary.com/<cloud>/image/upload/v<version>/<folder>/<key>
func (s *Store) KeyForURL(u string) (string, bool) {
	_, rest, ok := strings.Cut(u, "/image/upload/")
	if !ok {
		return "", false
	}
	if first, after, found := strings.Cut(rest, "/"); found && isVersion(first) {
		rest = after
	}
	if s.folder != "" {
		if rest, ok = strings.CutPrefix(rest, s.folder+"/"); !ok {
			return "", false
		}
	}
	return rest, rest != ""
}

func isVersion(seg string) bool {
	if len(seg) < 2 || seg[0] != 'v' {
		return false
	}
	for _, c := range seg[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func publicID(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}
