package objects

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxPhotoBytes es el tamaño máximo aceptado por foto.
const MaxPhotoBytes = 10 << 20

var ErrUnsupportedType = errors.New("unsupported content type")

// Store es el bucket de fotos. Put devuelve la URL pública del objeto.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (url string, err error)
	Delete(ctx context.Context, key string) error

	// KeyForURL recupera la key de una URL devuelta por Put; ok=false si la
	// URL no es de este store.
	KeyForURL(url string) (key string, ok bool)
}

var imageExt = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/heic": "heic",
	"image/gif":  "gif",
}

// ExtForContentType devuelve la extensión para un content type de imagen permitido.
func ExtForContentType(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := imageExt[ct]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	return ext, nil
}

// PhotoKey arma la key "<ownerID>/<uuid>.<ext>".
func PhotoKey(ownerID, contentType string) (string, error) {
	ext, err := ExtForContentType(contentType)
	if err != nil {
		return "", err
	}
	owner := strings.Trim(strings.TrimSpace(ownerID), "/")
	if owner == "" {
		return "", errors.New("owner id required")
	}
	return path.Join(owner, uuid.NewString()+"."+ext), nil
}
