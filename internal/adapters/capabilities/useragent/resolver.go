package useragent

import (
	"context"
	"errors"
	"strings"

	"pet-tag/internal/ports/capabilities"
)

var ErrUnknownFeature = errors.New("unknown capability")

// Resolver decide capacidades del cliente a partir del User-Agent.
// Web NFC solo existe en Chromium sobre Android; iOS y desktop van a instrucciones manuales.
type Resolver struct {
	allowAll bool
}

// NewResolver crea un resolver. allowAll=true responde true a todo (útil en dev
// para probar el flujo desde desktop).
func NewResolver(allowAll bool) *Resolver {
	return &Resolver{allowAll: allowAll}
}

func (r *Resolver) Platform(_ context.Context, userAgent string) capabilities.Platform {
	return detectPlatform(userAgent)
}

func (r *Resolver) HasFeature(ctx context.Context, in capabilities.CapabilityCheck) (bool, error) {
	switch in.Feature {
	case capabilities.FeatureNFCWrite, capabilities.FeatureNFCRead:
	default:
		return false, ErrUnknownFeature
	}

	if r != nil && r.allowAll {
		return true, nil
	}

	if detectPlatform(in.UserAgent) != capabilities.PlatformAndroid {
		return false, nil
	}
	return isChromium(in.UserAgent), nil
}

func detectPlatform(ua string) capabilities.Platform {
	l := strings.ToLower(ua)
	switch {
	case strings.Contains(l, "iphone"), strings.Contains(l, "ipad"), strings.Contains(l, "ipod"):
		return capabilities.PlatformIOS
	case strings.Contains(l, "android"):
		return capabilities.PlatformAndroid
	default:
		return capabilities.PlatformDesktop
	}
}

// Firefox y Samsung Internet no implementan NDEFReader.
func isChromium(ua string) bool {
	l := strings.ToLower(ua)
	if strings.Contains(l, "firefox") || strings.Contains(l, "samsungbrowser") {
		return false
	}
	return strings.Contains(l, "chrome/") || strings.Contains(l, "edga/") || strings.Contains(l, "opr/")
}
