package capabilities

import "context"

// Feature identifica una capacidad de la plataforma del cliente.
type Feature string

const (
	// FeatureNFCWrite: el navegador puede escribir tags via Web NFC.
	FeatureNFCWrite Feature = "nfc:write"
	// FeatureNFCRead: el navegador puede leer tags via Web NFC.
	FeatureNFCRead Feature = "nfc:read"
)

// Platform es la familia de dispositivo detectada.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformDesktop Platform = "desktop"
)

// CapabilityCheck describe qué se pregunta y sobre qué cliente.
type CapabilityCheck struct {
	Feature   Feature
	UserAgent string
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
	Platform(ctx context.Context, userAgent string) Platform
}
