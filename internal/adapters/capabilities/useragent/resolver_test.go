package useragent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-tag/internal/ports/capabilities"
)

const (
	uaAndroidChrome  = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Mobile Safari/537.36"
	uaAndroidFirefox = "Mozilla/5.0 (Android 14; Mobile; rv:128.0) Gecko/128.0 Firefox/128.0"
	uaIPhone         = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1"
	uaDesktop        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
)

func TestResolver_HasFeature_NFCWrite(t *testing.T) {
	r := NewResolver(false)
	ctx := context.Background()

	cases := []struct {
		ua   string
		want bool
	}{
		{uaAndroidChrome, true},
		{uaAndroidFirefox, false},
		{uaIPhone, false},
		{uaDesktop, false},
		{"", false},
	}
	for _, tc := range cases {
		ok, err := r.HasFeature(ctx, capabilities.CapabilityCheck{Feature: capabilities.FeatureNFCWrite, UserAgent: tc.ua})
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, tc.ua)
	}
}

func TestResolver_Platform(t *testing.T) {
	r := NewResolver(false)
	ctx := context.Background()

	assert.Equal(t, capabilities.PlatformAndroid, r.Platform(ctx, uaAndroidChrome))
	assert.Equal(t, capabilities.PlatformIOS, r.Platform(ctx, uaIPhone))
	assert.Equal(t, capabilities.PlatformDesktop, r.Platform(ctx, uaDesktop))
}

func TestResolver_AllowAllAndUnknownFeature(t *testing.T) {
	r := NewResolver(true)
	ok, err := r.HasFeature(context.Background(), capabilities.CapabilityCheck{Feature: capabilities.FeatureNFCWrite, UserAgent: uaIPhone})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.HasFeature(context.Background(), capabilities.CapabilityCheck{Feature: "billing:pro"})
	assert.ErrorIs(t, err, ErrUnknownFeature)
}
