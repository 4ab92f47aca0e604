package cloudinary

import "testing"

func TestPublicID(t *testing.T) {
	cases := map[string]string{
		"owner-1/abc.jpg":  "owner-1/abc",
		"owner-1/abc":      "owner-1/abc",
		"owner-1/a.b.webp": "owner-1/a.b",
	}
	for in, want := range cases {
		if got := publicID(in); got != want {
			t.Fatalf("publicID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeyForURL(t *testing.T) {
	s := &Store{folder: "pet-tag"}
	cases := []struct {
		url string
		key string
		ok  bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345678/pet-tag/owner-1/abc.jpg", "owner-1/abc.jpg", true},
		{"https://res.cloudinary.com/demo/image/upload/pet-tag/owner-1/abc.png", "owner-1/abc.png", true},
		{"https://res.cloudinary.com/demo/image/upload/v1/other/owner-1/abc.jpg", "", false},
		{"https://cdn.example.com/owner-1/abc.jpg", "", false},
	}
	for _, c := range cases {
		key, ok := s.KeyForURL(c.url)
		if key != c.key || ok != c.ok {
			t.Fatalf("KeyForURL(%q) = %q,%v want %q,%v", c.url, key, ok, c.key, c.ok)
		}
	}

	noFolder := &Store{}
	if key, ok := noFolder.KeyForURL("https://res.cloudinary.com/demo/image/upload/v9/owner-1/abc.jpg"); !ok || key != "owner-1/abc.jpg" {
		t.Fatalf("unexpected %q %v", key, ok)
	}
}
