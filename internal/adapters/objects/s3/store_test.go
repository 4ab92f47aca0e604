package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	put     *s3.PutObjectInput
	body    string
	deleted string
	err     error
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestStore_Put(t *testing.T) {
	api := &fakeAPI{}
	s := NewWithAPI(api, "pet-photos", "https://cdn.example.com/pet-photos/")

	u, err := s.Put(context.Background(), "owner-1/a.jpg", "image/jpeg", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/pet-photos/owner-1/a.jpg", u)
	assert.Equal(t, "pet-photos", aws.ToString(api.put.Bucket))
	assert.Equal(t, "image/jpeg", aws.ToString(api.put.ContentType))
	assert.Equal(t, "img", api.body)
}

func TestStore_DeleteAndErrors(t *testing.T) {
	api := &fakeAPI{}
	s := NewWithAPI(api, "b", "http://x")

	require.NoError(t, s.Delete(context.Background(), "owner-1/a.jpg"))
	assert.Equal(t, "owner-1/a.jpg", api.deleted)

	api.err = errors.New("boom")
	_, err := s.Put(context.Background(), "k", "image/png", strings.NewReader(""))
	assert.Error(t, err)
}

func TestStore_KeyForURL(t *testing.T) {
	s := NewWithAPI(&fakeAPI{}, "pet-photos", "https://cdn.example.com/pet-photos/")

	u, err := s.Put(context.Background(), "owner-1/a.jpg", "image/jpeg", strings.NewReader("img"))
	require.NoError(t, err)

	key, ok := s.KeyForURL(u)
	assert.True(t, ok)
	assert.Equal(t, "owner-1/a.jpg", key)

	_, ok = s.KeyForURL("https://elsewhere.example/owner-1/a.jpg")
	assert.False(t, ok)
}
