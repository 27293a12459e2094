package backend

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putInput    *s3.PutObjectInput
	putErr      error
	deleteInput *s3.DeleteObjectInput
	deleteErr   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInput = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteInput = in
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func newTestStorage(t *testing.T, fake *fakeS3) *S3Storage {
	t.Helper()

	origLoad := loadAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		return fake
	}

	st, err := NewS3Storage(context.Background(),
		"https://backend.test/storage/v1/s3", "us-east-1", "avatars",
		"access", "secret",
		"https://backend.test/storage/v1/object/public/avatars/")
	require.NoError(t, err)
	return st
}

func TestUploadReturnsPublicURL(t *testing.T) {
	fake := &fakeS3{}
	st := newTestStorage(t, fake)

	url, err := st.Upload(context.Background(), "u1/abc.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	require.Equal(t, "https://backend.test/storage/v1/object/public/avatars/u1/abc.png", url)

	require.Equal(t, "avatars", aws.ToString(fake.putInput.Bucket))
	require.Equal(t, "u1/abc.png", aws.ToString(fake.putInput.Key))
	require.Equal(t, "image/png", aws.ToString(fake.putInput.ContentType))

	body, err := io.ReadAll(fake.putInput.Body)
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), body)
}

func TestUploadError(t *testing.T) {
	fake := &fakeS3{putErr: errors.New("denied")}
	st := newTestStorage(t, fake)

	_, err := st.Upload(context.Background(), "u1/abc.png", []byte("x"), "image/png")
	require.Error(t, err)
	require.Contains(t, err.Error(), "u1/abc.png")
}

func TestDelete(t *testing.T) {
	fake := &fakeS3{}
	st := newTestStorage(t, fake)

	require.NoError(t, st.Delete(context.Background(), "u1/old.png"))
	require.Equal(t, "avatars", aws.ToString(fake.deleteInput.Bucket))
	require.Equal(t, "u1/old.png", aws.ToString(fake.deleteInput.Key))
}

func TestDeleteError(t *testing.T) {
	fake := &fakeS3{deleteErr: errors.New("denied")}
	st := newTestStorage(t, fake)

	require.Error(t, st.Delete(context.Background(), "u1/old.png"))
}
