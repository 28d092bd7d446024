package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	headErr error
	heads   int
}

func (f *fakeS3) HeadBucketWithContext(_ aws.Context, _ *s3.HeadBucketInput, _ ...request.Option) (*s3.HeadBucketOutput, error) {
	f.heads++
	return &s3.HeadBucketOutput{}, f.headErr
}

type fakeUploader struct {
	inputs []*s3manager.UploadInput
	bodies []string
}

func (f *fakeUploader) Upload(input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return f.UploadWithContext(context.Background(), input, opts...)
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, input *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, input)
	f.bodies = append(f.bodies, string(body))
	return &s3manager.UploadOutput{}, nil
}

func writeArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "robot-summary.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"total":57}`), 0644))
	return path
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "default prefix", want: "uploads/robot-summary.json"},
		{name: "custom key", key: "runs/abc123/robot-summary.json", want: "runs/abc123/robot-summary.json"},
		{name: "leading slash", key: "/runs/robot-summary.json", want: "runs/robot-summary.json"},
		{name: "key without file name", key: "runs/abc123/", wantErr: true},
		{name: "file name as suffix only", key: "runs/foo-robot-summary.json", wantErr: true},
		{name: "file name alone", key: "robot-summary.json", want: "robot-summary.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ObjectKey("/tmp/out/robot-summary.json", tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewUploaderRequiresConfig(t *testing.T) {
	_, err := NewUploader(Config{Region: "us-east-1"})
	assert.Error(t, err)
	_, err = NewUploader(Config{Bucket: "results"})
	assert.Error(t, err)
}

func TestUpload(t *testing.T) {
	svc := &fakeS3{}
	up := &fakeUploader{}
	u := &Uploader{bucket: "results", svc: svc, uploader: up}

	uri, err := u.Upload(context.Background(), writeArtifact(t), "", map[string]string{"sha": "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "s3://results/uploads/robot-summary.json", uri)
	assert.Equal(t, 1, svc.heads)
	require.Len(t, up.inputs, 1)
	assert.Equal(t, "results", aws.StringValue(up.inputs[0].Bucket))
	assert.Equal(t, "uploads/robot-summary.json", aws.StringValue(up.inputs[0].Key))
	assert.Equal(t, "abc123", aws.StringValue(up.inputs[0].Metadata["sha"]))
	assert.Equal(t, `{"total":57}`, up.bodies[0])
}

func TestUploadDryRun(t *testing.T) {
	svc := &fakeS3{}
	up := &fakeUploader{}
	u := &Uploader{bucket: "results", dryRun: true, svc: svc, uploader: up}

	uri, err := u.Upload(context.Background(), writeArtifact(t), "runs/robot-summary.json", nil)
	require.NoError(t, err)
	assert.Equal(t, "s3://results/runs/robot-summary.json", uri)
	assert.Zero(t, svc.heads)
	assert.Empty(t, up.inputs)
}

func TestUploadErrors(t *testing.T) {
	u := &Uploader{bucket: "results", svc: &fakeS3{headErr: errors.New("NotFound")}, uploader: &fakeUploader{}}
	_, err := u.Upload(context.Background(), writeArtifact(t), "", nil)
	assert.ErrorContains(t, err, "failed to check if bucket results exists")

	_, err = u.Upload(context.Background(), filepath.Join(t.TempDir(), "robot-summary.json"), "", nil)
	assert.ErrorContains(t, err, "failed to open file")
}
