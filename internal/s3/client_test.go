package s3

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestNormalizeEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"minio.local:9000", "https://minio.local:9000"},
		{"http://localhost:4566", "http://localhost:4566"},
		{"https://s3.amazonaws.com", "https://s3.amazonaws.com"},
	}
	for _, c := range cases {
		if got := normalizeEndpoint(c.in); got != c.want {
			t.Fatalf("normalizeEndpoint(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

// createRecorder captures the CreateBucketInput; all other API methods are
// inherited from the nil embedded interface and must not be reached.
type createRecorder struct {
	API
	in *awss3.CreateBucketInput
}

func (r *createRecorder) CreateBucket(ctx context.Context, params *awss3.CreateBucketInput, optFns ...func(*awss3.Options)) (*awss3.CreateBucketOutput, error) {
	r.in = params
	return &awss3.CreateBucketOutput{}, nil
}

func TestCreateBucketLocationConstraint(t *testing.T) {
	rec := &createRecorder{}
	c := New(rec, "eu-west-1")
	if err := c.CreateBucket(context.Background(), "b"); err != nil {
		t.Fatal(err)
	}
	if rec.in.CreateBucketConfiguration == nil {
		t.Fatal("expected LocationConstraint for non-us-east-1 region")
	}
	if lc := rec.in.CreateBucketConfiguration.LocationConstraint; lc != types.BucketLocationConstraint("eu-west-1") {
		t.Fatalf("LocationConstraint=%q", lc)
	}

	rec = &createRecorder{}
	c = New(rec, "us-east-1")
	if err := c.CreateBucket(context.Background(), "b"); err != nil {
		t.Fatal(err)
	}
	if rec.in.CreateBucketConfiguration != nil {
		t.Fatal("us-east-1 must not send a LocationConstraint")
	}
}

type taggingRecorder struct {
	API
	in *awss3.PutBucketTaggingInput
}

func (r *taggingRecorder) PutBucketTagging(ctx context.Context, params *awss3.PutBucketTaggingInput, optFns ...func(*awss3.Options)) (*awss3.PutBucketTaggingOutput, error) {
	r.in = params
	return &awss3.PutBucketTaggingOutput{}, nil
}

func TestApplyTagsSortedKeys(t *testing.T) {
	rec := &taggingRecorder{}
	c := New(rec, "us-east-1")
	err := c.ApplyTags(context.Background(), "b", map[string]string{"b": "2", "a": "1", "c": "3"})
	if err != nil {
		t.Fatal(err)
	}
	got := rec.in.Tagging.TagSet
	if len(got) != 3 {
		t.Fatalf("tag set size=%d", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if aws.ToString(got[i].Key) != want {
			t.Fatalf("tag[%d]=%s want %s", i, aws.ToString(got[i].Key), want)
		}
	}
}
