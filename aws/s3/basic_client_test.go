package s3

import (
	"bytes"
	"io/ioutil"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// stubS3 implements the slice of s3iface.S3API used by basicClient.
type stubS3 struct {
	s3iface.S3API
	objects  map[string][]byte
	listKeys []string
	putKeys  []string
}

func (s *stubS3) ListObjects(in *s3.ListObjectsInput) (*s3.ListObjectsOutput, error) {
	contents := make([]*s3.Object, 0, len(s.listKeys))
	for _, k := range s.listKeys {
		contents = append(contents, &s3.Object{Key: aws.String(k)})
	}
	return &s3.ListObjectsOutput{Contents: contents, IsTruncated: aws.Bool(false)}, nil
}

func (s *stubS3) GetObject(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	data, ok := s.objects[*in.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
	}
	return &s3.GetObjectOutput{Body: ioutil.NopCloser(bytes.NewReader(data))}, nil
}

func (s *stubS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	data, err := ioutil.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[*in.Key] = data
	s.putKeys = append(s.putKeys, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

func (s *stubS3) DeleteObject(in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	delete(s.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestBasicClientGet(t *testing.T) {
	stub := &stubS3{objects: map[string][]byte{"stage/a.csv": []byte("abc")}}
	c := NewBasicClientWithAPI("bucket1", "eu-west-2", "stage", stub)

	t.Log("Test-1: fetch an object via the bucket prefix")
	data, err := c.Get("a.csv")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "abc" {
		t.Fatalf("expected %q, got %q", "abc", string(data))
	}

	t.Log("Test-2: missing keys map to ErrKeyNotFound")
	_, err = c.Get("missing.csv")
	if err != ErrKeyNotFound {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestBasicClientPutAndList(t *testing.T) {
	stub := &stubS3{listKeys: []string{"stage/a.csv", "stage/b.csv"}}
	c := NewBasicClientWithAPI("bucket1", "eu-west-2", "stage/", stub)

	t.Log("Test-1: BufferPut applies the bucket prefix with a single separator")
	if err := c.BufferPut("c.csv", bytes.NewReader([]byte("xyz"))); err != nil {
		t.Fatal(err)
	}
	if len(stub.putKeys) != 1 || stub.putKeys[0] != "stage/c.csv" {
		t.Fatalf("unexpected put keys: %v", stub.putKeys)
	}

	t.Log("Test-2: List returns all keys")
	keys, err := c.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "stage/a.csv" || keys[1] != "stage/b.csv" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestBasicClientPutGetDelete(t *testing.T) {
	stub := &stubS3{}
	c := NewBasicClientWithAPI("bucket1", "eu-west-2", "stage", stub)

	t.Log("Test-1: Put stores bytes under the prefixed key")
	if err := c.Put("d.csv", []byte("pqr")); err != nil {
		t.Fatal(err)
	}
	if string(stub.objects["stage/d.csv"]) != "pqr" {
		t.Fatalf("unexpected objects: %v", stub.objects)
	}
	data, err := c.Get("d.csv")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pqr" {
		t.Fatalf("expected %q, got %q", "pqr", string(data))
	}

	t.Log("Test-2: Delete removes the object")
	if err = c.Delete("d.csv"); err != nil {
		t.Fatal(err)
	}
	if _, err = c.Get("d.csv"); err != ErrKeyNotFound {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestParseDSN(t *testing.T) {
	b, err := ParseDSN("s3://bucket1/some/prefix", "eu-west-2")
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "bucket1" || b.Prefix != "some/prefix" || b.Region != "eu-west-2" {
		t.Fatalf("unexpected bucket: %+v", b)
	}
	if _, err = ParseDSN("http://bucket1", "eu-west-2"); err == nil {
		t.Fatal("expected an error for a bad scheme")
	}
	if _, err = ParseDSN("s3://bucket1", ""); err == nil {
		t.Fatal("expected an error for a missing region")
	}
}
