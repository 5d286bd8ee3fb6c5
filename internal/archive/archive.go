// Package archive keeps a copy of every delivered audio file in S3.
package archive

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const uploadTimeout = time.Minute

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3 struct {
	client objectPutter
	bucket string
}

func New(cfg aws.Config, bucket string) *S3 {
	return &S3{client: s3.NewFromConfig(cfg), bucket: bucket}
}

// Archive uploads file under key.
func (a *S3) Archive(ctx context.Context, key, file string) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("archive: open %s: %w", file, err)
	}
	defer f.Close()

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:            aws.String(a.bucket),
		Key:               aws.String(key),
		Body:              f,
		ContentType:       aws.String("audio/wav"),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
	})
	if err != nil {
		return fmt.Errorf("archive: put %s: %w", key, err)
	}
	return nil
}
