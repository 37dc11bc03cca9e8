package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3JSON.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3JSON returns a fetch function that downloads an S3 object and decodes
// its JSON contents into T.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	fetch := source.S3JSON[[]User](s3.NewFromConfig(cfg), "my-bucket", "users.json")
//	users := stream.FromFunc(fetch)
func S3JSON[T any](client S3API, bucket, key string) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		var out T

		obj, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return out, fmt.Errorf("fetching s3://%s/%s: %w", bucket, key, err)
		}
		defer obj.Body.Close()

		if err := json.NewDecoder(obj.Body).Decode(&out); err != nil {
			return out, fmt.Errorf("decoding s3://%s/%s: %w", bucket, key, err)
		}
		return out, nil
	}
}
