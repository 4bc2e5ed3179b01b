// Package cloud builds the AWS SDK configuration shared by the S3 object
// store and the SES notifier.
package cloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

type Credentials struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// LoadAWSConfig uses static credentials when both keys are set and the SDK's
// default chain (env, shared profile, instance role) otherwise.
func LoadAWSConfig(ctx context.Context, creds Credentials) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(creds.Region),
	}
	if creds.AccessKeyID != "" && creds.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}
