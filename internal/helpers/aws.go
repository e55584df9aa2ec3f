package helpers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/cloudpeel/wafsync/internal/logs"
)

func GetAWSCfg(ctx context.Context, region string, profile string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithClientLogMode(aws.LogRetries),
		config.WithLogger(logs.AwsSDKLogger()),
		config.WithRegion(region),
		config.WithSharedConfigProfile(profile),
		config.WithRetryMode(aws.RetryModeAdaptive),
	)
	if err != nil {
		return aws.Config{}, err
	}

	return cfg, nil
}

func GetCallerIdentity(ctx context.Context, cfg aws.Config) (*sts.GetCallerIdentityOutput, error) {
	client := sts.NewFromConfig(cfg)

	return client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
}

// CallerPartition derives the AWS partition (aws, aws-cn, aws-us-gov) from
// the caller identity ARN. Returns fallback when the identity cannot be
// fetched, so offline paths still produce a usable stage ARN.
func CallerPartition(ctx context.Context, cfg aws.Config, fallback string) string {
	identity, err := GetCallerIdentity(ctx, cfg)
	if err != nil || identity.Arn == nil {
		return fallback
	}

	parsed, err := arn.Parse(*identity.Arn)
	if err != nil {
		return fallback
	}

	return parsed.Partition
}
