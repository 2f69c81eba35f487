package clients

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

var (
	awsCfg     aws.Config
	awsOnce    sync.Once
	awsInitErr error
	endpoint   string
)

// GetAWSConfig loads the shared AWS config once. The archive feature is the
// only consumer; a load failure disables archiving and nothing else.
func GetAWSConfig() (aws.Config, error) {
	awsOnce.Do(func() {
		region := os.Getenv("AWS_REGION")
		if region == "" {
			region = "ap-northeast-2"
		}

		slog.Info("[AWSClient] Initializing AWS Config...",
			slog.String("region", region))
		cfg, err := config.LoadDefaultConfig(context.Background(),
			config.WithRegion(region))
		if err != nil {
			slog.Error("[AWSClient] Failed to load AWS config, archiving disabled",
				slog.String("error", err.Error()))
			awsInitErr = err
			return
		}

		awsCfg = cfg
		endpoint = os.Getenv("AWS_ENDPOINT")
		slog.Info("[AWSClient] AWS Config Initialized")
	})

	return awsCfg, awsInitErr
}

// GetDynamoDBClient builds a DynamoDB client, honoring AWS_ENDPOINT for
// local development.
func GetDynamoDBClient() (*dynamodb.Client, error) {
	cfg, err := GetAWSConfig()
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
