package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	appconfig "github.com/nestinghomes/nestinghomes-web/internal/config"
)

// LoadAWSConfig centralizes AWS SDK initialization so the API and CLI share
// the same LocalStack/production wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("bootstrap: load aws config: %w", err)
	}

	if endpoint := cfg.AWSEndpointOverride; endpoint != "" {
		awsCfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
			func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
				switch service {
				case sqs.ServiceID, s3.ServiceID, sesv2.ServiceID:
					return aws.Endpoint{
						URL:               endpoint,
						PartitionID:       "aws",
						SigningRegion:     cfg.AWSRegion,
						HostnameImmutable: true,
					}, nil
				default:
					return aws.Endpoint{}, &aws.EndpointNotFoundError{}
				}
			},
		)
	}

	return awsCfg, nil
}

// AWSClients holds the service clients used by lead observers.
type AWSClients struct {
	SQS *sqs.Client
	S3  *s3.Client
	SES *sesv2.Client
}

// BuildAWSClients creates only the clients the configuration asks for.
func BuildAWSClients(awsCfg aws.Config, cfg *appconfig.Config) AWSClients {
	var clients AWSClients
	if cfg.LeadQueueURL != "" {
		clients.SQS = sqs.NewFromConfig(awsCfg)
	}
	if cfg.LeadArchiveBucket != "" {
		// LocalStack serves buckets on the path, not as subdomains.
		pathStyle := cfg.AWSEndpointOverride != ""
		clients.S3 = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = pathStyle
		})
	}
	if cfg.SESFromEmail != "" && cfg.SendGridAPIKey == "" {
		clients.SES = sesv2.NewFromConfig(awsCfg)
	}
	return clients
}
