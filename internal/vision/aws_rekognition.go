package vision

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rekognitiontypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// AWSDetector calls Rekognition with byte payloads (no S3 dependency).
type AWSDetector struct {
	client *rekognition.Client
}

// NewAWSDetector creates a detector that uses ambient AWS credentials/profile.
func NewAWSDetector(ctx context.Context, region string) (*AWSDetector, error) {
	loadOptions := []func(*awsconfig.LoadOptions) error{}
	trimmedRegion := strings.TrimSpace(region)
	if trimmedRegion != "" {
		loadOptions = append(loadOptions, awsconfig.WithRegion(trimmedRegion))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &AWSDetector{
		client: rekognition.NewFromConfig(cfg),
	}, nil
}

// DetectLabels calls Rekognition DetectLabels with raw image bytes and
// returns the label names in confidence order.
func (d *AWSDetector) DetectLabels(ctx context.Context, imageBytes []byte, maxLabels int) ([]string, error) {
	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("image bytes are required")
	}

	output, err := d.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image: &rekognitiontypes.Image{
			Bytes: imageBytes,
		},
		MaxLabels: aws.Int32(int32(maxLabels)),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect labels failed: %w", err)
	}

	labels := make([]string, 0, len(output.Labels))
	for _, label := range output.Labels {
		labels = append(labels, aws.ToString(label.Name))
	}
	return labels, nil
}
