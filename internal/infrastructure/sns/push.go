package sns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/config"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Gateway error codes surfaced on delivery failures.
const (
	CodeTokenInvalid       = "token_invalid"
	CodeTimeout            = "timeout"
	CodeGatewayUnavailable = "gateway_unavailable"
)

// PushMessage is one notification handed to the gateway. Data values are
// plain strings because that is all the mobile transports accept.
type PushMessage struct {
	Token    string
	Platform string // "ios" | "android"
	Title    string
	Body     string
	Priority domain.Priority
	Data     map[string]string
}

// Pusher delivers push notifications via SNS mobile push. Implementations
// must not retry; the caller owns the retry policy.
type Pusher interface {
	Push(ctx context.Context, msg PushMessage) error
}

// DeliveryError describes a push failure in gateway terms so callers can
// react to the code without parsing AWS error strings.
type DeliveryError struct {
	Code string
	Err  error
}

func (e *DeliveryError) Error() string { return fmt.Sprintf("push %s: %v", e.Code, e.Err) }
func (e *DeliveryError) Unwrap() error { return e.Err }

// ErrorCode extracts the gateway error code from a Push error.
func ErrorCode(err error) string {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	return CodeGatewayUnavailable
}

type gateway struct {
	client      *sns.Client
	platformARN string
}

// NewGateway builds the SNS mobile push gateway. platformARN identifies the
// SNS platform application the mobile apps' tokens belong to.
func NewGateway(cfg *config.Config) (Pusher, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config for SNS: %w", err)
	}

	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return &gateway{
		client:      sns.NewFromConfig(awsCfg, clientOpts...),
		platformARN: cfg.SNSPlatformARN,
	}, nil
}

// Push resolves the device token to a platform endpoint and publishes one
// message to it. CreatePlatformEndpoint is idempotent for an unchanged
// token, so no endpoint cache is kept here.
func (g *gateway) Push(ctx context.Context, msg PushMessage) error {
	ep, err := g.client.CreatePlatformEndpoint(ctx, &sns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(g.platformARN),
		Token:                  aws.String(msg.Token),
	})
	if err != nil {
		return classify(err)
	}

	payload, err := buildPayload(msg)
	if err != nil {
		return &DeliveryError{Code: CodeGatewayUnavailable, Err: err}
	}

	_, err = g.client.Publish(ctx, &sns.PublishInput{
		TargetArn:        ep.EndpointArn,
		MessageStructure: aws.String("json"),
		Message:          aws.String(payload),
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var disabled *types.EndpointDisabledException
	var invalid *types.InvalidParameterException
	switch {
	case errors.As(err, &disabled):
		return &DeliveryError{Code: CodeTokenInvalid, Err: err}
	case errors.As(err, &invalid) && strings.Contains(err.Error(), "Token"):
		return &DeliveryError{Code: CodeTokenInvalid, Err: err}
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return &DeliveryError{Code: CodeTimeout, Err: err}
	}
	return &DeliveryError{Code: CodeGatewayUnavailable, Err: err}
}

// buildPayload shapes the per-transport JSON for MessageStructure "json".
// GCM and APNS values must themselves be JSON-encoded strings.
func buildPayload(msg PushMessage) (string, error) {
	gcm, err := json.Marshal(map[string]interface{}{
		"notification": map[string]string{
			"title": msg.Title,
			"body":  msg.Body,
		},
		"data":     msg.Data,
		"priority": gcmPriority(msg.Priority),
	})
	if err != nil {
		return "", err
	}

	apnsBody := map[string]interface{}{
		"aps": map[string]interface{}{
			"alert": map[string]string{
				"title": msg.Title,
				"body":  msg.Body,
			},
			"sound": "default",
		},
	}
	for k, v := range msg.Data {
		apnsBody[k] = v
	}
	apns, err := json.Marshal(apnsBody)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(map[string]string{
		"default": msg.Body,
		"GCM":     string(gcm),
		"APNS":    string(apns),
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func gcmPriority(p domain.Priority) string {
	if p == domain.PriorityHigh {
		return "high"
	}
	return "normal"
}
