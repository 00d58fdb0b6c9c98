package mail

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/samber/oops"
)

// sesAPI is the part of *sesv2.Client the dispatcher uses.
type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Seams for tests.
var (
	loadDefaultAWSConfig   = awsconfig.LoadDefaultConfig
	newSESClientFromConfig = func(cfg aws.Config) sesAPI { return sesv2.NewFromConfig(cfg) }
)

type SESOptions struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	From            string
}

// SESDispatcher delivers mail through Amazon SES v2.
type SESDispatcher struct {
	client sesAPI
	from   string
}

// NewSESDispatcher loads the AWS config for opts.Region. Static keys are
// used when both are set; otherwise the default credential chain applies.
func NewSESDispatcher(ctx context.Context, opts SESOptions) (*SESDispatcher, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, oops.Code("MAIL_SES_CONFIG").With("region", opts.Region).Wrap(err)
	}

	return &SESDispatcher{client: newSESClientFromConfig(cfg), from: opts.From}, nil
}

func (d *SESDispatcher) SendMail(ctx context.Context, to, subject string, vars map[string]string, tmpl string) error {
	body, err := Render(tmpl, vars)
	if err != nil {
		return err
	}

	_, err = d.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(d.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return oops.
			Code("MAIL_SES_SEND").
			With("to", to).
			With("template", tmpl).
			Wrap(err)
	}
	return nil
}
