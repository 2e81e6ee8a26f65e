package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/goliatone/go-courseform/internal/config"
	"github.com/goliatone/go-courseform/pkg/authoring"
	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/gateway"
	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/schemaload"
	"github.com/goliatone/go-courseform/pkg/upload"
)

func loadSchema(ctx context.Context, c config.Schema) (model.Schema, error) {
	switch c.Source {
	case "", config.SchemaBuiltin:
		return course.LandingSchema()
	case config.SchemaFile:
		return schemaload.LoadFS(os.DirFS(filepath.Dir(c.Path)), filepath.Base(c.Path))
	case config.SchemaOpenAPI:
		data, err := os.ReadFile(c.Path)
		if err != nil {
			return nil, fmt.Errorf("read openapi document: %w", err)
		}
		return schemaload.FromOpenAPI(ctx, data, c.Component)
	default:
		return nil, fmt.Errorf("unknown schema source %q", c.Source)
	}
}

func loadAWS(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	loaded, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS config: %w", err)
	}
	return loaded, nil
}

func buildGateway(ctx context.Context, c config.Gateway) (gateway.Gateway, error) {
	switch c.Kind {
	case "", config.GatewayMemory:
		log.Debug().Msg("using in-memory course gateway")
		return gateway.NewMemory(), nil
	case config.GatewayHTTP:
		log.Debug().Str("base_url", c.BaseURL).Msg("using http course gateway")
		return gateway.NewHTTP(c.BaseURL, gateway.WithToken(c.Token)), nil
	case config.GatewayDynamo:
		awsCfg, err := loadAWS(ctx, c.Region)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("table", c.Table).Str("region", awsCfg.Region).Msg("using dynamo course gateway")
		return gateway.NewDynamo(dynamodb.NewFromConfig(awsCfg), c.Table), nil
	default:
		return nil, fmt.Errorf("unknown gateway %q", c.Kind)
	}
}

func buildTransport(ctx context.Context, c config.Upload) (upload.Transport, error) {
	switch c.Kind {
	case "", config.UploadNone:
		return nil, nil
	case config.UploadHTTP:
		return upload.NewHTTPTransport(c.Endpoint, upload.WithUploadToken(c.Token)), nil
	case config.UploadS3:
		awsCfg, err := loadAWS(ctx, c.Region)
		if err != nil {
			return nil, err
		}
		opts := []upload.S3Option{
			upload.WithKeyPrefix(c.Prefix),
			upload.WithRegion(awsCfg.Region),
		}
		if c.PublicBaseURL != "" {
			opts = append(opts, upload.WithPublicBaseURL(c.PublicBaseURL))
		}
		return upload.NewS3Transport(s3.NewFromConfig(awsCfg), c.Bucket, opts...), nil
	default:
		return nil, fmt.Errorf("unknown upload kind %q", c.Kind)
	}
}

// openSession builds and initialises a session from c.
// Upload progress is written to progress when it is non-nil.
func openSession(ctx context.Context, c config.Config, progress io.Writer) (*authoring.Session, error) {
	schema, err := loadSchema(ctx, c.Schema)
	if err != nil {
		return nil, err
	}
	gw, err := buildGateway(ctx, c.Gateway)
	if err != nil {
		return nil, err
	}
	transport, err := buildTransport(ctx, c.Upload)
	if err != nil {
		return nil, err
	}

	opts := []authoring.Option{
		authoring.WithSchema(schema),
		authoring.WithAuthor(course.Author{ID: c.Author.ID, Name: c.Author.Name}),
	}
	if progress != nil {
		opts = append(opts, authoring.OnChange(progressPrinter(progress)))
	}

	session, err := authoring.New(gw, transport, opts...)
	if err != nil {
		return nil, err
	}
	if err := session.Init(); err != nil {
		return nil, err
	}
	return session, nil
}

// progressPrinter reports each new upload percentage on its own line.
func progressPrinter(w io.Writer) func(authoring.Draft) {
	var mu sync.Mutex
	last := -1
	return func(d authoring.Draft) {
		mu.Lock()
		defer mu.Unlock()
		if !d.Upload.Active() {
			last = -1
			return
		}
		if d.Upload.Percentage == last {
			return
		}
		last = d.Upload.Percentage
		fmt.Fprintf(w, "  uploading... %d%%\n", last)
	}
}
