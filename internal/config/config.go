// Package config resolves CLI configuration from a YAML file and COURSEFORM_*
// environment overrides. Flag overrides are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema sources.
const (
	SchemaBuiltin = "builtin"
	SchemaFile    = "file"
	SchemaOpenAPI = "openapi"
)

// Gateway kinds.
const (
	GatewayMemory = "memory"
	GatewayHTTP   = "http"
	GatewayDynamo = "dynamo"
)

// Upload kinds.
const (
	UploadNone = "none"
	UploadHTTP = "http"
	UploadS3   = "s3"
)

// ErrInvalid wraps every validation failure returned by Validate.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	LogLevel string  `yaml:"log_level"`
	Author   Author  `yaml:"author"`
	Schema   Schema  `yaml:"schema"`
	Gateway  Gateway `yaml:"gateway"`
	Upload   Upload  `yaml:"upload"`
}

type Author struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type Schema struct {
	Source    string `yaml:"source"`
	Path      string `yaml:"path"`
	Component string `yaml:"component"`
}

type Gateway struct {
	Kind    string `yaml:"kind"`
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Table   string `yaml:"table"`
	Region  string `yaml:"region"`
}

type Upload struct {
	Kind          string `yaml:"kind"`
	Endpoint      string `yaml:"endpoint"`
	Token         string `yaml:"token"`
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	PublicBaseURL string `yaml:"public_base_url"`
	Region        string `yaml:"region"`
}

// Default returns an offline configuration: builtin schema, in-memory
// gateway, no upload transport.
func Default() Config {
	return Config{
		LogLevel: "warn",
		Schema:   Schema{Source: SchemaBuiltin},
		Gateway:  Gateway{Kind: GatewayMemory},
		Upload:   Upload{Kind: UploadNone},
	}
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(string) (string, bool)

// ApplyEnv overlays COURSEFORM_* variables. AWS_REGION fills any region left
// unset.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.LogLevel, "COURSEFORM_LOG_LEVEL")
	set(&c.Author.ID, "COURSEFORM_AUTHOR_ID")
	set(&c.Author.Name, "COURSEFORM_AUTHOR_NAME")
	set(&c.Schema.Source, "COURSEFORM_SCHEMA_SOURCE")
	set(&c.Schema.Path, "COURSEFORM_SCHEMA_PATH")
	set(&c.Schema.Component, "COURSEFORM_SCHEMA_COMPONENT")
	set(&c.Gateway.Kind, "COURSEFORM_GATEWAY")
	set(&c.Gateway.BaseURL, "COURSEFORM_API_URL")
	set(&c.Gateway.Token, "COURSEFORM_API_TOKEN")
	set(&c.Gateway.Table, "COURSEFORM_DYNAMO_TABLE")
	set(&c.Upload.Kind, "COURSEFORM_UPLOAD")
	set(&c.Upload.Endpoint, "COURSEFORM_UPLOAD_URL")
	set(&c.Upload.Bucket, "COURSEFORM_S3_BUCKET")
	set(&c.Upload.Prefix, "COURSEFORM_S3_PREFIX")
	set(&c.Upload.PublicBaseURL, "COURSEFORM_MEDIA_BASE_URL")

	if region, ok := lookup("AWS_REGION"); ok && region != "" {
		if c.Gateway.Region == "" {
			c.Gateway.Region = region
		}
		if c.Upload.Region == "" {
			c.Upload.Region = region
		}
	}
	if c.Upload.Token == "" {
		c.Upload.Token = c.Gateway.Token
	}
}

// Validate checks that each selected kind carries the settings it needs.
func (c Config) Validate() error {
	var problems []string

	switch c.Schema.Source {
	case "", SchemaBuiltin:
	case SchemaFile:
		if c.Schema.Path == "" {
			problems = append(problems, "schema.path is required for file schemas")
		}
	case SchemaOpenAPI:
		if c.Schema.Path == "" || c.Schema.Component == "" {
			problems = append(problems, "schema.path and schema.component are required for openapi schemas")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown schema source %q", c.Schema.Source))
	}

	switch c.Gateway.Kind {
	case "", GatewayMemory:
	case GatewayHTTP:
		if c.Gateway.BaseURL == "" {
			problems = append(problems, "gateway.base_url is required for the http gateway")
		}
	case GatewayDynamo:
		if c.Gateway.Table == "" {
			problems = append(problems, "gateway.table is required for the dynamo gateway")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown gateway %q", c.Gateway.Kind))
	}

	switch c.Upload.Kind {
	case "", UploadNone:
	case UploadHTTP:
		if c.Upload.Endpoint == "" {
			problems = append(problems, "upload.endpoint is required for http uploads")
		}
	case UploadS3:
		if c.Upload.Bucket == "" {
			problems = append(problems, "upload.bucket is required for s3 uploads")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown upload kind %q", c.Upload.Kind))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
