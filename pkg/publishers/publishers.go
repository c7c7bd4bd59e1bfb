package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeHTTP      = "http"
	TypeGCPPubSub = "gcppubsub"

	defaultWebhookMethod         = "POST"
	defaultWebhookTimeoutSeconds = 5
)

var (
	errEmptyPublishersPath = errors.New("publishers file path is empty")
	errNoPublishers        = errors.New("publishers file contains no publishers entries")
)

// configFile represents the structure of the publishers configuration file.
type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig represents a single publisher entry declared in config files.
type PublisherConfig struct {
	ID        string                    `json:"id" yaml:"id"`
	Type      string                    `json:"type" yaml:"type"`
	Enabled   *bool                     `json:"enabled" yaml:"enabled"`
	SQS       *SQSPublisherConfig       `json:"sqs" yaml:"sqs"`
	SNS       *SNSPublisherConfig       `json:"sns" yaml:"sns"`
	HTTP      *HTTPPublisherConfig      `json:"http" yaml:"http"`
	GCPPubSub *GCPPubSubPublisherConfig `json:"gcppubsub" yaml:"gcppubsub"`
}

// AWSAccess holds the connection settings shared by AWS publishers.
// Static keys and endpoint are optional (e.g. for LocalStack).
type AWSAccess struct {
	Region          string `json:"region" yaml:"region"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// SQSPublisherConfig holds AWS SQS specific settings.
type SQSPublisherConfig struct {
	QueueURL  string `json:"uri" yaml:"uri"`
	AWSAccess `yaml:",inline"`
}

// SNSPublisherConfig holds AWS SNS specific settings.
type SNSPublisherConfig struct {
	TopicARN  string `json:"topic_arn" yaml:"topic_arn"`
	AWSAccess `yaml:",inline"`
}

// HTTPPublisherConfig holds generic HTTP sink settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// GCPPubSubPublisherConfig holds Google Cloud Pub/Sub settings.
type GCPPubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// ConfigRegistry holds the publisher definitions of one publishers file, in file order.
// It is read-only once loaded.
type ConfigRegistry struct {
	ordered []PublisherConfig
	byID    map[string]int
}

// LoadRegistry loads the publisher registry from a YAML or JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errEmptyPublishersPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	entries, err := decodePublishersFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errNoPublishers
	}
	return newConfigRegistry(entries)
}

func newConfigRegistry(entries []PublisherConfig) (*ConfigRegistry, error) {
	reg := &ConfigRegistry{
		ordered: make([]PublisherConfig, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for i, entry := range entries {
		cfg := entry.normalize()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := reg.byID[cfg.ID]; dup {
			return nil, fmt.Errorf("publishers[%d]: duplicate publisher id %q", i, cfg.ID)
		}
		reg.byID[cfg.ID] = len(reg.ordered)
		reg.ordered = append(reg.ordered, cfg)
	}
	return reg, nil
}

// decodePublishersFile picks the decoder from the file extension.
func decodePublishersFile(data []byte, ext string) ([]PublisherConfig, error) {
	var (
		file configFile
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".json":
		err = json.Unmarshal(data, &file)
	case ".yaml", ".yml", "":
		// The YAML decoder also reads JSON documents.
		err = yaml.Unmarshal(data, &file)
	default:
		return nil, fmt.Errorf("publishers file extension %q not supported (expected .yaml, .yml or .json)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode publishers file: %w", err)
	}
	return file.Publishers, nil
}

// normalize trims every field, lowercases the type and fills defaults.
func (cfg PublisherConfig) normalize() PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}
	if cfg.SQS != nil {
		c := cfg.SQS.normalize()
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := cfg.SNS.normalize()
		cfg.SNS = &c
	}
	if cfg.HTTP != nil {
		c := cfg.HTTP.normalize()
		cfg.HTTP = &c
	}
	if cfg.GCPPubSub != nil {
		c := cfg.GCPPubSub.normalize()
		cfg.GCPPubSub = &c
	}
	return cfg
}

// validate checks the fields required by the declared type. Unknown types are left
// to the builder registry, which knows what it can construct.
func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}

	var err error
	switch cfg.Type {
	case "":
		err = errors.New("type is required")
	case TypeSQS:
		if cfg.SQS == nil {
			return cfg.missingBlock()
		}
		err = cfg.SQS.validate()
	case TypeSNS:
		if cfg.SNS == nil {
			return cfg.missingBlock()
		}
		err = cfg.SNS.validate()
	case TypeHTTP:
		if cfg.HTTP == nil {
			return cfg.missingBlock()
		}
		err = cfg.HTTP.validate()
	case TypeGCPPubSub:
		if cfg.GCPPubSub == nil {
			return cfg.missingBlock()
		}
		err = cfg.GCPPubSub.validate()
	}
	if err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return nil
}

func (cfg PublisherConfig) missingBlock() error {
	return fmt.Errorf("publisher %q: %s config block is required", cfg.ID, cfg.Type)
}

func (a AWSAccess) trimmed() AWSAccess {
	a.Region = strings.TrimSpace(a.Region)
	a.Endpoint = strings.TrimSpace(a.Endpoint)
	a.AccessKeyID = strings.TrimSpace(a.AccessKeyID)
	a.SecretAccessKey = strings.TrimSpace(a.SecretAccessKey)
	return a
}

func (c SQSPublisherConfig) normalize() SQSPublisherConfig {
	c.QueueURL = strings.TrimSpace(c.QueueURL)
	c.AWSAccess = c.AWSAccess.trimmed()
	return c
}

func (c SQSPublisherConfig) validate() error {
	switch {
	case c.QueueURL == "":
		return errors.New("sqs.uri is required")
	case c.Region == "":
		return errors.New("sqs.region is required")
	}
	return nil
}

func (c SNSPublisherConfig) normalize() SNSPublisherConfig {
	c.TopicARN = strings.TrimSpace(c.TopicARN)
	c.AWSAccess = c.AWSAccess.trimmed()
	return c
}

func (c SNSPublisherConfig) validate() error {
	switch {
	case c.TopicARN == "":
		return errors.New("sns.topic_arn is required")
	case c.Region == "":
		return errors.New("sns.region is required")
	}
	return nil
}

func (c HTTPPublisherConfig) normalize() HTTPPublisherConfig {
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = defaultWebhookMethod
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultWebhookTimeoutSeconds
	}

	// Blank names or values are dropped; a map left empty becomes nil.
	var headers map[string]string
	for k, v := range c.Headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		if headers == nil {
			headers = make(map[string]string, len(c.Headers))
		}
		headers[k] = v
	}
	c.Headers = headers
	return c
}

func (c HTTPPublisherConfig) validate() error {
	if c.URL == "" {
		return errors.New("http.url is required")
	}
	return nil
}

func (c GCPPubSubPublisherConfig) normalize() GCPPubSubPublisherConfig {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Topic = strings.TrimSpace(c.Topic)
	c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
	return c
}

func (c GCPPubSubPublisherConfig) validate() error {
	if c.ProjectID == "" || c.Topic == "" {
		return errors.New("gcppubsub.project_id and gcppubsub.topic are required")
	}
	return nil
}

// ByID looks a publisher up by its id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	i, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return PublisherConfig{}, false
	}
	return r.ordered[i], true
}

// All returns a copy of every declared publisher.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	return append([]PublisherConfig(nil), r.ordered...)
}

// Enabled returns the publishers not switched off, in file order.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	if r == nil {
		return nil
	}
	var out []PublisherConfig
	for _, cfg := range r.ordered {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue reports the enabled flag, defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}
