package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/formwire/cli/config"
	"github.com/justapithecus/formwire/deliver"
	"github.com/justapithecus/formwire/deliver/redis"
	"github.com/justapithecus/formwire/deliver/webhook"
	"github.com/justapithecus/formwire/form"
	"github.com/justapithecus/formwire/iox"
	"github.com/justapithecus/formwire/log"
	"github.com/justapithecus/formwire/manifest"
	"github.com/justapithecus/formwire/source"
	"github.com/justapithecus/formwire/types"
)

// defaultConfigPath is probed when --config is not given.
const defaultConfigPath = "formwire.yaml"

// Exit codes for encode:
//   - 0: success
//   - 1: input error (flags, manifest, sources, encoding)
//   - 2: delivery failure
const (
	exitInputError   = 1
	exitDeliverError = 2
)

// EncodeCommand returns the encode command.
// Fields come from repeatable flags, a YAML manifest, or msgpack frames
// on stdin; the encoded body goes to a file, stdout, or a delivery
// adapter.
func EncodeCommand() *cli.Command {
	return &cli.Command{
		Name:   "encode",
		Usage:  "Encode form fields into a wire-ready HTTP body",
		Flags:  EncodeFlags(),
		Action: encodeAction,
	}
}

func encodeAction(c *cli.Context) error {
	logger := log.NewLogger("cli")

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}

	m, err := buildManifest(c)
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}
	if len(m.Fields) == 0 {
		return cli.Exit("no fields given (use --field, --file, --manifest, or --stdin-frames)", exitInputError)
	}

	resolver := source.NewResolver(source.S3Config{
		Region:       cfg.S3.Region,
		Endpoint:     cfg.S3.Endpoint,
		UsePathStyle: cfg.S3.S3PathStyle,
	})

	ctx := c.Context
	fields, err := m.Resolve(ctx, resolver)
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}

	encoding := pickEncoding(c, m, cfg)
	payload, err := form.Serialize(fields, types.Encoding(encoding), form.WithLogger(logger))
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}

	if deliverer, err := buildDeliverer(c, cfg); err != nil {
		return cli.Exit(err.Error(), exitInputError)
	} else if deliverer != nil {
		defer iox.DiscardClose(deliverer)
		if err := deliverer.Deliver(ctx, payload); err != nil {
			return cli.Exit(err.Error(), exitDeliverError)
		}
		logger.Info("body delivered", map[string]any{
			"content_type": payload.ContentType,
		})
		return nil
	}

	return writeOutput(c, cfg, payload, logger)
}

// loadConfig loads the --config file, or formwire.yaml when present.
// Missing default config is not an error.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return config.Load(defaultConfigPath)
	}
	return &config.Config{}, nil
}

// buildManifest collects field specs in order: manifest file or stdin
// frames first, then --field flags, then --file flags. Manifest and
// stdin frames are mutually exclusive.
func buildManifest(c *cli.Context) (*manifest.Manifest, error) {
	manifestPath := c.String("manifest")
	stdinFrames := c.Bool("stdin-frames")
	if manifestPath != "" && stdinFrames {
		return nil, fmt.Errorf("--manifest and --stdin-frames are mutually exclusive")
	}

	var m *manifest.Manifest
	switch {
	case manifestPath != "":
		loaded, err := manifest.Load(manifestPath)
		if err != nil {
			return nil, err
		}
		m = loaded
	case stdinFrames:
		loaded, err := manifest.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		m = loaded
	default:
		m = &manifest.Manifest{}
	}

	for _, raw := range c.StringSlice("field") {
		name, value, ok := strings.Cut(raw, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --field %q (want name=value)", raw)
		}
		v := value
		m.Fields = append(m.Fields, manifest.FieldSpec{Name: name, Value: &v})
	}
	for _, raw := range c.StringSlice("file") {
		name, ref, ok := strings.Cut(raw, "=")
		if !ok || name == "" || ref == "" {
			return nil, fmt.Errorf("invalid --file %q (want name=path)", raw)
		}
		m.Fields = append(m.Fields, manifest.FieldSpec{Name: name, Source: ref})
	}
	return m, nil
}

// pickEncoding resolves the encoding: flag > manifest > config > default.
// Unknown values are passed through; the dispatcher falls back with a
// warning rather than failing.
func pickEncoding(c *cli.Context, m *manifest.Manifest, cfg *config.Config) string {
	if enc := c.String("encoding"); enc != "" {
		return enc
	}
	if m.Encoding != "" {
		return m.Encoding
	}
	if cfg.Encoding != "" {
		return cfg.Encoding
	}
	return string(types.EncodingURL)
}

// buildDeliverer constructs the delivery adapter from flags and config,
// or nil when no delivery is requested.
func buildDeliverer(c *cli.Context, cfg *config.Config) (deliver.Deliverer, error) {
	kind := c.String("deliver")
	if kind == "" {
		kind = cfg.Deliver.Type
	}
	if kind == "" {
		return nil, nil
	}

	url := c.String("deliver-url")
	if url == "" {
		url = cfg.Deliver.URL
	}

	retries := -1
	if cfg.Deliver.Retries != nil {
		retries = *cfg.Deliver.Retries
	}

	switch kind {
	case "webhook":
		wcfg := webhook.Config{
			URL:     url,
			Headers: cfg.Deliver.Headers,
			Timeout: cfg.Deliver.Timeout.Duration,
		}
		if retries >= 0 {
			wcfg.Retries = retries
		} else {
			wcfg.Retries = webhook.DefaultRetries
		}
		return webhook.New(wcfg)
	case "redis":
		channel := c.String("deliver-channel")
		if channel == "" {
			channel = cfg.Deliver.Channel
		}
		rcfg := redis.Config{
			URL:     url,
			Channel: channel,
			Timeout: cfg.Deliver.Timeout.Duration,
		}
		if retries >= 0 {
			rcfg.Retries = retries
		} else {
			rcfg.Retries = redis.DefaultRetries
		}
		return redis.New(rcfg)
	default:
		return nil, fmt.Errorf("unknown deliver type %q (must be webhook or redis)", kind)
	}
}

// writeOutput copies the body to the output path ("-" is stdout) and
// logs the headers a caller would attach to the request.
func writeOutput(c *cli.Context, cfg *config.Config, payload *form.Payload, logger *log.Logger) error {
	defer iox.DiscardClose(payload.Body)

	path := c.String("output")
	if path == "" {
		path = cfg.Output
	}
	if path == "" {
		path = "-"
	}

	var out io.Writer
	if path == "-" {
		out = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("cannot create output %q: %v", path, err), exitInputError)
		}
		defer iox.DiscardClose(f)
		out = f
	}

	n, err := io.Copy(out, payload.Body)
	if err != nil {
		return cli.Exit(fmt.Sprintf("encode failed after %d bytes: %v", n, err), exitInputError)
	}

	logger.Info("body encoded", map[string]any{
		"content_type": payload.ContentType,
		"bytes":        n,
	})
	return nil
}
