// Package cmd provides CLI commands for the formwire binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for the encode command.
var (
	// FieldFlag adds an inline scalar field (name=value), repeatable.
	FieldFlag = &cli.StringSliceFlag{
		Name:    "field",
		Aliases: []string{"F"},
		Usage:   "Add an inline field as name=value (repeatable)",
	}

	// FileFlag adds a source-backed field (name=path or name=s3://bucket/key),
	// repeatable.
	FileFlag = &cli.StringSliceFlag{
		Name:  "file",
		Usage: "Add a file field as name=path or name=s3://bucket/key (repeatable)",
	}

	// ManifestFlag reads fields from a YAML manifest file.
	ManifestFlag = &cli.StringFlag{
		Name:    "manifest",
		Aliases: []string{"m"},
		Usage:   "Read fields from a YAML manifest file",
	}

	// StdinFramesFlag reads fields as msgpack frames from stdin.
	StdinFramesFlag = &cli.BoolFlag{
		Name:  "stdin-frames",
		Usage: "Read fields as length-prefixed msgpack frames from stdin",
	}

	// EncodingFlag selects the body encoding.
	EncodingFlag = &cli.StringFlag{
		Name:    "encoding",
		Aliases: []string{"e"},
		Usage:   "Body encoding: urlencoded or multipart",
	}

	// OutputFlag selects where the body is written; "-" is stdout.
	OutputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the body to this path (\"-\" for stdout)",
	}

	// ConfigFlag points at the YAML config file.
	ConfigFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to formwire.yaml (default: ./formwire.yaml if present)",
	}

	// DeliverFlag selects a delivery adapter instead of file output.
	DeliverFlag = &cli.StringFlag{
		Name:  "deliver",
		Usage: "Deliver the body instead of writing it: webhook or redis",
	}

	// DeliverURLFlag sets the delivery endpoint.
	DeliverURLFlag = &cli.StringFlag{
		Name:  "deliver-url",
		Usage: "Delivery endpoint (webhook URL or redis:// URL)",
	}

	// DeliverChannelFlag sets the Redis pub/sub channel.
	DeliverChannelFlag = &cli.StringFlag{
		Name:  "deliver-channel",
		Usage: "Redis pub/sub channel for redis delivery",
	}
)

// EncodeFlags returns the flags for the encode command.
func EncodeFlags() []cli.Flag {
	return []cli.Flag{
		FieldFlag,
		FileFlag,
		ManifestFlag,
		StdinFramesFlag,
		EncodingFlag,
		OutputFlag,
		ConfigFlag,
		DeliverFlag,
		DeliverURLFlag,
		DeliverChannelFlag,
	}
}
