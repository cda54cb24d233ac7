package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/jessevdk/go-flags"

	"github.com/joolab/newswire/pkg/config"
	"github.com/joolab/newswire/pkg/domain"
)

// Opts with all CLI options
type Opts struct {
	Config  string `long:"config" default:"schema.json" description:"output file for the config schema"`
	Payload string `long:"payload" description:"output file for the latest.json payload schema, skipped if empty"`
}

func main() {
	var opts Opts
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := writeSchema(config.GenerateSchema(), opts.Config); err != nil {
		log.Fatalf("failed to write config schema: %v", err)
	}
	fmt.Printf("Schema generated successfully at %s\n", opts.Config)

	if opts.Payload != "" {
		if err := writeSchema(payloadSchema(), opts.Payload); err != nil {
			log.Fatalf("failed to write payload schema: %v", err)
		}
		fmt.Printf("Schema generated successfully at %s\n", opts.Payload)
	}
}

// payloadSchema describes latest.json for downstream consumers
func payloadSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	return r.Reflect(&domain.Payload{})
}

func writeSchema(schema *jsonschema.Schema, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
