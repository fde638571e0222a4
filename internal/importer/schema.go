package importer

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/listing.schema.json
var listingSchemaJSON []byte

const listingSchemaURL = "listing.schema.json"

// compileListingSchema builds the record shape validator.
func compileListingSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(listingSchemaURL, bytes.NewReader(listingSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add listing schema: %w", err)
	}
	schema, err := compiler.Compile(listingSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile listing schema: %w", err)
	}
	return schema, nil
}
