package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

// bidDetailsSchema constrains the structured fields a disclosed bidder
// supplies. Unknown fields are rejected so stray keys cannot smuggle
// data past review.
const bidDetailsSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"additionalProperties": false,
	"required": ["company_name", "tax_number", "csd_number", "years_in_service"],
	"properties": {
		"company_name":     {"type": "string", "minLength": 1, "maxLength": 255},
		"tax_number":       {"type": "string", "minLength": 1, "maxLength": 64},
		"csd_number":       {"type": "string", "minLength": 1, "maxLength": 64},
		"bbbee_level":      {"type": "string", "maxLength": 16},
		"years_in_service": {"type": "string", "minLength": 1, "maxLength": 16}
	}
}`

var (
	bidSchemaOnce sync.Once
	bidSchema     *santhosh.Schema
	bidSchemaErr  error
)

func compiledBidSchema() (*santhosh.Schema, error) {
	bidSchemaOnce.Do(func() {
		compiler := santhosh.NewCompiler()
		if err := compiler.AddResource("bid-details.json", bytes.NewReader([]byte(bidDetailsSchema))); err != nil {
			bidSchemaErr = fmt.Errorf("add bid schema resource: %w", err)
			return
		}
		bidSchema, bidSchemaErr = compiler.Compile("bid-details.json")
	})
	return bidSchema, bidSchemaErr
}

// validateBidDetails checks the details document against the embedded
// schema. A schema violation surfaces as ErrInvalidInput.
func validateBidDetails(details json.RawMessage) error {
	schema, err := compiledBidSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(details, &doc); err != nil {
		return domain.ResourceFault(domain.ErrInvalidInput, domain.ResourceSubmission, 0)
	}
	if err := schema.Validate(doc); err != nil {
		return domain.ResourceFault(domain.ErrInvalidInput, domain.ResourceSubmission, 0)
	}
	return nil
}
