package course

import (
	_ "embed"
	"sync"

	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/schemaload"
)

//go:embed landing.yaml
var landingDocument []byte

var (
	landingOnce   sync.Once
	landingSchema model.Schema
	landingErr    error
)

// LandingSchema returns the built-in landing page schema. The returned slice
// is a copy and may be modified by the caller.
func LandingSchema() (model.Schema, error) {
	landingOnce.Do(func() {
		landingSchema, landingErr = schemaload.Parse(landingDocument, "landing.yaml")
	})
	if landingErr != nil {
		return nil, landingErr
	}
	out := make(model.Schema, len(landingSchema))
	copy(out, landingSchema)
	return out, nil
}

// MustLandingSchema is LandingSchema for package initialisation and tests.
func MustLandingSchema() model.Schema {
	schema, err := LandingSchema()
	if err != nil {
		panic(err)
	}
	return schema
}
