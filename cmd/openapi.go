package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"
)

var (
	openapiCmd = &cobra.Command{
		RunE:  runOpenAPIValidation,
		Use:   "openapi",
		Short: "Validate the OpenAPI document under api/",
	}
	openapiFile string
)

func init() {
	openapiCmd.Flags().StringVarP(&openapiFile, "file", "f", "api/openapi.yml", "OpenAPI document to validate")

	rootCmd.AddCommand(openapiCmd)
}

func runOpenAPIValidation(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(openapiFile)
	if err != nil {
		log.Fatalf("openapi: failed to load %s: %v", openapiFile, err)
	}

	if err := doc.Validate(ctx); err != nil {
		log.Fatalf("openapi: %s is invalid: %v", openapiFile, err)
	}

	fmt.Printf("%s is valid (%d paths)\n", openapiFile, doc.Paths.Len())
	return nil
}
