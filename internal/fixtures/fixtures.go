// Package fixtures holds the sample datasets the walkthroughs load into the
// store. They are embedded YAML so every run writes the same data.
package fixtures

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	//go:embed search_docs.yaml
	searchDocsYAML []byte

	//go:embed vector_samples.yaml
	vectorSamplesYAML []byte

	//go:embed user_document.yaml
	userDocumentYAML []byte
)

// SearchDoc is a hash document indexed by the search walkthrough
type SearchDoc struct {
	Key      string  `yaml:"key"`
	Title    string  `yaml:"title"`
	Body     string  `yaml:"body"`
	Price    float64 `yaml:"price"`
	Category string  `yaml:"category"`
	Location string  `yaml:"location"`
}

// Fields returns the hash fields written with HSET
func (d SearchDoc) Fields() map[string]any {
	return map[string]any{
		"title":    d.Title,
		"body":     d.Body,
		"price":    d.Price,
		"category": d.Category,
		"location": d.Location,
	}
}

// VectorSample is a text embedded and stored by the vector walkthrough
type VectorSample struct {
	ID      string `yaml:"id"`
	Content string `yaml:"content"`
}

// UserDocument is the nested JSON document of the JSON walkthrough
type UserDocument struct {
	User User `yaml:"user" json:"user"`
}

type User struct {
	ID       int       `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Address  Address   `yaml:"address" json:"address"`
	Contacts []Contact `yaml:"contacts" json:"contacts"`
	Stats    Stats     `yaml:"stats" json:"stats"`
}

type Address struct {
	City string `yaml:"city" json:"city"`
	Zip  string `yaml:"zip" json:"zip"`
}

type Contact struct {
	Type  string `yaml:"type" json:"type"`
	Value string `yaml:"value" json:"value"`
}

type Stats struct {
	Visits   int  `yaml:"visits" json:"visits"`
	IsActive bool `yaml:"is_active" json:"is_active"`
}

// SearchDocs returns the search walkthrough documents in file order
func SearchDocs() ([]SearchDoc, error) {
	var docs []SearchDoc
	if err := yaml.Unmarshal(searchDocsYAML, &docs); err != nil {
		return nil, fmt.Errorf("error parsing search documents: %w", err)
	}
	return docs, nil
}

// VectorSamples returns the vector walkthrough texts in file order
func VectorSamples() ([]VectorSample, error) {
	var samples []VectorSample
	if err := yaml.Unmarshal(vectorSamplesYAML, &samples); err != nil {
		return nil, fmt.Errorf("error parsing vector samples: %w", err)
	}
	return samples, nil
}

// UserDoc returns the JSON walkthrough document
func UserDoc() (*UserDocument, error) {
	var doc UserDocument
	if err := yaml.Unmarshal(userDocumentYAML, &doc); err != nil {
		return nil, fmt.Errorf("error parsing user document: %w", err)
	}
	return &doc, nil
}
