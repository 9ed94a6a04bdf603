package endpoint

import (
	"encoding/json"
	"fmt"
)

// record is the persisted shape of an endpoint
type record struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Encode serializes the collection as a pretty-printed JSON array
func Encode(endpoints []Endpoint) ([]byte, error) {
	records := make([]record, 0, len(endpoints))
	for _, e := range endpoints {
		records = append(records, record{ID: e.ID, URL: e.URL, Name: e.Name, Active: e.Active})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling endpoints: %w", err)
	}
	return data, nil
}

// Decode parses a document written by Encode
func Decode(data []byte) ([]Endpoint, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling endpoints: %w", err)
	}
	endpoints := make([]Endpoint, 0, len(records))
	for _, r := range records {
		endpoints = append(endpoints, Endpoint{ID: r.ID, URL: r.URL, Name: r.Name, Active: r.Active})
	}
	return endpoints, nil
}
