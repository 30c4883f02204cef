// Package models defines the core data structures shared between the dataset
// loader, the graph selector and the HTTP layer.
package models

// RawRecord is one row of the pairing table before normalization.
type RawRecord struct {
	Main    string
	Pairing string
	Level   string
	// Line is the 1-based source line of the record, 0 if unknown.
	Line int
}

// PairingRecord is a normalized (main, pairing, level) triple.
type PairingRecord struct {
	Main    string `json:"main"`
	Pairing string `json:"pairing"`
	Level   int    `json:"level"`
}
