// Package record holds the inspection and invoice records consumed by the document engine.
//
// Records are produced by the form layer and handed to the engine fully populated. The engine
// treats them as read-only: nothing in this module mutates a record after it has been loaded.
//
// Key Types:
//
// - Inspection: a property inspection grouped into Areas of Items
// - Item: a single checkpoint with a Pass/Fail/N/A Status, comments and Photos
// - Invoice: a client invoice with ServiceItems, priced through a Pricing configuration
// - Tally: running Pass/Fail/N/A counts and the derived pass rate
//
// Main Functions:
//
// - Load: reads an Inspection or Invoice from a YAML or JSON file
// - ParseStatus: maps free-form status strings onto the closed Status enum
package record

import (
	"strconv"
	"strings"
)

// Inspection is a complete inspection record for one property visit
type Inspection struct {
	ID               string `yaml:"id" json:"id"`
	ClientName       string `yaml:"clientName" json:"clientName"`
	ClientPhone      string `yaml:"clientPhone" json:"clientPhone"`
	ClientEmail      string `yaml:"clientEmail" json:"clientEmail"`
	PropertyLocation string `yaml:"propertyLocation" json:"propertyLocation"`
	PropertyType     string `yaml:"propertyType" json:"propertyType"`
	InspectorName    string `yaml:"inspectorName" json:"inspectorName"`
	InspectionDate   string `yaml:"inspectionDate" json:"inspectionDate"`
	Areas            []Area `yaml:"areas" json:"areas"`
	AISummary        string `yaml:"aiSummary" json:"aiSummary"` // Optional, may contain HTML
}

// Area is a named group of items, e.g. "Kitchen"
type Area struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Items []Item `yaml:"items" json:"items"`
}

// Item is one inspection checkpoint
type Item struct {
	ID       string  `yaml:"id" json:"id"`
	Category string  `yaml:"category" json:"category"`
	Point    string  `yaml:"point" json:"point"`
	Status   Status  `yaml:"status" json:"status"`
	Comments string  `yaml:"comments" json:"comments"`
	Location string  `yaml:"location" json:"location"`
	Photos   []Photo `yaml:"photos" json:"photos"`
}

// Photo is an image attached to an item.
// Base64 normally holds a data URI; it may also hold an http(s) URL until resolved.
type Photo struct {
	Base64 string `yaml:"base64" json:"base64"`
	Name   string `yaml:"name" json:"name"`
}

// ItemCount returns the number of items across all areas
func (r *Inspection) ItemCount() int {
	n := 0
	for _, a := range r.Areas {
		n += len(a.Items)
	}
	return n
}

// PhotoCount returns the number of photos across all items
func (r *Inspection) PhotoCount() int {
	n := 0
	for _, a := range r.Areas {
		for _, it := range a.Items {
			n += len(it.Photos)
		}
	}
	return n
}

// Notes builds the notes column text for an item: comments, location and a photo count,
// joined with " | ". Empty parts are left out.
func (it Item) Notes() string {
	var parts []string
	if c := strings.TrimSpace(it.Comments); c != "" {
		parts = append(parts, c)
	}
	if l := strings.TrimSpace(it.Location); l != "" {
		parts = append(parts, "Location: "+l)
	}
	switch n := len(it.Photos); {
	case n == 1:
		parts = append(parts, "[1 photo]")
	case n > 1:
		parts = append(parts, "["+strconv.Itoa(n)+" photos]")
	}
	return strings.Join(parts, " | ")
}

// Clone returns a deep copy of the inspection so callers can derive a modified record
// without touching the original.
func (r *Inspection) Clone() *Inspection {
	out := *r
	out.Areas = make([]Area, len(r.Areas))
	for i, a := range r.Areas {
		na := a
		na.Items = make([]Item, len(a.Items))
		for j, it := range a.Items {
			ni := it
			ni.Photos = append([]Photo(nil), it.Photos...)
			na.Items[j] = ni
		}
		out.Areas[i] = na
	}
	return &out
}
