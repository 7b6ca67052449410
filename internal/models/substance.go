package models

import (
	"encoding/json"
	"fmt"
)

// Substance represents a normalized substance document loaded from the
// content directory. One JSON file per substance; the filename stem
// conventionally matches the ID but the ID field is authoritative.
type Substance struct {
	// Identity
	ID string `json:"id"`

	// Localized display names. JA is the primary name; a document without
	// it is not indexable.
	Name Name `json:"name"`

	// Content
	Aliases    []string `json:"aliases,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Effects    []string `json:"effects,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Categories []string `json:"categories,omitempty"`

	// Legal classification, jurisdiction-scoped
	Legal *Legal `json:"legal,omitempty"`

	// External identifiers (PubChem etc.), resolved once at parse time
	Identifiers Identifiers `json:"identifiers,omitempty"`
}

// Name holds the localized display names for a substance.
type Name struct {
	JA string `json:"ja"`
	EN string `json:"en,omitempty"`
}

// Legal holds per-jurisdiction legal classifications.
type Legal struct {
	JP *Jurisdiction `json:"jp,omitempty"`
}

// Jurisdiction is a single jurisdiction's classification of a substance.
type Jurisdiction struct {
	Status string `json:"status,omitempty"` // e.g. 麻薬, 指定薬物
	Law    string `json:"law,omitempty"`
	Note   string `json:"note,omitempty"`
}

// Identifiers holds external database identifiers for a substance.
type Identifiers struct {
	PubChemCID string `json:"pubchem_cid,omitempty"`
	InChIKey   string `json:"inchikey,omitempty"`
}

// DisplayName returns the primary display name, falling back to the ID.
func (s *Substance) DisplayName() string {
	if s.Name.JA != "" {
		return s.Name.JA
	}
	return s.ID
}

// JPStatus returns the Japanese legal status, or "" when absent.
func (s *Substance) JPStatus() string {
	if s.Legal == nil || s.Legal.JP == nil {
		return ""
	}
	return s.Legal.JP.Status
}

// SubstanceSummary is the public projection of a substance returned by the
// query API. Internal derived fields are never part of it.
type SubstanceSummary struct {
	ID         string   `json:"id"`
	Name       Name     `json:"name"`
	Summary    string   `json:"summary,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Legal      *Legal   `json:"legal,omitempty"`
}

// ToSummary projects the substance into its public API shape.
func (s *Substance) ToSummary() SubstanceSummary {
	return SubstanceSummary{
		ID:         s.ID,
		Name:       s.Name,
		Summary:    s.Summary,
		Categories: s.Categories,
		Legal:      s.Legal,
	}
}

// rawSubstance mirrors the on-disk document loosely. Content files were
// written at different times by different scripts, so several fields come in
// more than one shape and are coerced in ParseSubstance.
type rawSubstance struct {
	ID          string          `json:"id"`
	Name        json.RawMessage `json:"name"`
	Aliases     json.RawMessage `json:"aliases"`
	Summary     json.RawMessage `json:"summary"`
	Effects     json.RawMessage `json:"effects"`
	Warnings    json.RawMessage `json:"warnings"`
	Categories  json.RawMessage `json:"categories"`
	Legal       *Legal          `json:"legal"`
	Identifiers json.RawMessage `json:"identifiers"`
	Identifier  json.RawMessage `json:"identifier"` // legacy singular key
	PubChemCID  json.RawMessage `json:"pubchem_cid"`
}

// ParseSubstance maps an on-disk JSON document into the strict Substance
// record. Shape variance it absorbs:
//   - name as object {ja,en} or as a bare string (treated as the JA name)
//   - aliases/effects/warnings/categories as array or single string
//   - identifiers under "identifiers" or legacy "identifier", with
//     pubchem_cid/pubchemCID and inchikey/inchi_key key variants
//   - PubChem CID precedence: identifiers.pubchem_cid, then the flat
//     top-level pubchem_cid, else absent
//
// All coercion happens here, once; nothing is re-resolved at query time.
func ParseSubstance(data []byte) (*Substance, error) {
	var raw rawSubstance
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid substance document: %w", err)
	}

	sub := &Substance{
		ID:         raw.ID,
		Name:       parseName(raw.Name),
		Aliases:    toStringSlice(raw.Aliases),
		Summary:    toString(raw.Summary),
		Effects:    toStringSlice(raw.Effects),
		Warnings:   toStringSlice(raw.Warnings),
		Categories: toStringSlice(raw.Categories),
		Legal:      raw.Legal,
	}

	idents := raw.Identifiers
	if idents == nil {
		idents = raw.Identifier
	}
	sub.Identifiers = parseIdentifiers(idents)
	if sub.Identifiers.PubChemCID == "" {
		sub.Identifiers.PubChemCID = toString(raw.PubChemCID)
	}

	return sub, nil
}

func parseName(raw json.RawMessage) Name {
	if raw == nil {
		return Name{}
	}
	var obj Name
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj
	}
	// Legacy files carry a bare string for the primary name
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Name{JA: s}
	}
	return Name{}
}

func parseIdentifiers(raw json.RawMessage) Identifiers {
	if raw == nil {
		return Identifiers{}
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return Identifiers{}
	}
	out := Identifiers{}
	// Key variants, preferred form first
	for _, key := range []string{"pubchem_cid", "pubchemCID"} {
		if v, ok := m[key]; ok && out.PubChemCID == "" {
			out.PubChemCID = toString(v)
		}
	}
	for _, key := range []string{"inchikey", "inchi_key"} {
		if v, ok := m[key]; ok && out.InChIKey == "" {
			out.InChIKey = toString(v)
		}
	}
	return out
}

// toString coerces a raw JSON value into a string: strings pass through,
// numbers are formatted, arrays contribute their first string element.
func toString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil && len(arr) > 0 {
		return toString(arr[0])
	}
	return ""
}

// toStringSlice coerces a raw JSON value into a string slice: arrays keep
// their string elements, a bare string becomes a one-element slice.
func toStringSlice(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		out := make([]string, 0, len(arr))
		for _, el := range arr {
			if s := toString(el); s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	if s := toString(raw); s != "" {
		return []string{s}
	}
	return nil
}
