// Package labs loads the Learning Labs catalog and formats it for prompts.
package labs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Entry is one lab session from the llgen catalog.
type Entry struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Date               string   `json:"date"` // "YYYY-MM"
	URL                string   `json:"-"`    // lab page if available, else recording
	RecordingURL       string   `json:"recording_url"`
	Technologies       []string `json:"technologies"`
	ChainguardProducts []string `json:"chainguard_products"`
	Difficulty         string   `json:"difficulty"`
	IntentSignals      []string `json:"intent_signals"`
	Summary            string   `json:"summary"`
	WhatYouBuild       string   `json:"what_you_build"`
	ProblemsAddressed  []string `json:"problems_addressed"`
	Prerequisites      []string `json:"prerequisites"`
	Personas           []string `json:"personas"`
	RelatedLabs        []string `json:"related_labs"`
}

type catalogEntry struct {
	Entry
	LabPageURL string `json:"lab_page_url"`
}

type catalog struct {
	Labs []catalogEntry `json:"labs"`
}

// Load parses labs-catalog.json. Entries with neither a lab page nor a
// recording URL are dropped; the lab page URL is preferred when both exist.
// A missing or corrupt catalog yields no labs.
func Load(catalogPath string) ([]Entry, error) {
	data, err := os.ReadFile(catalogPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, nil
	}

	var entries []Entry
	for _, ce := range c.Labs {
		e := ce.Entry
		e.URL = ce.LabPageURL
		if e.URL == "" {
			e.URL = ce.RecordingURL
		}
		if e.URL == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ByID indexes labs for tool dispatch.
func ByID(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.ID] = e
	}
	return m
}

// IndexText builds the compact labs index embedded in the initial prompt.
// Empty when there are no labs.
func IndexText(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	lines := []string{"## Learning Labs Index\n"}
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- **%s** (%s) [%s]", e.Title, e.Date, e.Difficulty))
		lines = append(lines, fmt.Sprintf("  ID: %s | URL: %s", e.ID, e.URL))
		if len(e.Technologies) > 0 {
			lines = append(lines, "  Technologies: "+strings.Join(e.Technologies, ", "))
		}
		if len(e.IntentSignals) > 0 {
			signals := e.IntentSignals
			if len(signals) > 6 {
				signals = signals[:6]
			}
			lines = append(lines, "  Signals: "+strings.Join(signals, ", "))
		}
		if e.Summary != "" {
			lines = append(lines, "  Summary: "+truncate(e.Summary, 200))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// DetailText formats a single lab's full details as a tool result.
func DetailText(e Entry) string {
	lines := []string{
		"# " + e.Title,
		"**ID**: " + e.ID,
		"**Date**: " + e.Date,
		"**Difficulty**: " + e.Difficulty,
		"**URL**: " + e.URL,
	}
	if e.RecordingURL != "" && e.RecordingURL != e.URL {
		lines = append(lines, "**Recording**: "+e.RecordingURL)
	}
	if len(e.Technologies) > 0 {
		lines = append(lines, "**Technologies**: "+strings.Join(e.Technologies, ", "))
	}
	if len(e.ChainguardProducts) > 0 {
		lines = append(lines, "**Chainguard products**: "+strings.Join(e.ChainguardProducts, ", "))
	}
	if len(e.Personas) > 0 {
		lines = append(lines, "**Personas**: "+strings.Join(e.Personas, ", "))
	}
	if e.Summary != "" {
		lines = append(lines, "\n**Summary**: "+e.Summary)
	}
	if e.WhatYouBuild != "" {
		lines = append(lines, "\n**What you build**: "+e.WhatYouBuild)
	}
	if len(e.ProblemsAddressed) > 0 {
		lines = append(lines, "\n**Problems addressed**:")
		for _, p := range e.ProblemsAddressed {
			lines = append(lines, "- "+p)
		}
	}
	if len(e.Prerequisites) > 0 {
		lines = append(lines, "\n**Prerequisites**: "+strings.Join(e.Prerequisites, ", "))
	}
	if len(e.IntentSignals) > 0 {
		lines = append(lines, "\n**Intent signals**: "+strings.Join(e.IntentSignals, ", "))
	}
	if len(e.RelatedLabs) > 0 {
		lines = append(lines, "\n**Related labs**: "+strings.Join(e.RelatedLabs, ", "))
	}
	return strings.Join(lines, "\n")
}
