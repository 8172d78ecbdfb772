// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package models

import (
	"strconv"
	"strings"
)

// Destination is a bookable place known to the destination store.
type Destination struct {
	ID            int64   `json:"id" validate:"required,gt=0"`
	Name          string  `json:"name" validate:"required,max=256"`
	Region        string  `json:"region" validate:"max=128"`
	ImageURL      string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Tags          string  `json:"tags,omitempty"` // comma separated
	AverageRating float64 `json:"average_rating" validate:"gte=0,lte=5"`
}

// Key returns the destination ID in the string form used by interaction targets.
func (d *Destination) Key() string {
	return strconv.FormatInt(d.ID, 10)
}

// TagList splits the comma separated tag string, trimming whitespace.
func (d *Destination) TagList() []string {
	if d.Tags == "" {
		return []string{}
	}
	parts := strings.Split(d.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}

// LowerTags returns TagList lowercased.
func (d *Destination) LowerTags() []string {
	tags := d.TagList()
	for i, t := range tags {
		tags[i] = strings.ToLower(t)
	}
	return tags
}

// HasTagContaining reports whether any lowercased tag contains the lowercased needle.
func (d *Destination) HasTagContaining(needle string) bool {
	needle = strings.ToLower(needle)
	for _, tag := range d.LowerTags() {
		if strings.Contains(tag, needle) {
			return true
		}
	}
	return false
}
