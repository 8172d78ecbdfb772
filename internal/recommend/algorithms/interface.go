// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package algorithms

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/recommend"
)

// scored is a destination with an algorithm score.
type scored struct {
	dest  *models.Destination
	score float64
}

// topScored sorts by score descending, ties by destination ID, and keeps k.
func topScored(items []scored, k int) []scored {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].dest.ID < items[j].dest.ID
	})
	if k >= 0 && len(items) > k {
		items = items[:k]
	}
	return items
}

// destinationIndex resolves destination preference values. Values are
// matched by destination name first, then by ID, since interaction targets
// carry IDs while imported preferences may carry names.
type destinationIndex struct {
	byName map[string]*models.Destination
	byKey  map[string]*models.Destination
	byID   map[int64]*models.Destination
}

func newDestinationIndex(dests []models.Destination) *destinationIndex {
	idx := &destinationIndex{
		byName: make(map[string]*models.Destination, len(dests)),
		byKey:  make(map[string]*models.Destination, len(dests)),
		byID:   make(map[int64]*models.Destination, len(dests)),
	}
	for i := range dests {
		d := &dests[i]
		if _, dup := idx.byName[d.Name]; !dup {
			idx.byName[d.Name] = d
		}
		idx.byKey[d.Key()] = d
		idx.byID[d.ID] = d
	}
	return idx
}

func (x *destinationIndex) lookup(value string) (*models.Destination, bool) {
	if d, ok := x.byName[value]; ok {
		return d, true
	}
	d, ok := x.byKey[value]
	return d, ok
}

// visited returns the IDs of destinations the user already holds a
// destination preference for.
func (x *destinationIndex) visited(prefs []models.UserPreference) map[int64]struct{} {
	out := make(map[int64]struct{})
	for i := range prefs {
		if prefs[i].Type != models.PreferenceDestination {
			continue
		}
		if d, ok := x.lookup(prefs[i].Value); ok {
			out[d.ID] = struct{}{}
		}
	}
	return out
}

// preferenceVector maps "type:value" to strength.
func preferenceVector(prefs []models.UserPreference) map[string]float64 {
	v := make(map[string]float64, len(prefs))
	for i := range prefs {
		v[prefs[i].Key()] = prefs[i].Strength
	}
	return v
}

// cosineSimilarity is the dot product over common keys divided by the
// product of the full vector magnitudes. No common keys gives 0.
func cosineSimilarity(a, b map[string]float64) float64 {
	var dot float64
	common := false
	for k, va := range a {
		if vb, ok := b[k]; ok {
			dot += va * vb
			common = true
		}
	}
	if !common {
		return 0
	}

	magA, magB := magnitude(a), magnitude(b)
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (magA * magB)
}

func magnitude(v map[string]float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// strengthsByType collects value -> strength for one preference type.
func strengthsByType(prefs []models.UserPreference, prefType string) map[string]float64 {
	out := make(map[string]float64)
	for i := range prefs {
		if prefs[i].Type == prefType {
			out[prefs[i].Value] = prefs[i].Strength
		}
	}
	return out
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Ensure all algorithms implement the interface.
var (
	_ recommend.Algorithm = (*Collaborative)(nil)
	_ recommend.Algorithm = (*ContentBased)(nil)
)
