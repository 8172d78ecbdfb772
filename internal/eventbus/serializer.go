// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package eventbus

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wanderfeed/internal/models"
)

// Marshal validates an interaction and encodes it as JSON.
func Marshal(interaction *models.Interaction) ([]byte, error) {
	if err := interaction.Validate(); err != nil {
		return nil, fmt.Errorf("validate interaction: %w", err)
	}
	data, err := json.Marshal(interaction)
	if err != nil {
		return nil, fmt.Errorf("marshal interaction: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates an interaction.
func Unmarshal(data []byte) (*models.Interaction, error) {
	var interaction models.Interaction
	if err := json.Unmarshal(data, &interaction); err != nil {
		return nil, fmt.Errorf("unmarshal interaction: %w", err)
	}
	if err := interaction.Validate(); err != nil {
		return nil, fmt.Errorf("validate interaction: %w", err)
	}
	return &interaction, nil
}
