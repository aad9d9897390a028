// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GradesService covers the read-only /grades endpoints.
type GradesService struct {
	session *Session
}

// List returns grades, optionally restricted to one semester.
func (g *GradesService) List(ctx context.Context, semester string) ([]Grade, error) {
	var query url.Values
	if semester != "" {
		query = url.Values{"semester": {semester}}
	}

	body, err := g.session.do(ctx, http.MethodGet, "/grades", nil, query)
	if err != nil {
		return nil, fmt.Errorf("portal: list grades failed: %w", err)
	}

	var grades []Grade
	if err := json.Unmarshal(body, &grades); err != nil {
		return nil, fmt.Errorf("portal: failed to parse grades response: %w", err)
	}
	return grades, nil
}

// Stats returns aggregate grade statistics.
func (g *GradesService) Stats(ctx context.Context) (*GradeStats, error) {
	body, err := g.session.do(ctx, http.MethodGet, "/grades/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("portal: grade stats failed: %w", err)
	}

	var stats GradeStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("portal: failed to parse stats response: %w", err)
	}
	return &stats, nil
}

// Transcript returns the full academic record.
func (g *GradesService) Transcript(ctx context.Context) (*Transcript, error) {
	body, err := g.session.do(ctx, http.MethodGet, "/grades/transcript", nil)
	if err != nil {
		return nil, fmt.Errorf("portal: transcript failed: %w", err)
	}

	var transcript Transcript
	if err := json.Unmarshal(body, &transcript); err != nil {
		return nil, fmt.Errorf("portal: failed to parse transcript response: %w", err)
	}
	return &transcript, nil
}

// UpcomingEvaluations returns evaluations not yet held.
func (g *GradesService) UpcomingEvaluations(ctx context.Context) ([]Evaluation, error) {
	body, err := g.session.do(ctx, http.MethodGet, "/grades/evaluations/upcoming", nil)
	if err != nil {
		return nil, fmt.Errorf("portal: upcoming evaluations failed: %w", err)
	}

	var evaluations []Evaluation
	if err := json.Unmarshal(body, &evaluations); err != nil {
		return nil, fmt.Errorf("portal: failed to parse evaluations response: %w", err)
	}
	return evaluations, nil
}
