// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// TopicsService covers the /topics endpoints.
type TopicsService struct {
	session *Session
}

// List returns topics matching the filter.
func (t *TopicsService) List(ctx context.Context, filter TopicFilter) ([]Topic, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Supervisor != "" {
		query.Set("supervisor", filter.Supervisor)
	}
	if filter.Semester != "" {
		query.Set("semester", filter.Semester)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	body, err := t.session.do(ctx, http.MethodGet, "/topics", nil, query)
	if err != nil {
		return nil, fmt.Errorf("portal: list topics failed: %w", err)
	}

	var topics []Topic
	if err := json.Unmarshal(body, &topics); err != nil {
		return nil, fmt.Errorf("portal: failed to parse topics response: %w", err)
	}
	return topics, nil
}

// Available returns topics still open for applications.
func (t *TopicsService) Available(ctx context.Context) ([]Topic, error) {
	body, err := t.session.do(ctx, http.MethodGet, "/topics/available", nil)
	if err != nil {
		return nil, fmt.Errorf("portal: list available topics failed: %w", err)
	}

	var topics []Topic
	if err := json.Unmarshal(body, &topics); err != nil {
		return nil, fmt.Errorf("portal: failed to parse topics response: %w", err)
	}
	return topics, nil
}

// Get returns one topic by ID.
func (t *TopicsService) Get(ctx context.Context, id int64) (*Topic, error) {
	body, err := t.session.do(ctx, http.MethodGet, "/topics/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, fmt.Errorf("portal: get topic %d failed: %w", id, err)
	}

	var topic Topic
	if err := json.Unmarshal(body, &topic); err != nil {
		return nil, fmt.Errorf("portal: failed to parse topic response: %w", err)
	}
	return &topic, nil
}

// Create publishes a new topic (supervisor accounts).
func (t *TopicsService) Create(ctx context.Context, topic Topic) (*Topic, error) {
	body, err := t.session.do(ctx, http.MethodPost, "/topics", topic)
	if err != nil {
		return nil, fmt.Errorf("portal: create topic failed: %w", err)
	}

	var created Topic
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("portal: failed to parse topic response: %w", err)
	}
	return &created, nil
}

// Update replaces a topic's fields.
func (t *TopicsService) Update(ctx context.Context, id int64, topic Topic) (*Topic, error) {
	body, err := t.session.do(ctx, http.MethodPut, "/topics/"+strconv.FormatInt(id, 10), topic)
	if err != nil {
		return nil, fmt.Errorf("portal: update topic %d failed: %w", id, err)
	}

	var updated Topic
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("portal: failed to parse topic response: %w", err)
	}
	return &updated, nil
}

// Delete removes a topic.
func (t *TopicsService) Delete(ctx context.Context, id int64) error {
	if _, err := t.session.do(ctx, http.MethodDelete, "/topics/"+strconv.FormatInt(id, 10), nil); err != nil {
		return fmt.Errorf("portal: delete topic %d failed: %w", id, err)
	}
	return nil
}

// Apply submits an application with a motivation text.
func (t *TopicsService) Apply(ctx context.Context, id int64, motivation string) (*Application, error) {
	path := "/topics/" + strconv.FormatInt(id, 10) + "/apply"
	body, err := t.session.do(ctx, http.MethodPost, path, applyRequest{Motivation: motivation})
	if err != nil {
		return nil, fmt.Errorf("portal: apply to topic %d failed: %w", id, err)
	}

	var application Application
	if err := json.Unmarshal(body, &application); err != nil {
		return nil, fmt.Errorf("portal: failed to parse application response: %w", err)
	}
	return &application, nil
}

// MyApplications returns the caller's applications.
func (t *TopicsService) MyApplications(ctx context.Context) ([]Application, error) {
	body, err := t.session.do(ctx, http.MethodGet, "/topics/my-applications", nil)
	if err != nil {
		return nil, fmt.Errorf("portal: list applications failed: %w", err)
	}

	var applications []Application
	if err := json.Unmarshal(body, &applications); err != nil {
		return nil, fmt.Errorf("portal: failed to parse applications response: %w", err)
	}
	return applications, nil
}
