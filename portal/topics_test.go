// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestTopicsList(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		assertBearer(t, request, "tok")
		if request.URL.Path != "/topics" {
			t.Errorf("path = %q", request.URL.Path)
		}
		query := request.URL.Query()
		if query.Get("status") != "open" || query.Get("search") != "distributed" {
			t.Errorf("query = %v", query)
		}
		if query.Has("supervisor") {
			t.Error("empty filter field sent as query parameter")
		}
		writeJSON(t, writer, []Topic{{ID: 1, Title: "Distributed tracing"}})
	})

	topics, err := session.Topics.List(context.Background(), TopicFilter{
		Status: "open",
		Search: "distributed",
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(topics) != 1 || topics[0].Title != "Distributed tracing" {
		t.Errorf("topics = %+v", topics)
	}
}

func TestTopicsGet(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		assertBearer(t, request, "tok")
		if request.URL.Path != "/topics/42" {
			t.Errorf("path = %q, want /topics/42", request.URL.Path)
		}
		writeJSON(t, writer, Topic{ID: 42, Title: "Query planner"})
	})

	topic, err := session.Topics.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if topic.ID != 42 {
		t.Errorf("topic = %+v", topic)
	}
}

func TestTopicsApply(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		assertBearer(t, request, "tok")
		if request.URL.Path != "/topics/42/apply" {
			t.Errorf("path = %q", request.URL.Path)
		}
		if request.Method != http.MethodPost {
			t.Errorf("method = %q", request.Method)
		}
		var body map[string]string
		if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["motivation"] != "I built one of these last summer." {
			t.Errorf("motivation = %q", body["motivation"])
		}
		writer.WriteHeader(http.StatusCreated)
		writeJSON(t, writer, Application{ID: 9, TopicID: 42, Status: "pending"})
	})

	application, err := session.Topics.Apply(context.Background(), 42, "I built one of these last summer.")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if application.Status != "pending" {
		t.Errorf("application = %+v", application)
	}
}

func TestTopicsDelete(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodDelete || request.URL.Path != "/topics/7" {
			t.Errorf("request = %s %s", request.Method, request.URL.Path)
		}
		writer.WriteHeader(http.StatusNoContent)
	})

	if err := session.Topics.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestTopicsErrorNormalization(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusForbidden)
		writer.Write([]byte(`{"message":"Only supervisors can create topics"}`))
	})

	_, err := session.Topics.Create(context.Background(), Topic{Title: "x"})
	if !IsStatus(err, http.StatusForbidden) {
		t.Fatalf("IsStatus(err, 403) = false for %v", err)
	}
}
