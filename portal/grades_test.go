// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"net/http"
	"testing"
)

func TestGradesList(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		assertBearer(t, request, "tok")
		if request.URL.Path != "/grades" {
			t.Errorf("path = %q", request.URL.Path)
		}
		if got := request.URL.Query().Get("semester"); got != "S5" {
			t.Errorf("semester = %q", got)
		}
		writeJSON(t, writer, []Grade{{ID: 1, Course: "Databases", Value: 15.5}})
	})

	grades, err := session.Grades.List(context.Background(), "S5")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(grades) != 1 || grades[0].Course != "Databases" {
		t.Errorf("grades = %+v", grades)
	}
}

func TestGradesListNoSemester(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.RawQuery != "" {
			t.Errorf("query = %q, want empty", request.URL.RawQuery)
		}
		writeJSON(t, writer, []Grade{})
	})

	if _, err := session.Grades.List(context.Background(), ""); err != nil {
		t.Fatalf("List failed: %v", err)
	}
}

func TestGradesStats(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/grades/stats" {
			t.Errorf("path = %q", request.URL.Path)
		}
		writeJSON(t, writer, GradeStats{Average: 14.2, Best: 18, Worst: 9, Count: 12})
	})

	stats, err := session.Grades.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Count != 12 || stats.Average != 14.2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGradesTranscript(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/grades/transcript" {
			t.Errorf("path = %q", request.URL.Path)
		}
		writeJSON(t, writer, Transcript{
			Student: User{ID: 7, Username: "amina"},
			Grades:  []Grade{{ID: 1}},
			Average: 13.9,
		})
	})

	transcript, err := session.Grades.Transcript(context.Background())
	if err != nil {
		t.Fatalf("Transcript failed: %v", err)
	}
	if transcript.Student.Username != "amina" || len(transcript.Grades) != 1 {
		t.Errorf("transcript = %+v", transcript)
	}
}

func TestGradesUpcomingEvaluations(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/grades/evaluations/upcoming" {
			t.Errorf("path = %q", request.URL.Path)
		}
		writeJSON(t, writer, []Evaluation{{ID: 2, Course: "Networks", Kind: "defense"}})
	})

	evaluations, err := session.Grades.UpcomingEvaluations(context.Background())
	if err != nil {
		t.Fatalf("UpcomingEvaluations failed: %v", err)
	}
	if len(evaluations) != 1 || evaluations[0].Kind != "defense" {
		t.Errorf("evaluations = %+v", evaluations)
	}
}
