// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"io"
	"time"
)

// User is the authenticated user's profile as returned by the server.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	// Role is "student", "teacher", or "admin".
	Role string `json:"role"`
	// StudentNumber is set for student accounts only.
	StudentNumber string `json:"studentNumber,omitempty"`
	// Department is set for teacher accounts only.
	Department string `json:"department,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the successful login payload.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	StudentNumber string `json:"studentNumber,omitempty"`
	Department    string `json:"department,omitempty"`
}

// Topic is a project topic offered by a supervisor.
type Topic struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Supervisor  string `json:"supervisor"`
	// Status is "open", "assigned", or "closed".
	Status    string    `json:"status"`
	Semester  string    `json:"semester,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TopicFilter selects topics in List. Zero-valued fields are omitted
// from the query string.
type TopicFilter struct {
	Status     string
	Supervisor string
	Semester   string
	// Search matches against title and description.
	Search string
}

// Application is a student's application to a topic.
type Application struct {
	ID         int64  `json:"id"`
	TopicID    int64  `json:"topicId"`
	TopicTitle string `json:"topicTitle"`
	Motivation string `json:"motivation"`
	// Status is "pending", "accepted", or "rejected".
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// applyRequest is the body of POST /topics/{id}/apply.
type applyRequest struct {
	Motivation string `json:"motivation"`
}

// Report is a progress or final report.
type Report struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	// Type is "progress" or "final".
	Type     string `json:"type"`
	Semester string `json:"semester,omitempty"`
	// Status is "draft", "submitted", or "evaluated".
	Status   string `json:"status"`
	FileName string `json:"fileName,omitempty"`
	// Checksum is the hex BLAKE3 digest of the attached file, echoed
	// by the server when a file is present.
	Checksum    string     `json:"checksum,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// ReportFilter selects reports in Mine and All. Zero-valued fields
// are omitted from the query string.
type ReportFilter struct {
	Status   string
	Type     string
	Semester string
}

// ReportUpload describes a report created together with its file via
// multipart POST /reports/upload.
type ReportUpload struct {
	Title    string
	Type     string
	Semester string
	// FileName is the name presented to the server for the uploaded
	// part; Content provides the bytes.
	FileName string
	Content  io.Reader
}

// Grade is a single course grade.
type Grade struct {
	ID          int64     `json:"id"`
	Course      string    `json:"course"`
	Semester    string    `json:"semester"`
	Value       float64   `json:"value"`
	Coefficient float64   `json:"coefficient"`
	GradedAt    time.Time `json:"gradedAt"`
}

// GradeStats summarizes a student's grades.
type GradeStats struct {
	Average float64 `json:"average"`
	Best    float64 `json:"best"`
	Worst   float64 `json:"worst"`
	Count   int     `json:"count"`
}

// Transcript is the full academic record.
type Transcript struct {
	Student User    `json:"student"`
	Grades  []Grade `json:"grades"`
	Average float64 `json:"average"`
}

// Evaluation is an upcoming graded event.
type Evaluation struct {
	ID     int64  `json:"id"`
	Course string `json:"course"`
	// Kind is "exam", "defense", or "review".
	Kind        string    `json:"kind"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// ProfileUpdate is the body of PUT /users/me. Only non-empty fields
// are sent.
type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}
