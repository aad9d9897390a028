// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// ReportsService covers the /reports endpoints, including file upload
// and download.
type ReportsService struct {
	session *Session
}

func reportQuery(filter ReportFilter) url.Values {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}
	if filter.Semester != "" {
		query.Set("semester", filter.Semester)
	}
	return query
}

// Mine returns the caller's reports matching the filter.
func (r *ReportsService) Mine(ctx context.Context, filter ReportFilter) ([]Report, error) {
	body, err := r.session.do(ctx, http.MethodGet, "/reports", nil, reportQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("portal: list reports failed: %w", err)
	}

	var reports []Report
	if err := json.Unmarshal(body, &reports); err != nil {
		return nil, fmt.Errorf("portal: failed to parse reports response: %w", err)
	}
	return reports, nil
}

// All returns every report visible to the caller (supervisor and
// admin accounts).
func (r *ReportsService) All(ctx context.Context, filter ReportFilter) ([]Report, error) {
	body, err := r.session.do(ctx, http.MethodGet, "/reports/all", nil, reportQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("portal: list all reports failed: %w", err)
	}

	var reports []Report
	if err := json.Unmarshal(body, &reports); err != nil {
		return nil, fmt.Errorf("portal: failed to parse reports response: %w", err)
	}
	return reports, nil
}

// Get returns one report by ID.
func (r *ReportsService) Get(ctx context.Context, id int64) (*Report, error) {
	body, err := r.session.do(ctx, http.MethodGet, "/reports/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, fmt.Errorf("portal: get report %d failed: %w", id, err)
	}

	var report Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("portal: failed to parse report response: %w", err)
	}
	return &report, nil
}

// Create creates a report without an attached file.
func (r *ReportsService) Create(ctx context.Context, report Report) (*Report, error) {
	body, err := r.session.do(ctx, http.MethodPost, "/reports", report)
	if err != nil {
		return nil, fmt.Errorf("portal: create report failed: %w", err)
	}

	var created Report
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("portal: failed to parse report response: %w", err)
	}
	return &created, nil
}

// Update replaces a report's fields.
func (r *ReportsService) Update(ctx context.Context, id int64, report Report) (*Report, error) {
	body, err := r.session.do(ctx, http.MethodPut, "/reports/"+strconv.FormatInt(id, 10), report)
	if err != nil {
		return nil, fmt.Errorf("portal: update report %d failed: %w", id, err)
	}

	var updated Report
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("portal: failed to parse report response: %w", err)
	}
	return &updated, nil
}

// Delete removes a report.
func (r *ReportsService) Delete(ctx context.Context, id int64) error {
	if _, err := r.session.do(ctx, http.MethodDelete, "/reports/"+strconv.FormatInt(id, 10), nil); err != nil {
		return fmt.Errorf("portal: delete report %d failed: %w", id, err)
	}
	return nil
}

// Submit marks a report as submitted for evaluation.
func (r *ReportsService) Submit(ctx context.Context, id int64) (*Report, error) {
	path := "/reports/" + strconv.FormatInt(id, 10) + "/submit"
	body, err := r.session.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: submit report %d failed: %w", id, err)
	}

	var submitted Report
	if err := json.Unmarshal(body, &submitted); err != nil {
		return nil, fmt.Errorf("portal: failed to parse report response: %w", err)
	}
	return &submitted, nil
}

// Upload creates a report and its file in one multipart request.
func (r *ReportsService) Upload(ctx context.Context, upload ReportUpload) (*Report, error) {
	contentType, body, err := encodeUpload(upload)
	if err != nil {
		return nil, fmt.Errorf("portal: encoding report upload: %w", err)
	}

	responseBody, err := r.session.doRaw(ctx, http.MethodPost, "/reports/upload", contentType, body)
	if err != nil {
		return nil, fmt.Errorf("portal: upload report failed: %w", err)
	}

	var created Report
	if err := json.Unmarshal(responseBody, &created); err != nil {
		return nil, fmt.Errorf("portal: failed to parse report response: %w", err)
	}
	return &created, nil
}

// UploadFile attaches (or replaces) the file of an existing report.
func (r *ReportsService) UploadFile(ctx context.Context, id int64, fileName string, content io.Reader) (*Report, error) {
	contentType, body, err := encodeFilePart(fileName, content, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: encoding file upload: %w", err)
	}

	path := "/reports/" + strconv.FormatInt(id, 10) + "/upload"
	responseBody, err := r.session.doRaw(ctx, http.MethodPost, path, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("portal: upload file for report %d failed: %w", id, err)
	}

	var updated Report
	if err := json.Unmarshal(responseBody, &updated); err != nil {
		return nil, fmt.Errorf("portal: failed to parse report response: %w", err)
	}
	return &updated, nil
}

// Download streams the report's file into w and returns the number of
// bytes written.
func (r *ReportsService) Download(ctx context.Context, id int64, w io.Writer) (int64, error) {
	path := "/reports/" + strconv.FormatInt(id, 10) + "/download"
	written, err := r.session.doDownload(ctx, path, w)
	if err != nil {
		return written, fmt.Errorf("portal: download report %d failed: %w", id, err)
	}
	return written, nil
}

// encodeUpload builds the multipart body for Upload: the report
// metadata as form fields plus the file part.
func encodeUpload(upload ReportUpload) (string, io.Reader, error) {
	fields := map[string]string{
		"title":    upload.Title,
		"type":     upload.Type,
		"semester": upload.Semester,
	}
	return encodeFilePart(upload.FileName, upload.Content, fields)
}

// encodeFilePart builds a multipart body with a "file" part and
// optional plain form fields. The body is buffered in memory; report
// files are bounded by the portal's own upload limit, which is far
// below anything that would matter here.
func encodeFilePart(fileName string, content io.Reader, fields map[string]string) (string, io.Reader, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return "", nil, fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", nil, fmt.Errorf("copying file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	return writer.FormDataContentType(), &buffer, nil
}
