// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestProfileGet(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		assertBearer(t, request, "tok")
		if request.URL.Path != "/users/me" {
			t.Errorf("path = %q", request.URL.Path)
		}
		writeJSON(t, writer, User{ID: 7, Username: "amina", Role: "student"})
	})

	user, err := session.Profile.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if user.Username != "amina" {
		t.Errorf("user = %+v", user)
	}
}

func TestProfileGetRevokedToken(t *testing.T) {
	session := newTestSession(t, "revoked", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		writer.Write([]byte(`{"message":"Token expired"}`))
	})

	_, err := session.Profile.Get(context.Background())
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("IsStatus(err, 401) = false for %v", err)
	}
}

func TestProfileUpdate(t *testing.T) {
	session := newTestSession(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPut || request.URL.Path != "/users/me" {
			t.Errorf("request = %s %s", request.Method, request.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["email"] != "amina@new.example.edu" {
			t.Errorf("email = %q", body["email"])
		}
		if _, present := body["name"]; present {
			t.Error("empty name field was sent")
		}
		writeJSON(t, writer, User{ID: 7, Email: "amina@new.example.edu"})
	})

	user, err := session.Profile.Update(context.Background(), ProfileUpdate{Email: "amina@new.example.edu"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if user.Email != "amina@new.example.edu" {
		t.Errorf("user = %+v", user)
	}
}
