// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	// Test that GetValidator returns the same instance
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// recommendRequest mirrors the API's recommendation request shape.
type recommendRequest struct {
	UserID int `validate:"required,gt=0"`
	K      int `validate:"omitempty,min=1,max=50"`
}

// upsertItemRequest mirrors the API's item upsert shape.
type upsertItemRequest struct {
	ID     int       `validate:"required,gt=0"`
	Title  string    `validate:"required,min=1,max=256"`
	Vector []float64 `validate:"required,min=1,max=4096"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{
			name:  "recommend request with k",
			input: &recommendRequest{UserID: 1, K: 10},
		},
		{
			name:  "recommend request without k",
			input: &recommendRequest{UserID: 42},
		},
		{
			name:  "recommend request at k bounds",
			input: &recommendRequest{UserID: 1, K: 50},
		},
		{
			name:  "item upsert",
			input: &upsertItemRequest{ID: 7, Title: "Solaris", Vector: []float64{0.1, 0.9}},
		},
		{
			name:  "item upsert single component",
			input: &upsertItemRequest{ID: 7, Title: "S", Vector: []float64{1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{
			name:      "missing user id",
			input:     &recommendRequest{K: 5},
			wantField: "UserID",
			wantTag:   "required",
		},
		{
			name:      "negative user id",
			input:     &recommendRequest{UserID: -3},
			wantField: "UserID",
			wantTag:   "gt",
		},
		{
			name:      "k above maximum",
			input:     &recommendRequest{UserID: 1, K: 51},
			wantField: "K",
			wantTag:   "max",
		},
		{
			name:      "missing title",
			input:     &upsertItemRequest{ID: 1, Vector: []float64{1}},
			wantField: "Title",
			wantTag:   "required",
		},
		{
			name:      "empty vector",
			input:     &upsertItemRequest{ID: 1, Title: "x", Vector: []float64{}},
			wantField: "Vector",
			wantTag:   "required",
		},
		{
			name:      "title too long",
			input:     &upsertItemRequest{ID: 1, Title: strings.Repeat("x", 300), Vector: []float64{1}},
			wantField: "Title",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			errs := err.Errors()
			if len(errs) == 0 {
				t.Fatal("ValidationErrors should contain at least one error")
			}

			found := false
			for _, e := range errs {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					break
				}
			}

			if !found {
				t.Errorf("Expected error on field %s with tag %s, got: %v", tt.wantField, tt.wantTag, errs)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&recommendRequest{K: 5})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	if apiErr.Message != "UserID is required" {
		t.Errorf("Expected 'UserID is required', got %q", apiErr.Message)
	}

	if apiErr.Details == nil {
		t.Fatal("Expected details to be set")
	}
	if apiErr.Details["field"] != "UserID" {
		t.Errorf("Expected field detail UserID, got %v", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&upsertItemRequest{})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	if apiErr.Details == nil {
		t.Fatal("Expected details to contain field information")
	}

	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected details to contain 'fields' key")
	}

	// All three required fields reported in one pass
	if !strings.Contains(apiErr.Message, "ID") ||
		!strings.Contains(apiErr.Message, "Title") ||
		!strings.Contains(apiErr.Message, "Vector") {
		t.Errorf("Expected all failing fields in message, got %q", apiErr.Message)
	}
}

func TestRequestValidationError_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		ve := &RequestValidationError{}
		if ve.Error() != "validation failed" {
			t.Errorf("Expected generic message, got %q", ve.Error())
		}
	})

	t.Run("joins messages", func(t *testing.T) {
		err := ValidateStruct(&upsertItemRequest{Title: "x"})
		if err == nil {
			t.Fatal("Expected validation error")
		}
		if !strings.Contains(err.Error(), ";") {
			t.Errorf("Expected joined messages, got %q", err.Error())
		}
	})
}

func TestTranslatedMessages(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		wantMsg string
	}{
		{
			name:    "required",
			input:   &recommendRequest{},
			wantMsg: "UserID is required",
		},
		{
			name:    "gt with param",
			input:   &recommendRequest{UserID: -1},
			wantMsg: "UserID must be greater than 0",
		},
		{
			name:    "max on int",
			input:   &recommendRequest{UserID: 1, K: 99},
			wantMsg: "K must be at most 50",
		},
		{
			name:    "max on string",
			input:   &upsertItemRequest{ID: 1, Title: strings.Repeat("a", 257), Vector: []float64{1}},
			wantMsg: "Title must be at most 256 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("Expected validation error")
			}

			found := false
			for _, e := range err.Errors() {
				if e.Error() == tt.wantMsg {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Expected message %q, got %v", tt.wantMsg, err.Errors())
			}
		})
	}
}

func TestValidationError_Accessors(t *testing.T) {
	err := ValidateStruct(&recommendRequest{UserID: 1, K: 99})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	errs := err.Errors()
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}

	e := errs[0]
	if e.Field() != "K" {
		t.Errorf("Field() = %s, want K", e.Field())
	}
	if e.Tag() != "max" {
		t.Errorf("Tag() = %s, want max", e.Tag())
	}
	if e.Param() != "50" {
		t.Errorf("Param() = %s, want 50", e.Param())
	}
	if e.Value() != 99 {
		t.Errorf("Value() = %v, want 99", e.Value())
	}
}
