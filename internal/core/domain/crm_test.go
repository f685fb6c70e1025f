package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestAccountInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   AccountInput
		wantErr bool
	}{
		{"valid minimal", AccountInput{Name: "Acme"}, false},
		{"valid full", AccountInput{Name: "Acme", Website: "https://acme.test", Phone: "+4912345"}, false},
		{"missing name", AccountInput{Website: "https://acme.test"}, true},
		{"name too long", AccountInput{Name: strings.Repeat("a", 256)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestDealInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   DealInput
		wantErr bool
	}{
		{"valid", DealInput{Name: "Big Deal", Stage: "Qualification"}, false},
		{"missing name", DealInput{Stage: "Qualification"}, true},
		{"missing stage", DealInput{Name: "Big Deal"}, true},
		{"stage too long", DealInput{Name: "Big Deal", Stage: strings.Repeat("s", 101)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
