package main

import (
	"reflect"
	"testing"
)

func TestParseValueFlags(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", raw: nil, want: nil},
		{name: "single", raw: []string{"Color=Red"}, want: map[string]string{"Color": "Red"}},
		{name: "value keeps equals", raw: []string{"Formula=a=b"}, want: map[string]string{"Formula": "a=b"}},
		{name: "two categories", raw: []string{"Color=Red", "Year=2024"}, want: map[string]string{"Color": "Red", "Year": "2024"}},
		{name: "missing separator", raw: []string{"Color"}, wantErr: true},
		{name: "missing category", raw: []string{"=Red"}, wantErr: true},
		{name: "missing value", raw: []string{"Color="}, wantErr: true},
		{name: "repeated category", raw: []string{"Color=Red", "Color=Blue"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValueFlags(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse values: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSplitTagFlags(t *testing.T) {
	got := splitTagFlags([]string{"work", " ", " urgent "})
	want := []string{"work", "urgent"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseDocumentFormat(t *testing.T) {
	for _, raw := range []string{"json", "TOML", "yaml", "yml"} {
		if _, err := parseDocumentFormat(raw); err != nil {
			t.Fatalf("format %q: %v", raw, err)
		}
	}
	if _, err := parseDocumentFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}
