package main

import (
	"encoding/hex"
	"testing"
)

func TestNewLoginQRScan(t *testing.T) {
	data := map[string]any{
		"url":           "https://passport.biligame.com/crossDomain?DedeUserID=123",
		"refresh_token": "abcdef",
		"timestamp":     float64(1700000000000),
		"code":          float64(0),
		"message":       "",
	}
	scan, err := newLoginQRScan(data, "SESSDATA=xxx; bili_jct=yyy")
	if err != nil {
		t.Fatalf("newLoginQRScan() error: %v", err)
	}
	if scan.Code != 0 {
		t.Fatalf("Code = %d, want 0", scan.Code)
	}
	if scan.Timestamp != 1700000000000 {
		t.Fatalf("Timestamp = %d, want 1700000000000", scan.Timestamp)
	}
	if scan.RefreshToken != "abcdef" {
		t.Fatalf("RefreshToken = %q, want %q", scan.RefreshToken, "abcdef")
	}
	if scan.Cookie != "SESSDATA=xxx; bili_jct=yyy" {
		t.Fatalf("Cookie = %q", scan.Cookie)
	}
}

func TestNewLoginQRScan_MalformedData(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"codeIsString", map[string]any{"code": "86101"}},
		{"codeMissing", map[string]any{"url": "https://example.com"}},
		{"empty", map[string]any{}},
	}
	for _, tt := range tests {
		scan, err := newLoginQRScan(tt.data, "")
		if err == nil {
			t.Fatalf("%s: expected error, got %+v", tt.name, scan)
		}
	}
}

func TestNewLoginQRScan_TimestampMissing(t *testing.T) {
	scan, err := newLoginQRScan(map[string]any{"code": float64(86101)}, "")
	if err != nil {
		t.Fatalf("newLoginQRScan() error: %v", err)
	}
	if scan.Code != 86101 || scan.Timestamp != 0 {
		t.Fatalf("scan = %+v, want Code 86101, Timestamp 0", scan)
	}
}

func TestGetCorrespondPath(t *testing.T) {
	encrypted := getCorrespondPath()
	if encrypted == "" {
		t.Fatal("getCorrespondPath() should not be empty")
	}
	raw, err := hex.DecodeString(encrypted)
	if err != nil {
		t.Fatalf("not hex: %v", err)
	}
	if len(raw) != 128 { //1024位RSA密文
		t.Fatalf("ciphertext length = %d, want 128", len(raw))
	}
	if encrypted == getCorrespondPath() {
		t.Fatal("two encryptions should differ")
	}
}
