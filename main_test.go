package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFormatTimeSimple(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{75, "01:15"},
		{3661, "01:01:01"},
		{86399, "23:59:59"},
	}
	for _, tt := range tests {
		if got := formatTimeSimple(tt.in); got != tt.want {
			t.Fatalf("formatTimeSimple(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0秒"},
		{30, "30秒"},
		{61, "1分钟1秒"},
		{90061, "1天1小时1分钟1秒"},
	}
	for _, tt := range tests {
		if got := formatTime(tt.in); got != tt.want {
			t.Fatalf("formatTime(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimeMs(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0毫秒"},
		{500, "500毫秒"},
		{1500, "1秒500毫秒"},
		{61000, "1分钟1秒"},
	}
	for _, tt := range tests {
		if got := formatTimeMs(tt.in); got != tt.want {
			t.Fatalf("formatTimeMs(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		number        float64
		decimalSave   int
		trimTailZeros bool
		want          string
	}{
		{12.3456, 1, true, "12.3"},
		{2.0, 1, true, "2"},
		{2.0, 1, false, "2.0"},
		{10.04, 1, true, "10"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.number, tt.decimalSave, tt.trimTailZeros); got != tt.want {
			t.Fatalf("formatNumber(%v, %d, %v) = %q, want %q",
				tt.number, tt.decimalSave, tt.trimTailZeros, got, tt.want)
		}
	}
}

func TestBytesStringConversion(t *testing.T) {
	if got := BytesToString([]byte("解析")); got != "解析" {
		t.Fatalf("BytesToString = %q, want %q", got, "解析")
	}
	if got := StringToBytes("解析"); !bytes.Equal(got, []byte("解析")) {
		t.Fatalf("StringToBytes = %v, want %v", got, []byte("解析"))
	}
}

func TestCheckDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub", "dir")
	if err := checkDir(dir); err != nil {
		t.Fatalf("checkDir() err: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("dir not created: %v", err)
	}
	if err := checkDir(dir); err != nil { //已存在时不报错
		t.Fatalf("checkDir() on existing dir err: %v", err)
	}
}
