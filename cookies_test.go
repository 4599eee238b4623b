package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCookiesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cookies.yml")
	content := "bilibili: \"SESSDATA=abc123\"\ndouyin: \"ttwid=xyz\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	loadCookiesFile(path)
	defer func() {
		sidecarCookiesMutex.Lock()
		sidecarCookies = map[string]string{}
		sidecarCookiesMutex.Unlock()
	}()
	if got := sidecarCookie("bilibili"); got != "SESSDATA=abc123" {
		t.Fatalf("sidecarCookie(bilibili) = %q, want %q", got, "SESSDATA=abc123")
	}
	if got := sidecarCookie("xiaohongshu"); got != "" {
		t.Fatalf("sidecarCookie(xiaohongshu) = %q, want empty", got)
	}
	//访问器走边车值
	if got := biliCookie(); got != "SESSDATA=abc123" {
		t.Fatalf("biliCookie() = %q, want %q", got, "SESSDATA=abc123")
	}
	if got := douyinCookie(); got != "ttwid=xyz" {
		t.Fatalf("douyinCookie() = %q, want %q", got, "ttwid=xyz")
	}
}

func TestLoadCookiesFile_Missing(t *testing.T) {
	loadCookiesFile(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if got := sidecarCookie("bilibili"); got != "" {
		t.Fatalf("sidecarCookie(bilibili) = %q, want empty after failed load", got)
	}
}

func TestBiliLoginUID(t *testing.T) {
	old := biliIdentity
	biliIdentity = BiliIdentity{Cookie: "DedeUserID=59442895; SESSDATA=xxx; bili_jct=abcdef"}
	defer func() { biliIdentity = old }()
	if got := biliLoginUID(); got != 59442895 {
		t.Fatalf("biliLoginUID() = %d, want %d", got, 59442895)
	}
	if got := biliJct(); got != "abcdef" {
		t.Fatalf("biliJct() = %q, want %q", got, "abcdef")
	}
}
