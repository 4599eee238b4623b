package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ysmood/gson"
)

func TestXhsXsecQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"tokenAndSource",
			"https://www.xiaohongshu.com/explore/66118a5c000000001c0078a3?xsec_token=ABCdef-_%3D&xsec_source=pc_share",
			"?xsec_token=ABCdef-_%3D&xsec_source=pc_share",
		},
		{
			"tokenOnly",
			"https://www.xiaohongshu.com/explore/66118a5c000000001c0078a3?xsec_token=XYZ123",
			"?xsec_token=XYZ123&xsec_source=pc_feed",
		},
		{
			"noToken",
			"https://www.xiaohongshu.com/explore/66118a5c000000001c0078a3",
			"",
		},
	}
	for _, tt := range tests {
		if got := xhsXsecQuery(tt.in); got != tt.want {
			t.Fatalf("%s: xhsXsecQuery(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestExtractInitialState(t *testing.T) {
	html := `<!DOCTYPE html><html><head><title>笔记</title></head><body>` +
		`<script>window.__INITIAL_STATE__={"note":{"noteDetailMap":{"66118a5c000000001c0078a3":{"note":{"title":"测试笔记","time":undefined}}}}}</script>` +
		`</body></html>`
	stateJson, ok := extractInitialState(html)
	if !ok {
		t.Fatal("initial state should be extracted")
	}
	noteJson := stateJson.Get("note.noteDetailMap.66118a5c000000001c0078a3.note")
	if noteJson.Nil() {
		t.Fatal("note should not be nil")
	}
	if got := noteJson.Get("title").Str(); got != "测试笔记" {
		t.Fatalf("title = %q, want %q", got, "测试笔记")
	}
	if !noteJson.Get("time").Nil() { //undefined被换成null
		t.Fatalf("time = %v, want nil", noteJson.Get("time"))
	}
}

func TestExtractInitialState_NoScript(t *testing.T) {
	if _, ok := extractInitialState(`<html><body><p>没有状态</p></body></html>`); ok {
		t.Fatal("should not extract state from page without script")
	}
}

func TestXhsCachePath(t *testing.T) {
	v.Set("parse.xiaohongshu.cacheDir", "/tmp/xhs-cache")
	got := xhsCachePath("66118a5c000000001c0078a3")
	want := filepath.Join("/tmp/xhs-cache", "66118a5c000000001c0078a3.json")
	if got != want {
		t.Fatalf("xhsCachePath = %q, want %q", got, want)
	}
}

func TestXhsCacheRoundTrip(t *testing.T) {
	v.Set("parse.xiaohongshu.cacheDir", t.TempDir())
	v.Set("parse.xiaohongshu.cacheMaxAge", 86400)
	noteID := "66118a5c000000001c0078a3"

	if cached := readXhsCache(noteID); !cached.Nil() {
		t.Fatal("cache should miss before write")
	}

	writeXhsCache(noteID, gson.NewFrom(`{"title":"缓存标题","type":"normal"}`))
	cached := readXhsCache(noteID)
	if cached.Nil() {
		t.Fatal("cache should hit after write")
	}
	if got := cached.Get("title").Str(); got != "缓存标题" {
		t.Fatalf("title = %q, want %q", got, "缓存标题")
	}
}

func TestXhsCacheExpiry(t *testing.T) {
	v.Set("parse.xiaohongshu.cacheDir", t.TempDir())
	v.Set("parse.xiaohongshu.cacheMaxAge", 86400)
	noteID := "66118a5c000000001c0078a3"

	stale := fmt.Sprintf(`{"cachedAt":%d,"note":{"title":"旧标题"}}`, time.Now().Unix()-86401)
	if err := os.WriteFile(xhsCachePath(noteID), []byte(stale), 0o644); err != nil {
		t.Fatal(err)
	}
	if cached := readXhsCache(noteID); !cached.Nil() {
		t.Fatal("expired cache should miss")
	}
}

func TestFormatXhsNote(t *testing.T) {
	v.Set("parse.settings.descTruncationLength", 80)
	noteJson := gson.NewFrom(`{
		"title": "测试笔记",
		"desc": "这是一段简介",
		"ipLocation": "上海",
		"time": 1700000000000,
		"user": {"nickname": "测试作者"},
		"interactInfo": {
			"liked": false, "likedCount": "1234",
			"commentCount": "56",
			"collected": true, "collectedCount": "789"
		}
	}`)
	got := formatXhsNote(noteJson)
	want := "小红书解析 | 测试笔记\n" +
		"简介：这是一段简介\n" +
		"作者：测试作者\n" +
		"位置：上海\n" +
		"❤️ 1234 | 💬 56 | 🌟 789\n" +
		"发布时间: " + time.Unix(1700000000, 0).Format("2006-01-02 15:04:05")
	if got != want {
		t.Fatalf("formatXhsNote = %q, want %q", got, want)
	}
}
