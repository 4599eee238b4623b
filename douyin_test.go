package main

import (
	"strings"
	"testing"

	"github.com/ysmood/gson"
)

func TestDouyinTypeDict(t *testing.T) {
	for _, awemeType := range []int{2, 68, 150} {
		if got := douyinTypeDict[awemeType]; got != "image" {
			t.Fatalf("douyinTypeDict[%d] = %q, want %q", awemeType, got, "image")
		}
	}
	for _, awemeType := range []int{0, 4, 51, 55, 58, 61} {
		if got := douyinTypeDict[awemeType]; got != "video" {
			t.Fatalf("douyinTypeDict[%d] = %q, want %q", awemeType, got, "video")
		}
	}
	if got := douyinTypeDict[999]; got != "" {
		t.Fatalf("douyinTypeDict[999] = %q, want empty", got)
	}
}

func TestDouyinNoWatermarkUrl(t *testing.T) {
	got := douyinNoWatermarkUrl("v0200fg10000cmh8v7nog65ip2oi5n00")
	want := "https://aweme.snssdk.com/aweme/v1/play/?video_id=v0200fg10000cmh8v7nog65ip2oi5n00&ratio=1080p&line=0"
	if got != want {
		t.Fatalf("douyinNoWatermarkUrl = %q, want %q", got, want)
	}
}

func TestDouyinRouterDataRegexp(t *testing.T) {
	html := `<!DOCTYPE html><html><head><script>window._ROUTER_DATA = {"loaderData":{"video_7331234567891234567/page":{"videoInfoRes":{"item_list":[{"desc":"测试标题","aweme_type":0}]}}}}</script></head><body></body></html>`
	matches := douyinRouterDataRegexp.FindStringSubmatch(html)
	if len(matches) < 2 {
		t.Fatalf("router data not matched, matches: %v", matches)
	}
	routerJson := gson.NewFrom(strings.TrimSpace(matches[1]))
	itemJson := routerJson.Get("loaderData.video_7331234567891234567/page.videoInfoRes.item_list.0")
	if itemJson.Nil() {
		t.Fatal("item_list.0 should not be nil")
	}
	if got := itemJson.Get("desc").Str(); got != "测试标题" {
		t.Fatalf("desc = %q, want %q", got, "测试标题")
	}
}

func TestDouyinRouterDataRegexp_NoMatch(t *testing.T) {
	html := `<!DOCTYPE html><html><body><p>验证页面</p></body></html>`
	if matches := douyinRouterDataRegexp.FindStringSubmatch(html); len(matches) >= 2 {
		t.Fatalf("should not match, got: %v", matches)
	}
}

func TestDouyinDurationSeconds(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int
	}{
		{"videoDurationMs", `{"video":{"duration":723000}}`, 723},
		{"topLevelFallback", `{"duration":120000}`, 120},
		{"videoFieldWins", `{"video":{"duration":60000},"duration":999000}`, 60},
		{"missing", `{}`, 0},
	}
	for _, tt := range tests {
		if got := douyinDurationSeconds(gson.NewFrom(tt.json)); got != tt.want {
			t.Fatalf("%s: douyinDurationSeconds = %d, want %d", tt.name, got, tt.want)
		}
	}
}

// 毫秒时长换算后再过时长上限
func TestDouyinDurationGate(t *testing.T) {
	itemJson := gson.NewFrom(`{"video":{"duration":723000}}`)
	want := "⚠️ 当前视频时长 12 分钟，超过管理员设置的最长时间 8 分钟！"
	if got := overDurationNotice(douyinDurationSeconds(itemJson), 480); got != want {
		t.Fatalf("notice = %q, want %q", got, want)
	}
	shortJson := gson.NewFrom(`{"video":{"duration":30000}}`)
	if got := overDurationNotice(douyinDurationSeconds(shortJson), 480); got != "" {
		t.Fatalf("short video should pass, got notice %q", got)
	}
}

func TestFormatDouyin(t *testing.T) {
	itemJson := gson.NewFrom(`{"author":{"nickname":"测试作者"},"desc":"测试标题"}`)
	got := formatDouyin(itemJson)
	want := "识别：抖音\n作者：测试作者\n标题：测试标题"
	if got != want {
		t.Fatalf("formatDouyin = %q, want %q", got, want)
	}
}
