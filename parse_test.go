package main

import (
	"regexp"
	"testing"

	"ResolveBot/EasyBot"
)

func TestExtractor_RecognizesBilibiliLinks(t *testing.T) {
	tests := []struct {
		name string
		str  string
		id   string
		kind string
	}{
		{"bvid", "https://www.bilibili.com/video/BV1xx411c7mD", "BV1xx411c7mD", "ARCHIVEb"},
		{"avid", "https://www.bilibili.com/video/av170001", "170001", "ARCHIVEa"},
		{"dynamic", "https://t.bilibili.com/831716478188453905", "831716478188453905", "DYNAMIC"},
		{"opus", "https://www.bilibili.com/opus/831716478188453905", "831716478188453905", "DYNAMIC"},
		{"article", "https://www.bilibili.com/read/cv12345678", "12345678", "ARTICLE"},
		{"articleMobile", "https://www.bilibili.com/read/mobile/12345678", "12345678", "ARTICLE"},
		{"space", "https://space.bilibili.com/59442895", "59442895", "SPACE"},
		{"favlist", "https://space.bilibili.com/3546377/favlist?fid=861322977", "861322977", "FAVLIST"},
		{"favlistMedialist", "https://www.bilibili.com/medialist/detail/ml861322977", "861322977", "FAVLIST"},
		{"favlistEscaped", `{"jumpUrl":"https:\/\/www.bilibili.com\/list\/ml861322977"}`, "861322977", "FAVLIST"},
		{"live", "https://live.bilibili.com/21452505", "21452505", "LIVE"},
		{"escapedInCard", `{"jumpUrl":"https:\/\/www.bilibili.com\/video\/BV1xx411c7mD"}`, "BV1xx411c7mD", "ARCHIVEb"},
		{"plainText", "随便聊聊天", "随便聊聊天", ""},
	}
	for _, tt := range tests {
		id, kind := extractor(tt.str)
		if id != tt.id || kind != tt.kind {
			t.Fatalf("%s: extractor(%q) = (%q, %q), want (%q, %q)",
				tt.name, tt.str, id, kind, tt.id, tt.kind)
		}
	}
}

func TestDouyinExtractor(t *testing.T) {
	tests := []struct {
		name string
		str  string
		id   string
		kind string
	}{
		{"video", "https://www.douyin.com/video/7331234567891234567", "7331234567891234567", "VIDEO"},
		{"note", "https://www.douyin.com/note/7331234567891234567", "7331234567891234567", "NOTE"},
		{"shareSlides", "https://www.iesdouyin.com/share/slides/7331234567891234567", "7331234567891234567", "SLIDES"},
		{"escapedInCard", `{"url":"https:\/\/www.douyin.com\/video\/7331234567891234567"}`, "7331234567891234567", "VIDEO"},
		{"modal", "https://www.douyin.com/discover?modal_id=7331234567891234567", "7331234567891234567", "MODAL"},
		{"plainText", "没有链接的消息", "没有链接的消息", ""},
	}
	for _, tt := range tests {
		id, kind := douyinExtractor(tt.str)
		if id != tt.id || kind != tt.kind {
			t.Fatalf("%s: douyinExtractor(%q) = (%q, %q), want (%q, %q)",
				tt.name, tt.str, id, kind, tt.id, tt.kind)
		}
	}
}

func TestXhsExtractor(t *testing.T) {
	tests := []struct {
		name string
		str  string
		id   string
		kind string
	}{
		{"item", "https://www.xiaohongshu.com/discovery/item/66118a5c000000001c0078a3", "66118a5c000000001c0078a3", "NOTE"},
		{"explore", "https://www.xiaohongshu.com/explore/66118a5c000000001c0078a3?xsec_token=AB", "66118a5c000000001c0078a3", "NOTE"},
		{"escapedInCard", `{"url":"https:\/\/www.xiaohongshu.com\/explore\/66118a5c000000001c0078a3"}`, "66118a5c000000001c0078a3", "NOTE"},
		{"noteIdDeepLink", "xhsdiscover://item?source=note&noteId=66118a5c000000001c0078a3", "66118a5c000000001c0078a3", "NOTE"},
		{"plainText", "没有链接的消息", "没有链接的消息", ""},
	}
	for _, tt := range tests {
		id, kind := xhsExtractor(tt.str)
		if id != tt.id || kind != tt.kind {
			t.Fatalf("%s: xhsExtractor(%q) = (%q, %q), want (%q, %q)",
				tt.name, tt.str, id, kind, tt.id, tt.kind)
		}
	}
}

func TestShortLinkRegexps(t *testing.T) {
	if m := regexp.MustCompile(biliLinkRegexp.SHORT).FindAllStringSubmatch("https://b23.tv/abcDEF1", -1); len(m) == 0 || m[0][2] != "abcDEF1" {
		t.Fatalf("b23 slug match = %v, want abcDEF1", m)
	}
	if m := regexp.MustCompile(biliLinkRegexp.SHORT).FindAllStringSubmatch(`https:\/\/b23.tv\/abcDEF1`, -1); len(m) == 0 || m[0][2] != "abcDEF1" {
		t.Fatalf("escaped b23 slug match = %v, want abcDEF1", m)
	}
	if m := regexp.MustCompile(biliLinkRegexp.SHORT).FindAllStringSubmatch("https://b23.tv/BV1xx411c7mD", -1); len(m) == 0 || m[0][2] != "BV1xx411c7mD" {
		t.Fatalf("b23 bvid match = %v, want BV1xx411c7mD", m)
	}
	if m := regexp.MustCompile(douyinLinkRegexp.SHORT).FindAllStringSubmatch("7.99 abc:/ https://v.douyin.com/iRNBho6u/ 复制此链接", -1); len(m) == 0 || m[0][1] != "iRNBho6u" {
		t.Fatalf("douyin slug match = %v, want iRNBho6u", m)
	}
	if m := regexp.MustCompile(xhsLinkRegexp.SHORT).FindAllStringSubmatch("😆看这个 http://xhslink.com/NbJd0H", -1); len(m) == 0 || m[0][1] != "NbJd0H" {
		t.Fatalf("xhslink slug match = %v, want NbJd0H", m)
	}
}

func TestArchivePage(t *testing.T) {
	tests := []struct {
		str  string
		want int
	}{
		{"https://www.bilibili.com/video/BV1xx411c7mD", 0},
		{"https://www.bilibili.com/video/BV1xx411c7mD?p=3", 3},
		{"https://www.bilibili.com/video/BV1xx411c7mD/?spm_id_from=333.999.0.0&p=12", 12},
		{"看第2P https://www.bilibili.com/video/av170001?p=2&t=30", 2},
	}
	for _, tt := range tests {
		if got := archivePage(tt.str); got != tt.want {
			t.Errorf("archivePage(%q) = %d, want %d", tt.str, got, tt.want)
		}
	}
}

func TestOverDurationNotice(t *testing.T) {
	tests := []struct {
		name            string
		duration        int
		durationMaximum int
		want            string
	}{
		{"under", 300, 480, ""},
		{"equal", 480, 480, ""},
		{"over", 723, 480, "⚠️ 当前视频时长 12 分钟，超过管理员设置的最长时间 8 分钟！"},
		{"farOver", 3600, 480, "⚠️ 当前视频时长 60 分钟，超过管理员设置的最长时间 8 分钟！"},
		{"zeroDisables", 99999, 0, ""},
		{"negativeDisables", 99999, -1, ""},
	}
	for _, tt := range tests {
		if got := overDurationNotice(tt.duration, tt.durationMaximum); got != tt.want {
			t.Fatalf("%s: overDurationNotice(%d, %d) = %q, want %q",
				tt.name, tt.duration, tt.durationMaximum, got, tt.want)
		}
	}
}

func TestShouldParse_BlocksRepeatWithinInterval(t *testing.T) {
	v.Set("parse.settings.sameParseInterval", 90)
	groupA := &EasyBot.CQMessage{MessageType: "group", GroupID: 10001}
	groupB := &EasyBot.CQMessage{MessageType: "group", GroupID: 10002}
	if !shouldParse("BV1testrepeat1", groupA) {
		t.Fatal("first parse should pass")
	}
	if shouldParse("BV1testrepeat1", groupA) {
		t.Fatal("repeat in same group within interval should be blocked")
	}
	if !shouldParse("BV1testrepeat1", groupB) {
		t.Fatal("same id in another group should pass")
	}
	if !shouldParse("BV1testrepeat2", groupA) {
		t.Fatal("different id in same group should pass")
	}
}

func TestShouldParse_PrivateChatUsesUserID(t *testing.T) {
	v.Set("parse.settings.sameParseInterval", 90)
	userA := &EasyBot.CQMessage{MessageType: "private", UserID: 20001}
	userB := &EasyBot.CQMessage{MessageType: "private", UserID: 20002}
	if !shouldParse("BV1testprivate", userA) {
		t.Fatal("first parse should pass")
	}
	if shouldParse("BV1testprivate", userA) {
		t.Fatal("repeat from same user within interval should be blocked")
	}
	if !shouldParse("BV1testprivate", userB) {
		t.Fatal("same id from another user should pass")
	}
}
