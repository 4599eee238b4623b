package main

import (
	"testing"

	"github.com/ysmood/gson"
)

func TestStatString(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{9999, "9999"},
		{10000, "1万"},
		{25000, "2.5万"},
		{123456, "12.3万"},
	}
	for _, tt := range tests {
		if got := statString(tt.in); got != tt.want {
			t.Fatalf("statString(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateDesc(t *testing.T) {
	v.Set("parse.settings.descTruncationLength", 10)
	if got := truncateDesc(""); got != "" {
		t.Fatalf("empty desc = %q, want empty", got)
	}
	if got := truncateDesc("-"); got != "" {
		t.Fatalf("placeholder desc = %q, want empty", got)
	}
	if got := truncateDesc("<nil>"); got != "" {
		t.Fatalf("nil desc = %q, want empty", got)
	}
	if got := truncateDesc("短简介"); got != "简介：短简介\n" {
		t.Fatalf("short desc = %q, want %q", got, "简介：短简介\n")
	}
	long := "零一二三四五六七八九十一十二"
	want := "简介：零一二三四五六七八九......\n"
	if got := truncateDesc(long); got != want {
		t.Fatalf("long desc = %q, want %q", got, want)
	}
}

func TestTruncateDesc_DisabledByZeroLength(t *testing.T) {
	v.Set("parse.settings.descTruncationLength", 0)
	defer v.Set("parse.settings.descTruncationLength", 80)
	if got := truncateDesc("任意内容"); got != "" {
		t.Fatalf("desc with zero length config = %q, want empty", got)
	}
}

func TestRequestFailedJson(t *testing.T) {
	g := requestFailedJson()
	if g.Get("code").Int() != -1 {
		t.Fatalf("code = %d, want -1", g.Get("code").Int())
	}
	if g.Get("message").Str() == "" {
		t.Fatal("message should not be empty")
	}
}

func TestFormatSpace(t *testing.T) {
	spaceJson := gson.NewFrom(`{
		"mid": 59442895,
		"name": "测试用户",
		"face": "https://i0.hdslb.com/face.jpg",
		"sign": "个性签名",
		"attention": 321,
		"fans": 123456,
		"level_info": {"current_level": 6},
		"pendant": {"pid": 0, "name": ""}
	}`)
	got := formatSpace(spaceJson)
	want := "[CQ:image,file=https://i0.hdslb.com/face.jpg]\n" +
		"测试用户（LV6）\n" +
		"签名：个性签名\n" +
		"321关注  12.3万粉丝\n" +
		"space.bilibili.com/59442895"
	if got != want {
		t.Fatalf("formatSpace = %q, want %q", got, want)
	}
}

func TestFormatSpace_PendantAndEmptySign(t *testing.T) {
	spaceJson := gson.NewFrom(`{
		"mid": 2,
		"name": "碧诗",
		"face": "https://i0.hdslb.com/face2.jpg",
		"sign": "",
		"attention": 5,
		"fans": 10000,
		"level_info": {"current_level": 6},
		"pendant": {"pid": 9527, "name": "测试头像框"}
	}`)
	got := formatSpace(spaceJson)
	want := "[CQ:image,file=https://i0.hdslb.com/face2.jpg]\n" +
		"碧诗（LV6）\n" +
		"头像框：测试头像框（9527）\n" +
		"5关注  1万粉丝\n" +
		"space.bilibili.com/2"
	if got != want {
		t.Fatalf("formatSpace = %q, want %q", got, want)
	}
}

func TestFormatLive_NotStreaming(t *testing.T) {
	roomJson := gson.NewFrom(`{
		"room_id": 21452505,
		"uname": "测试主播",
		"title": "测试房间名",
		"cover_from_user": "https://i0.hdslb.com/cover.jpg",
		"keyframe": "https://i0.hdslb.com/key.jpg",
		"area_v2_parent_name": "虚拟主播",
		"area_v2_name": "虚拟歌手",
		"live_status": 0
	}`)
	got := formatLive(roomJson)
	want := "[CQ:image,file=https://i0.hdslb.com/cover.jpg]" +
		"[CQ:image,file=https://i0.hdslb.com/key.jpg]\n" +
		"测试主播的直播间（未开播）\n" +
		"测试房间名\n" +
		"虚拟主播 - 虚拟歌手\n" +
		"live.bilibili.com/21452505"
	if got != want {
		t.Fatalf("formatLive = %q, want %q", got, want)
	}
}

func TestArchiveDurationCid(t *testing.T) {
	videoJson := gson.NewFrom(`{
		"bvid": "BV1xx411c7mD",
		"duration": 3000,
		"cid": 279786,
		"pages": [
			{"cid": 279786, "duration": 3000},
			{"cid": 279787, "duration": 120},
			{"cid": 279788, "duration": 600}
		]
	}`)
	tests := []struct {
		name     string
		page     int
		duration int
		cid      int
	}{
		{"noPage", 0, 3000, 279786},
		{"firstPage", 1, 3000, 279786},
		{"secondPage", 2, 120, 279787},
		{"thirdPage", 3, 600, 279788},
		{"pageOutOfRange", 4, 3000, 279786},
	}
	for _, tt := range tests {
		duration, cid := archiveDurationCid(videoJson, tt.page)
		if duration != tt.duration || cid != tt.cid {
			t.Fatalf("%s: archiveDurationCid(page=%d) = (%d, %d), want (%d, %d)",
				tt.name, tt.page, duration, cid, tt.duration, tt.cid)
		}
	}
}

// 总时长超限但分P不超限时, 选中分P应放行视频
func TestArchiveDurationGate(t *testing.T) {
	videoJson := gson.NewFrom(`{
		"bvid": "BV1xx411c7mD",
		"duration": 3000,
		"cid": 279786,
		"pages": [
			{"cid": 279786, "duration": 3000},
			{"cid": 279787, "duration": 120}
		]
	}`)
	duration, _ := archiveDurationCid(videoJson, 0)
	want := "⚠️ 当前视频时长 50 分钟，超过管理员设置的最长时间 8 分钟！"
	if got := overDurationNotice(duration, 480); got != want {
		t.Fatalf("notice = %q, want %q", got, want)
	}
	duration, _ = archiveDurationCid(videoJson, 2)
	if got := overDurationNotice(duration, 480); got != "" {
		t.Fatalf("short page should pass, got notice %q", got)
	}
}

func TestFormatArticle(t *testing.T) {
	articleJson := gson.NewFrom(`{
		"title": "测试专栏标题",
		"author_name": "测试作者",
		"stats": {"view": 12345, "reply": 67, "favorite": 890, "coin": 12, "share": 34, "like": 56}
	}`)
	got := formatArticle(articleJson, "12345678")
	want := "cv12345678\n" +
		"测试专栏标题\n" +
		"作者：测试作者\n" +
		"12345阅读  67回复  34分享\n" +
		"56点赞  12投币  890收藏\n" +
		"www.bilibili.com/read/cv12345678"
	if got != want {
		t.Fatalf("formatArticle = %q, want %q", got, want)
	}
}

func TestFormatFavlist(t *testing.T) {
	v.Set("parse.settings.descTruncationLength", 80)
	favJson := gson.NewFrom(`{
		"id": 861322977,
		"mid": 3546377,
		"title": "测试收藏夹",
		"cover": "https://i0.hdslb.com/fav.jpg",
		"intro": "收藏夹简介",
		"media_count": 25,
		"upper": {"name": "测试用户"},
		"cnt_info": {"collect": 12345, "play": 123456}
	}`)
	got := formatFavlist(favJson)
	want := "[CQ:image,file=https://i0.hdslb.com/fav.jpg]\n" +
		"测试收藏夹\n" +
		"创建者：测试用户\n" +
		"简介：收藏夹简介\n" +
		"25个内容  12.3万播放  1.2万收藏\n" +
		"space.bilibili.com/3546377/favlist?fid=861322977"
	if got != want {
		t.Fatalf("formatFavlist = %q, want %q", got, want)
	}
}
