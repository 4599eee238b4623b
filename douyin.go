package main

import (
	"ResolveBot/EasyBot"
	"fmt"
	"regexp"
	"strings"

	"github.com/moxcomic/ihttp"
	log "github.com/sirupsen/logrus"
	"github.com/ysmood/gson"
)

// 分享页走移动端UA才会带出window._ROUTER_DATA
var douyinHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
	"Referer":    "https://www.douyin.com/",
}

// aweme_type对应的媒体类型
var douyinTypeDict = map[int]string{
	2:   "image",
	68:  "image",
	150: "image",
	0:   "video",
	4:   "video",
	51:  "video",
	55:  "video",
	58:  "video",
	61:  "video",
}

var douyinRouterDataRegexp = regexp.MustCompile(`(?s)window\._ROUTER_DATA\s*=\s*(.*?)</script>`)

func getDouyinItemJson(awemeID string) gson.JSON { //分享页里抠出来的item_list.0
	body, err := ihttp.New().WithUrl("https://www.iesdouyin.com/share/video/"+awemeID+"/").
		WithHeaders(douyinHeaders).WithCookie(douyinCookie()).
		Get().ToString()
	if err != nil {
		log.Error("[douyin] getDouyinItemJson().ihttp请求错误: ", err)
		return gson.JSON{}
	}
	matches := douyinRouterDataRegexp.FindStringSubmatch(body)
	if len(matches) < 2 {
		log.Error("[parse] 抖音 ", awemeID, " 分享页中没有抓到_ROUTER_DATA, 可能是cookie失效")
		return gson.JSON{}
	}
	routerJson := gson.NewFrom(strings.TrimSpace(matches[1]))
	itemJson := routerJson.Get("loaderData.video_" + awemeID + "/page.videoInfoRes.item_list.0")
	if itemJson.Nil() {
		log.Error("[parse] 抖音 ", awemeID, " 信息获取错误: ", routerJson.Get("loaderData").JSON("", ""))
	}
	log.Trace("[douyin] rawItemJson: ", itemJson.JSON("", ""))
	return itemJson
}

func douyinNoWatermarkUrl(uri string) string { //uri换无水印直链
	return "https://aweme.snssdk.com/aweme/v1/play/?video_id=" + uri + "&ratio=1080p&line=0"
}

// share/slides页没有_ROUTER_DATA, 走第三方接口
func getDouyinSlidesJson(shareUrl string) gson.JSON { //.Get("data")
	slidesJson, err := ihttp.New().WithUrl("https://api.xingzhige.com/API/douyin/").
		WithAddQuery("url", shareUrl).WithHeaders(iheaders).
		Get().ToGson()
	if err != nil {
		log.Error("[douyin] getDouyinSlidesJson().ihttp请求错误: ", err)
		return requestFailedJson()
	}
	log.Trace("[douyin] rawSlidesJson: ", slidesJson.JSON("", ""))
	return slidesJson
}

func douyinSlidesParse(ctx *EasyBot.CQMessage, awemeID string) {
	shareUrl := "https://www.iesdouyin.com/share/slides/" + awemeID + "/"
	data := getDouyinSlidesJson(shareUrl).Get("data")
	if data.Get("jx.item_id").Nil() || data.Get("jx.type").Str() != "图集" {
		log.Info("[parse] 抖音图集 ", awemeID, " 第三方接口未解析, 退回分享页解析")
		douyinParse(ctx, awemeID)
		return
	}
	author := data.Get("author.name").Str() //作者
	title := data.Get("item.title").Str()   //标题
	card := fmt.Sprintf("识别：抖音\n作者：%s\n标题：%s", author, title)
	if cover := data.Get("item.cover").Str(); cover != "" {
		card = bot.Utils.Format.ImageUrl(cover) + "\n" + card
	}
	ctx.SendMsg(luaRewrite(ctx, "douyin", card))
	urls := []string{}
	for _, img := range data.Get("item.images").Arr() {
		if url := img.Str(); url != "" {
			urls = append(urls, url)
		}
	}
	if len(urls) == 0 {
		log.Warn("[parse] 抖音图集 ", awemeID, " 没有取到图片")
		return
	}
	sendImageGallery(ctx, card, urls)
	recordParse(ctx, "douyin", "图集", awemeID, title)
}

// video.duration是毫秒, 个别作品只在顶层给duration
func douyinDurationSeconds(itemJson gson.JSON) int {
	durationMs := itemJson.Get("video.duration").Int()
	if durationMs == 0 {
		durationMs = itemJson.Get("duration").Int()
	}
	return durationMs / 1000
}

func formatDouyin(itemJson gson.JSON) string {
	author := itemJson.Get("author.nickname").Str() //作者
	desc := itemJson.Get("desc").Str()              //标题
	return fmt.Sprintf("识别：抖音\n作者：%s\n标题：%s", author, desc)
}

func douyinParse(ctx *EasyBot.CQMessage, awemeID string) {
	if douyinCookie() == "" {
		ctx.SendMsg("未设置抖音Cookie，无法获取无水印内容")
		return
	}
	itemJson := getDouyinItemJson(awemeID)
	if itemJson.Nil() {
		ctx.SendMsg("[ResolveBot] [ERROR] [parse] 抖音", awemeID, "解析失败")
		return
	}
	ctx.SendMsg(luaRewrite(ctx, "douyin", formatDouyin(itemJson)))
	awemeType := itemJson.Get("aweme_type").Int()
	switch douyinTypeDict[awemeType] {
	case "image":
		images := itemJson.Get("images").Arr()
		urls := []string{}
		for _, img := range images {
			if url := img.Get("url_list.0").Str(); url != "" {
				urls = append(urls, url)
			}
		}
		if len(urls) == 0 {
			log.Warn("[parse] 抖音图文 ", awemeID, " 没有取到图片")
			return
		}
		sendImageGallery(ctx, formatDouyin(itemJson), urls)
		recordParse(ctx, "douyin", "图文", awemeID, itemJson.Get("desc").Str())
	case "video":
		duration := douyinDurationSeconds(itemJson)
		durationMaximum := v.GetInt("parse.videoDurationMaximum")
		if notice := overDurationNotice(duration, durationMaximum); notice != "" {
			log.Info("[parse] 抖音视频 ", awemeID, " 时长 ", duration, " 秒, 超过上限 ", durationMaximum, " 秒")
			ctx.SendMsg(notice)
			return
		}
		uri := itemJson.Get("video.play_addr.uri").Str()
		if uri == "" {
			log.Warn("[parse] 抖音视频 ", awemeID, " 没有取到play_addr")
			return
		}
		ctx.SendMsg(bot.Utils.Format.VideoUrl(douyinNoWatermarkUrl(uri)))
		recordParse(ctx, "douyin", "视频", awemeID, itemJson.Get("desc").Str())
	default:
		log.Warn("[parse] 未知的抖音aweme_type: ", awemeType)
	}
}

// 图集打包成合并转发, 每张一个节点
func sendImageGallery(ctx *EasyBot.CQMessage, title string, urls []string) {
	name := "ResolveBot"
	if nick := bot.GetNickName(); len(nick) > 0 {
		name = nick[0]
	}
	selfID := bot.GetSelfID()
	forwardMsg := EasyBot.NewForwardMsg(EasyBot.NewForwardNode(name, selfID, title, 0, 0))
	for i, url := range urls {
		forwardMsg = EasyBot.AppendForwardMsg(forwardMsg,
			EasyBot.NewForwardNode(name, selfID,
				fmt.Sprintf("第 %d/%d 张\n%s", i+1, len(urls), bot.Utils.Format.ImageUrl(url)), 0, 0))
	}
	if err := ctx.SendForwardMsg(forwardMsg); err != nil {
		log.Error("[parse] 图集合并转发发送失败: ", err)
	}
}
