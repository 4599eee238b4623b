package main

import (
	"ResolveBot/EasyBot"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	log "github.com/sirupsen/logrus"
	"github.com/ysmood/gson"
)

var xhsHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Encoding": "gzip, deflate, br",
	"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8",
	"Referer":         "https://www.xiaohongshu.com/",
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36",
}

func xhsCacheDir() string {
	if dir := v.GetString("parse.xiaohongshu.cacheDir"); dir != "" {
		return dir
	}
	return "./data/xiaohongshu/cache"
}

func xhsCachePath(noteID string) string {
	return filepath.Join(xhsCacheDir(), noteID+".json")
}

func readXhsCache(noteID string) gson.JSON {
	raw, err := os.ReadFile(xhsCachePath(noteID))
	if err != nil {
		return gson.JSON{}
	}
	g := gson.NewFrom(BytesToString(raw))
	maxAge := int64(v.GetInt("parse.xiaohongshu.cacheMaxAge"))
	if maxAge <= 0 {
		maxAge = 86400
	}
	if time.Now().Unix()-int64(g.Get("cachedAt").Int()) > maxAge {
		log.Debug("[xiaohongshu] 缓存过期: ", noteID)
		return gson.JSON{}
	}
	return g.Get("note")
}

func writeXhsCache(noteID string, noteJson gson.JSON) {
	if err := checkDir(xhsCacheDir()); err != nil {
		return
	}
	s := fmt.Sprintf(`{"cachedAt":%d,"note":%s}`, time.Now().Unix(), noteJson.JSON("", ""))
	if err := os.WriteFile(xhsCachePath(noteID), StringToBytes(s), 0o644); err != nil {
		log.Warn("[xiaohongshu] 缓存写入失败: ", err)
	}
}

// 笔记页经常是brotli压缩的, Accept-Encoding得自己处理
func fetchXhsHtml(url string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", err
	}
	for k, val := range xhsHeaders {
		req.Header.Set(k, val)
	}
	req.Header.Set("Cookie", xhsCookie())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var reader io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", err
		}
		defer gz.Close()
		reader = gz
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return BytesToString(body), nil
}

func extractInitialState(html string) (gson.JSON, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Error("[xiaohongshu] goquery解析失败: ", err)
		return gson.JSON{}, false
	}
	var raw string
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := s.Text()
		if idx := strings.Index(text, "window.__INITIAL_STATE__="); idx >= 0 {
			raw = text[idx+len("window.__INITIAL_STATE__="):]
			return false
		}
		return true
	})
	if raw == "" {
		return gson.JSON{}, false
	}
	raw = strings.ReplaceAll(raw, "undefined", "null") //裸undefined没法被json解析
	return gson.NewFrom(raw), true
}

// 分享链接里的xsec参数得带着, 新笔记不带会403
func xhsXsecQuery(str string) string {
	token := regexp.MustCompile(`xsec_token=([-0-9A-Za-z_%=]+)`).FindStringSubmatch(str)
	if len(token) < 2 {
		return ""
	}
	query := "?xsec_token=" + token[1]
	if source := regexp.MustCompile(`xsec_source=([0-9A-Za-z_]+)`).FindStringSubmatch(str); len(source) > 1 {
		query += "&xsec_source=" + source[1]
	} else {
		query += "&xsec_source=pc_feed"
	}
	return query
}

func getXhsNoteJson(noteID string, xsecQuery string) gson.JSON {
	if cached := readXhsCache(noteID); !cached.Nil() {
		log.Debug("[xiaohongshu] 命中缓存: ", noteID)
		return cached
	}
	html, err := fetchXhsHtml("https://www.xiaohongshu.com/explore/" + noteID + xsecQuery)
	if err != nil {
		log.Error("[xiaohongshu] 笔记页获取失败: ", err)
		return gson.JSON{}
	}
	stateJson, ok := extractInitialState(html)
	if !ok {
		log.Error("[parse] 小红书 ", noteID, " 页面中没有抓到__INITIAL_STATE__, 可能是cookie失效")
		return gson.JSON{}
	}
	noteJson := stateJson.Get("note.noteDetailMap." + noteID + ".note")
	if noteJson.Nil() {
		log.Error("[parse] 小红书 ", noteID, " 信息获取错误")
		return gson.JSON{}
	}
	log.Trace("[xiaohongshu] rawNoteJson: ", noteJson.JSON("", ""))
	writeXhsCache(noteID, noteJson)
	return noteJson
}

func formatXhsNote(noteJson gson.JSON) string {
	var content string
	title := fmt.Sprintf("小红书解析 | %s\n", noteJson.Get("title").Str())   //标题
	author := fmt.Sprintf("作者：%s\n", noteJson.Get("user.nickname").Str()) //作者
	location := fmt.Sprintf("位置：%s\n", noteJson.Get("ipLocation").Str())  //属地
	heart := "❤️"
	if noteJson.Get("interactInfo.liked").Bool() { //点过赞换个符号
		heart = "👍"
	}
	star := "⭐"
	if noteJson.Get("interactInfo.collected").Bool() {
		star = "🌟"
	}
	stats := fmt.Sprintf("%s %s | 💬 %s | %s %s\n", //互动
		heart, noteJson.Get("interactInfo.likedCount").Str(),
		noteJson.Get("interactInfo.commentCount").Str(),
		star, noteJson.Get("interactInfo.collectedCount").Str())
	pub := fmt.Sprintf("发布时间: %s", //发布时间
		time.Unix(int64(noteJson.Get("time").Int())/1000, 0).Format("2006-01-02 15:04:05"))
	content += title
	content += truncateDesc(noteJson.Get("desc").Str())
	content += author
	if noteJson.Get("ipLocation").Str() != "" {
		content += location
	}
	content += stats + pub
	return content
}

func xhsParse(ctx *EasyBot.CQMessage, noteID string, src string) {
	if xhsCookie() == "" {
		ctx.SendMsg("无法获取到小红书Cookie，请在配置中设置XHS_CK")
		return
	}
	noteJson := getXhsNoteJson(noteID, xhsXsecQuery(src))
	if noteJson.Nil() {
		ctx.SendMsg("[ResolveBot] [ERROR] [parse] 小红书笔记", noteID, "解析失败")
		return
	}
	title := noteJson.Get("title").Str()
	ctx.SendMsg(luaRewrite(ctx, "xiaohongshu", formatXhsNote(noteJson)))
	switch noteJson.Get("type").Str() {
	case "video":
		duration := noteJson.Get("video.capa.duration").Int()
		durationMaximum := v.GetInt("parse.videoDurationMaximum")
		if notice := overDurationNotice(duration, durationMaximum); notice != "" {
			log.Info("[parse] 小红书视频 ", noteID, " 时长 ", duration, " 秒, 超过上限 ", durationMaximum, " 秒")
			ctx.SendMsg(notice)
			return
		}
		masterUrl := noteJson.Get("video.media.stream.h264.0.masterUrl").Str()
		if masterUrl == "" {
			log.Warn("[parse] 小红书视频 ", noteID, " 没有取到masterUrl")
			return
		}
		ctx.SendMsg(bot.Utils.Format.VideoUrl(masterUrl))
		recordParse(ctx, "xiaohongshu", "视频笔记", noteID, title)
	default: //normal图文
		urls := []string{}
		for _, img := range noteJson.Get("imageList").Arr() {
			if url := img.Get("urlDefault").Str(); url != "" {
				urls = append(urls, url)
			}
		}
		if len(urls) == 0 {
			log.Warn("[parse] 小红书笔记 ", noteID, " 没有取到图片")
			return
		}
		sendImageGallery(ctx, "小红书解析 | "+title, urls)
		recordParse(ctx, "xiaohongshu", "图文笔记", noteID, title)
	}
}
