package main

import (
	"ResolveBot/EasyBot"
	"regexp"

	log "github.com/sirupsen/logrus"
	"github.com/ysmood/gson"
)

var cardJsonRegexp = regexp.MustCompile(`\[CQ:json,data=(\{.*\})\]`)

// QQ分享卡片里埋的链接也走一遍解析
func checkCardParse(ctx *EasyBot.CQMessage) {
	if !v.GetBool("parse.enable") || !ctx.IsJsonMsg() {
		return
	}
	matches := cardJsonRegexp.FindAllStringSubmatch(
		EasyBot.UnescapeString(ctx.GetRawMessageOrMessage()), -1)
	if len(matches) == 0 {
		return
	}
	g := gson.NewFrom(matches[0][1])
	url := g.Get("meta.news.jumpUrl").Str() //普通分享卡
	if g.Get("meta.news.jumpUrl").Nil() {
		url = g.Get("meta.detail_1.qqdocurl").Str() //小程序卡
		if g.Get("meta.detail_1.qqdocurl").Nil() {
			return
		}
	}
	if url == "" {
		return
	}
	log.Debug("[parse] 卡片内链接: ", url)
	dispatchParse(ctx, url)
}
