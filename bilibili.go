package main

import (
	"ResolveBot/EasyBot"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/moxcomic/ihttp"
	log "github.com/sirupsen/logrus"
	"github.com/ysmood/gson"
)

// ihttp请求失败时给调用方一个能走到code检查分支的结果
func requestFailedJson() gson.JSON {
	return gson.NewFrom(`{"code":-1,"message":"ihttp请求失败"}`)
}

func truncateDesc(desc string) (content string) { //简介截断
	truncationLength := v.GetInt("parse.settings.descTruncationLength")
	if desc == "<nil>" || desc == "-" || desc == "" || truncationLength <= 0 {
		return ""
	}
	if r := []rune(desc); len(r) > truncationLength {
		return fmt.Sprintf("简介：%s......\n", string(r[0:truncationLength]))
	}
	return fmt.Sprintf("简介：%s\n", desc)
}

func statString(stat int) string { //过万的数据缩写为"x.x万"
	if stat >= 10000 {
		return formatNumber(float64(stat)/10000, 1, true) + "万"
	}
	return strconv.Itoa(stat)
}

func getDynamicJson(dynamicID string) gson.JSON { //获取动态数据
	dynamicJson, err := ihttp.New().WithUrl("https://api.bilibili.com/x/polymer/web-dynamic/v1/detail").
		WithAddQuery("id", dynamicID).WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getDynamicJson().ihttp请求错误: ", err)
		return requestFailedJson()
	}
	log.Trace("[bilibili] rawDynamicJson: ", dynamicJson.JSON("", ""))
	if dynamicJson.Get("code").Int() != 0 {
		log.Error("[parse] 动态 ", dynamicID, " 信息获取错误: ", dynamicJson.JSON("", ""))
	}
	return dynamicJson
}

func getVoteJson(voteID string) gson.JSON { //.Get("data.info")
	voteJson, err := ihttp.New().WithUrl("https://api.vc.bilibili.com/vote_svr/v1/vote_svr/vote_info").
		WithAddQuery("vote_id", voteID).WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getVoteJson().ihttp请求错误: ", err)
		return requestFailedJson()
	}
	log.Trace("[bilibili] rawVoteJson: ", voteJson.JSON("", ""))
	if voteJson.Get("code").Int() != 0 {
		log.Error("[parse] 投票 ", voteID, " 信息获取错误: ", voteJson.JSON("", ""))
	}
	return voteJson
}

func formatDynamic(json gson.JSON) string { //主动态"data.item", 转发原动态"data.item.orig"
	var head string
	var content string
	id := fmt.Sprintf("t.bilibili.com/%s\n", json.Get("id_str").Str())
	name := fmt.Sprintf("%s：\n", json.Get("modules.module_author.name").Str())
	head = id + name
	dynamicType := json.Get("type").Str()                       //动态类型
	dynamic := json.Get("modules.module_dynamic")               //动态
	author := json.Get("modules.module_author")                 //发布
	draw := json.Get("modules.module_dynamic.major.draw")       //图片
	archive := json.Get("modules.module_dynamic.major.archive") //视频
	article := json.Get("modules.module_dynamic.major.article") //文章
	additionalType := dynamic.Get("additional.type").Str()      //动态子项类型 投票/预约
	vote := dynamic.Get("additional.vote")                      //投票
	reserve := dynamic.Get("additional.reserve")                //预约
	live := gson.NewFrom(json.Get(                              //直播
		"modules.module_dynamic.major.live_rcmd.content").Str())
	appendVote := func(voteID string) string { //投票格式化
		var content string
		rawVoteJson := getVoteJson(voteID)
		if rawVoteJson.Get("code").Int() != 0 {
			return "投票信息获取错误"
		}
		voteJson := rawVoteJson.Get("data.info")
		start := fmt.Sprintf("%s开始\n", //开始时间
			time.Unix(int64(voteJson.Get("starttime").Int()), 0).Format(timeLayout.L24C))
		end := fmt.Sprintf("%s结束\n", //结束时间
			time.Unix(int64(voteJson.Get("endtime").Int()), 0).Format(timeLayout.L24C))
		name := fmt.Sprintf("%s发起的投票：\n", voteJson.Get("name").Str())        //发起者
		title := fmt.Sprintf("%s\n", voteJson.Get("title").Str())            //标题
		c_cnt := fmt.Sprintf("最多选%d项    ", voteJson.Get("choice_cnt").Int()) //最大多选数
		cnt := fmt.Sprintf("%d人参与", voteJson.Get("cnt").Int())               //参与数
		op_cnt := voteJson.Get("options_cnt").Int()                          //选项数
		content += name + title
		content += truncateDesc(voteJson.Get("desc").Str())
		content += start + end + c_cnt + cnt
		for i := 0; i < op_cnt; i++ { //选项序列
			content += fmt.Sprintf("\n%d. %s  %d人选择", i+1, //序号
				voteJson.Get(fmt.Sprintf("options.%d.desc", i)).Str(), //描述
				voteJson.Get(fmt.Sprintf("options.%d.cnt", i)).Int())  //选择数
		}
		return content
	}
	log.Debug("[bilibili] dynamicType: ", dynamicType)
	switch dynamicType {
	case "DYNAMIC_TYPE_FORWARD": //转发
		topic := fmt.Sprintf("#%s#\n", dynamic.Get("topic.name").Str()) //话题
		text := fmt.Sprintf("%s", dynamic.Get("desc.text").Str())       //文本
		if !dynamic.Get("topic.name").Nil() {
			content += topic
		}
		content += text + "\n\n" + formatDynamic(json.Get("orig"))
		return head + content
	case "DYNAMIC_TYPE_NONE": //转发的动态已删除
		return json.Get("modules.module_dynamic.major.none.tips").Str() //错误提示: "源动态已被作者删除"
	case "DYNAMIC_TYPE_WORD": //文本
		topic := fmt.Sprintf("#%s#\n", dynamic.Get("topic.name").Str()) //话题
		text := fmt.Sprintf("%s", dynamic.Get("desc.text").Str())       //文本
		if !dynamic.Get("topic.name").Nil() {
			content += topic
		}
		content += text
		if additionalType == "ADDITIONAL_TYPE_VOTE" {
			content += "\n\n" + appendVote(strconv.Itoa(vote.Get("vote_id").Int()))
		}
		if additionalType == "ADDITIONAL_TYPE_RESERVE" {
			title := fmt.Sprintf("%s\n", reserve.Get("title").Str())
			desc1 := fmt.Sprintf("%s    ", reserve.Get("desc1.text").Str()) //"预计xxx发布"
			desc2 := fmt.Sprintf("%s", reserve.Get("desc2.text").Str())     //"xx人预约"/"xx观看"
			content += "\n\n" + title + desc1 + desc2
		}
		return head + content
	case "DYNAMIC_TYPE_DRAW": //图文
		image := "" //图片
		for i := 0; i < len(draw.Get("items").Arr()); i++ {
			image += fmt.Sprintf("[CQ:image,file=%s]", draw.Get(fmt.Sprintf("items.%d.src", i)).Str())
			if i != len(draw.Get("items").Arr())-1 {
				image += "\n"
			}
		}
		topic := fmt.Sprintf("#%s#\n", dynamic.Get("topic.name").Str()) //话题
		text := fmt.Sprintf("%s", dynamic.Get("desc.text").Str())       //文本
		if !dynamic.Get("topic.name").Nil() {
			content += topic
		}
		content += text + image
		if additionalType == "ADDITIONAL_TYPE_VOTE" {
			content += "\n\n" + appendVote(strconv.Itoa(vote.Get("vote_id").Int()))
		}
		if additionalType == "ADDITIONAL_TYPE_RESERVE" {
			title := fmt.Sprintf("%s\n", reserve.Get("title").Str())
			desc1 := fmt.Sprintf("%s    ", reserve.Get("desc1.text").Str()) //"预计xxx发布"
			desc2 := fmt.Sprintf("%s", reserve.Get("desc2.text").Str())     //"xx人预约"/"xx观看"
			content += "\n\n" + title + desc1 + desc2
		}
		return head + content
	case "DYNAMIC_TYPE_AV": //视频
		action := fmt.Sprintf("%s\n\n", author.Get("pub_action").Str())             //"投稿了视频"/"发布了动态视频"
		topic := fmt.Sprintf("#%s#\n", dynamic.Get("topic.name").Str())             //话题
		text := fmt.Sprintf("%s\n", dynamic.Get("desc.text").Str())                 //文本
		cover := fmt.Sprintf("[CQ:image,file=%s]\n", archive.Get("cover").Str())    //封面
		aid := fmt.Sprintf("av%s\n", archive.Get("aid").Str())                      //av号
		title := fmt.Sprintf("%s\n", archive.Get("title").Str())                    //标题
		play := fmt.Sprintf("%s播放  ", archive.Get("stat.play").Str())               //再生
		danmaku := fmt.Sprintf("%s弹幕\n", archive.Get("stat.danmaku").Str())         //弹幕
		link := fmt.Sprintf("www.bilibili.com/video/%s", archive.Get("bvid").Str()) //链接
		content += action
		if !dynamic.Get("topic.name").Nil() {
			content += topic
		}
		if !dynamic.Get("desc.text").Nil() {
			content += text
		}
		content += cover + aid + title
		content += truncateDesc(archive.Get("desc").Str())
		content += play + danmaku + link
		return head + content
	case "DYNAMIC_TYPE_ARTICLE": //文章
		cover := "" //封面组
		for i := 0; i < len(article.Get("image_urls").Arr()); i++ {
			cover += fmt.Sprintf("[CQ:image,file=%s]", article.Get(fmt.Sprintf("image_urls.%d", i)).Str())
			if i == len(article.Get("image_urls").Arr())-1 {
				cover += "\n"
			}
		}
		action := fmt.Sprintf("%s\n\n", author.Get("pub_action").Str())            //"投稿了文章"
		cvid := fmt.Sprintf("\ncv%s\n", article.Get("id").Str())                   //cv号
		title := fmt.Sprintf("%s\n", article.Get("title").Str())                   //标题
		label := fmt.Sprintf("%s\n", article.Get("label").Str())                   //xxx阅读
		desc := fmt.Sprintf("简介:%s\n", article.Get("desc").Str())                  //简介
		link := fmt.Sprintf("www.bilibili.com/read/cv%s", article.Get("id").Str()) //链接
		content += action + cover + cvid + title + label + desc + link
		return head + content
	case "DYNAMIC_TYPE_LIVE_RCMD": //直播（动态流拿不到）
		area := fmt.Sprintf("%s - %s\n", //分区
			live.Get("live_play_info.parent_area_name").Str(),
			live.Get("live_play_info.area_name").Str())
		action := fmt.Sprintf("%s\n", author.Get("pub_action").Str())                             //"直播了"
		cover := fmt.Sprintf("[CQ:image,file=%s]\n", live.Get("live_play_info.cover").Str())      //封面
		title := fmt.Sprintf("%s\n", live.Get("live_play_info.title").Str())                      //房间名
		whatched := fmt.Sprintf("%s\n", live.Get("live_play_info.watched_show.text_large").Str()) //xxx人看过
		id := fmt.Sprintf("live.bilibili.com/%d", live.Get("live_play_info.room_id").Int())       //房间号
		content += action + cover + title + area + whatched + id
		return head + content
	case "DYNAMIC_TYPE_COMMON_SQUARE": //应用装扮同步动态
		return head + "这是一条应用装扮同步动态"
	}
	log.Error("[bilibili] 未知的动态类型: ", dynamicType, " ", id)
	_ = bot.Log2SU.Warn("[bilibili] 未知的动态类型：", dynamicType, "\n", id)
	return head + "未知的动态类型"
}

func getArchiveJsonA(aid string) (videoJson, onlineJson gson.JSON) { //av号获取视频数据  .Get("data")
	videoJson, err := ihttp.New().WithUrl("https://api.bilibili.com/x/web-interface/view").
		WithAddQuery("aid", aid).WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getArchiveJsonA().ihttp请求错误: ", err)
		return requestFailedJson(), gson.JSON{}
	}
	log.Trace("[bilibili] rawVideoJsonA: ", videoJson.JSON("", ""))
	if videoJson.Get("code").Int() != 0 {
		log.Error("[parse] 视频av", aid, " 信息获取错误: ", videoJson.JSON("", ""))
		return videoJson, gson.JSON{}
	}
	return videoJson, getOnlineJson(videoJson.Get("data.bvid").Str(), videoJson.Get("data.cid").Int())
}

func getArchiveJsonB(bvid string) (videoJson, onlineJson gson.JSON) { //bv号获取视频数据  .Get("data")
	videoJson, err := ihttp.New().WithUrl("https://api.bilibili.com/x/web-interface/view").
		WithAddQuery("bvid", bvid).WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getArchiveJsonB().ihttp请求错误: ", err)
		return requestFailedJson(), gson.JSON{}
	}
	log.Trace("[bilibili] rawVideoJsonB: ", videoJson.JSON("", ""))
	if videoJson.Get("code").Int() != 0 {
		log.Error("[parse] 视频", bvid, " 信息获取错误: ", videoJson.JSON("", ""))
		return videoJson, gson.JSON{}
	}
	return videoJson, getOnlineJson(bvid, videoJson.Get("data.cid").Int())
}

func getOnlineJson(bvid string, cid int) gson.JSON { //在线观看人数  .Get("data")
	onlineJson, err := ihttp.New().WithUrl("https://api.bilibili.com/x/player/online/total").
		WithAddQuerys(map[string]any{"bvid": bvid, "cid": cid}).WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getOnlineJson().ihttp请求错误: ", err)
		return gson.JSON{}
	}
	log.Trace("[bilibili] rawOnlineJson: ", onlineJson.JSON("", ""))
	if onlineJson.Get("code").Int() != 0 {
		log.Warn("[parse] 视频 ", bvid, " 在线人数获取错误: ", onlineJson.JSON("", ""))
	}
	return onlineJson
}

func formatArchive(videoJson gson.JSON, onlineJson gson.JSON) string {
	var content string
	pic := fmt.Sprintf("[CQ:image,file=%s]\n", videoJson.Get("pic").Str())                       //封面
	aid := fmt.Sprintf("av%d\n", videoJson.Get("aid").Int())                                     //av号数字
	title := fmt.Sprintf("%s\n", videoJson.Get("title").Str())                                   //标题
	up := fmt.Sprintf("UP：%s\n", videoJson.Get("owner.name").Str())                              //up主
	duration := fmt.Sprintf("时长：%s\n", formatTimeSimple(int64(videoJson.Get("duration").Int()))) //时长
	view := fmt.Sprintf("%s播放  ", statString(videoJson.Get("stat.view").Int()))                  //再生
	danmaku := fmt.Sprintf("%s弹幕  ", statString(videoJson.Get("stat.danmaku").Int()))            //弹幕
	reply := fmt.Sprintf("%s回复\n", statString(videoJson.Get("stat.reply").Int()))                //回复
	like := fmt.Sprintf("%s点赞  ", statString(videoJson.Get("stat.like").Int()))                  //点赞
	coin := fmt.Sprintf("%s投币  ", statString(videoJson.Get("stat.coin").Int()))                  //投币
	favor := fmt.Sprintf("%s收藏\n", statString(videoJson.Get("stat.favorite").Int()))             //收藏
	online := fmt.Sprintf("🏄‍♂️ 总共 %s 人在观看，%s 人在网页端观看\n", //在线人数
		onlineJson.Get("total").Str(), onlineJson.Get("count").Str())
	link := fmt.Sprintf("www.bilibili.com/video/%s", videoJson.Get("bvid").Str()) //链接
	content += pic + aid + title + up
	content += truncateDesc(videoJson.Get("desc").Str())
	content += duration + view + danmaku + reply + like + coin + favor
	if !onlineJson.Get("total").Nil() {
		content += online
	}
	content += link
	return content
}

func getArchivePlayUrl(bvid string, cid int) string { //html5平台的mp4直链, 不校验Referer
	playJson, err := ihttp.New().WithUrl("https://api.bilibili.com/x/player/playurl").
		WithAddQuerys(map[string]any{"bvid": bvid, "cid": cid, "qn": 64, "platform": "html5", "high_quality": 1}).
		WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getArchivePlayUrl().ihttp请求错误: ", err)
		return ""
	}
	log.Trace("[bilibili] rawPlayJson: ", playJson.JSON("", ""))
	if playJson.Get("code").Int() != 0 {
		log.Error("[parse] 视频 ", bvid, " 取流失败: ", playJson.JSON("", ""))
		return ""
	}
	return playJson.Get("data.durl.0.url").Str()
}

// ?p=指定分P时取对应分P的时长和cid
func archiveDurationCid(videoJson gson.JSON, page int) (duration int, cid int) {
	duration = videoJson.Get("duration").Int()
	cid = videoJson.Get("cid").Int()
	if pages := videoJson.Get("pages").Arr(); page > 1 && page <= len(pages) {
		duration = pages[page-1].Get("duration").Int()
		cid = pages[page-1].Get("cid").Int()
	}
	return
}

// 卡片先行, 视频随后, 超长视频只发卡片
func sendArchive(ctx *EasyBot.CQMessage, videoJson gson.JSON, onlineJson gson.JSON, page int) {
	ctx.SendMsg(luaRewrite(ctx, "bilibili", formatArchive(videoJson, onlineJson)))
	duration, cid := archiveDurationCid(videoJson, page)
	durationMaximum := v.GetInt("parse.videoDurationMaximum")
	if notice := overDurationNotice(duration, durationMaximum); notice != "" {
		log.Info("[parse] 视频 ", videoJson.Get("bvid").Str(), " 时长 ", duration, " 秒, 超过上限 ", durationMaximum, " 秒")
		ctx.SendMsg(notice)
		return
	}
	playUrl := getArchivePlayUrl(videoJson.Get("bvid").Str(), cid)
	if playUrl == "" {
		return
	}
	ctx.SendMsg(bot.Utils.Format.VideoUrl(playUrl))
}

func getArticleJson(cvid string) gson.JSON { //.Get("data")
	articleJson, err := ihttp.New().WithUrl("https://api.bilibili.com/x/article/viewinfo").
		WithAddQuery("id", cvid).WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getArticleJson().ihttp请求错误: ", err)
		return requestFailedJson()
	}
	log.Trace("[bilibili] rawArticleJson: ", articleJson.JSON("", ""))
	if articleJson.Get("code").Int() != 0 {
		log.Error("[parse] 文章 ", cvid, " 信息获取错误: ", articleJson.JSON("", ""))
	}
	return articleJson
}

func formatArticle(articleJson gson.JSON, cvid string) string { //文章信息拿不到自己的cv号
	var content string
	image := "" //头图
	for i := 0; i < len(articleJson.Get("image_urls").Arr()); i++ {
		image += "[CQ:image,file=" + articleJson.Get(fmt.Sprintf("image_urls.%d", i)).Str() + "]"
		if i == len(articleJson.Get("image_urls").Arr())-1 {
			image += "\n"
		}
	}
	cv := fmt.Sprintf("cv%s\n", cvid)                                       //cv号
	title := fmt.Sprintf("%s\n", articleJson.Get("title").Str())            //标题
	author := fmt.Sprintf("作者：%s\n", articleJson.Get("author_name").Str())  //作者
	view := fmt.Sprintf("%s阅读  ", articleJson.Get("stats.view").Str())      //阅读
	reply := fmt.Sprintf("%s回复  ", articleJson.Get("stats.reply").Str())    //回复
	share := fmt.Sprintf("%s分享\n", articleJson.Get("stats.share").Str())    //分享
	like := fmt.Sprintf("%s点赞  ", articleJson.Get("stats.like").Str())      //点赞
	coin := fmt.Sprintf("%s投币  ", articleJson.Get("stats.coin").Str())      //投币
	favor := fmt.Sprintf("%s收藏\n", articleJson.Get("stats.favorite").Str()) //收藏
	link := fmt.Sprintf("www.bilibili.com/read/cv%s", cvid)                 //链接
	content += image + cv + title + author + view + reply + share + like + coin + favor + link
	return content
}

func getSpaceJson(uid string) gson.JSON { //.Get("data.card")
	spaceJson, err := ihttp.New().WithUrl("https://api.bilibili.com/x/web-interface/card").
		WithAddQuery("mid", uid).WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getSpaceJson().ihttp请求错误: ", err)
		return requestFailedJson()
	}
	log.Trace("[bilibili] rawSpaceJson: ", spaceJson.JSON("", ""))
	if spaceJson.Get("code").Int() != 0 {
		log.Error("[parse] 空间 ", uid, " 信息获取错误: ", spaceJson.JSON("", ""))
	}
	return spaceJson
}

func formatSpace(spaceJson gson.JSON) string {
	var content string
	pendant := fmt.Sprintf("头像框：%s（%d）\n", //头像框
		spaceJson.Get("pendant.name").Str(),
		spaceJson.Get("pendant.pid").Int())
	face := fmt.Sprintf("[CQ:image,file=%s]\n", spaceJson.Get("face").Str())          //头像
	name := fmt.Sprintf("%s", spaceJson.Get("name").Str())                            //用户名
	level := fmt.Sprintf("（LV%d）\n", spaceJson.Get("level_info.current_level").Int()) //账号等级
	sign := fmt.Sprintf("签名：%s\n", spaceJson.Get("sign").Str())                       //签名
	attention := fmt.Sprintf("%s关注  ", statString(spaceJson.Get("attention").Int())) //关注
	fans := fmt.Sprintf("%s粉丝\n", statString(spaceJson.Get("fans").Int()))            //粉丝
	link := fmt.Sprintf("space.bilibili.com/%s", spaceJson.Get("mid").Str())          //链接
	content += face + name + level
	if spaceJson.Get("pendant.pid").Int() != 0 {
		content += pendant
	}
	if spaceJson.Get("sign").Str() != "" {
		content += sign
	}
	content += attention + fans + link
	return content
}

func getFavlistJson(mlid string) gson.JSON { //收藏夹信息  .Get("data")
	favJson, err := ihttp.New().WithUrl("https://api.bilibili.com/x/v3/fav/folder/info").
		WithAddQuery("media_id", mlid).WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getFavlistJson().ihttp请求错误: ", err)
		return requestFailedJson()
	}
	log.Trace("[bilibili] rawFavlistJson: ", favJson.JSON("", ""))
	if favJson.Get("code").Int() != 0 {
		log.Error("[parse] 收藏夹 ", mlid, " 信息获取错误: ", favJson.JSON("", ""))
	}
	return favJson
}

func getFavlistMediasJson(mlid string) gson.JSON { //收藏夹首页内容  .Get("data.medias")
	mediasJson, err := ihttp.New().WithUrl("https://api.bilibili.com/x/v3/fav/resource/list").
		WithAddQuerys(map[string]any{"media_id": mlid, "pn": 1, "ps": 20, "platform": "web"}).
		WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getFavlistMediasJson().ihttp请求错误: ", err)
		return requestFailedJson()
	}
	log.Trace("[bilibili] rawFavlistMediasJson: ", mediasJson.JSON("", ""))
	if mediasJson.Get("code").Int() != 0 {
		log.Error("[parse] 收藏夹 ", mlid, " 内容获取错误: ", mediasJson.JSON("", ""))
	}
	return mediasJson
}

func formatFavlist(favJson gson.JSON) string {
	var content string
	cover := fmt.Sprintf("[CQ:image,file=%s]\n", favJson.Get("cover").Str())            //封面
	title := fmt.Sprintf("%s\n", favJson.Get("title").Str())                            //标题
	upper := fmt.Sprintf("创建者：%s\n", favJson.Get("upper.name").Str())                   //创建者
	count := fmt.Sprintf("%d个内容  ", favJson.Get("media_count").Int())                   //收录数
	play := fmt.Sprintf("%s播放  ", statString(favJson.Get("cnt_info.play").Int()))       //播放
	collect := fmt.Sprintf("%s收藏\n", statString(favJson.Get("cnt_info.collect").Int())) //收藏
	link := fmt.Sprintf("space.bilibili.com/%d/favlist?fid=%d",                         //链接
		favJson.Get("mid").Int(), favJson.Get("id").Int())
	content += cover + title + upper
	content += truncateDesc(favJson.Get("intro").Str())
	content += count + play + collect + link
	return content
}

// 首页内容打包成合并转发
func sendFavlistMedias(ctx *EasyBot.CQMessage, mediasJson gson.JSON) {
	medias := mediasJson.Get("data.medias").Arr()
	if len(medias) == 0 {
		return
	}
	name := "ResolveBot"
	if nick := bot.GetNickName(); len(nick) > 0 {
		name = nick[0]
	}
	selfID := bot.GetSelfID()
	forwardMsg := EasyBot.NewForwardMsg()
	for i, media := range medias {
		forwardMsg = EasyBot.AppendForwardMsg(forwardMsg,
			EasyBot.NewForwardNode(name, selfID,
				fmt.Sprintf("%d. %s\nUP：%s\nwww.bilibili.com/video/%s",
					i+1,
					media.Get("title").Str(),
					media.Get("upper.name").Str(),
					media.Get("bvid").Str()), 0, 0))
	}
	if err := ctx.SendForwardMsg(forwardMsg); err != nil {
		log.Error("[parse] 收藏夹合并转发发送失败: ", err)
	}
}

func getRoomJsonUID(uid string) gson.JSON { //uid获取直播间数据  .Gets("data", uid)
	liveJson, err := ihttp.New().WithUrl("https://api.live.bilibili.com/room/v1/Room/get_status_info_by_uids").
		WithAddQuery("uids[]", uid).WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getRoomJsonUID().ihttp请求错误: ", err)
		return requestFailedJson()
	}
	log.Trace("[bilibili] rawRoomJson: ", liveJson.JSON("", ""))
	if liveJson.Get("code").Int() != 0 {
		log.Error("[parse] 直播间(UID) ", uid, " 信息获取错误: ", liveJson.JSON("", ""))
	}
	return liveJson
}

func getRoomJsonRoomID(roomID string) gson.JSON { //房间号获取直播间数据（拿不到UP用户名）  .Get("data")
	liveJson, err := ihttp.New().WithUrl("https://api.live.bilibili.com/room/v1/Room/get_info").
		WithAddQuery("room_id", roomID).WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getRoomJsonRoomID().ihttp请求错误: ", err)
		return requestFailedJson()
	}
	log.Trace("[bilibili] rawRoomJson: ", liveJson.JSON("", ""))
	if liveJson.Get("code").Int() != 0 {
		log.Error("[parse] 直播间(RoomID) ", roomID, " 信息获取错误: ", liveJson.JSON("", ""))
	}
	return liveJson
}

func formatLive(roomJson gson.JSON) string {
	var content string
	var online string
	var start string
	area := fmt.Sprintf("%s - %s\n", //分区
		roomJson.Get("area_v2_parent_name").Str(),
		roomJson.Get("area_v2_name").Str())
	cover := fmt.Sprintf("[CQ:image,file=%s]", roomJson.Get("cover_from_user").Str()) //封面
	keyframe := fmt.Sprintf("[CQ:image,file=%s]\n", roomJson.Get("keyframe").Str())   //关键帧
	uname := fmt.Sprintf("%s的直播间", roomJson.Get("uname").Str())                       //主播
	title := fmt.Sprintf("%s\n", roomJson.Get("title").Str())                         //房间名
	link := fmt.Sprintf("live.bilibili.com/%d", roomJson.Get("room_id").Int())        //房间号
	content += cover + keyframe
	switch roomJson.Get("live_status").Int() { //房间状态:   0: "未开播"  1: "直播中 " 2: "轮播中"
	case 0:
		uname += "（未开播）\n"
	case 1:
		uname += "（直播中）\n"
		if popularity, err := livePopularity(strconv.Itoa(roomJson.Get("room_id").Int())); err != nil {
			log.Warn("[bilibili] 直播间人气获取失败: ", err)
		} else if popularity > 1 { //恒为1说明没取到
			online = fmt.Sprintf("人气值：%s\n", statString(int(popularity)))
		}
		if liveTime := roomJson.Get("live_time").Int(); liveTime > 0 {
			start = fmt.Sprintf("开播时间：%s\n", time.Unix(int64(liveTime), 0).Format(timeLayout.M24C))
		}
	case 2:
		uname += "（轮播中）\n"
	}
	content += uname + title + area + online + start + link
	return content
}

func getConclusionJson(bvid string, cid int, upMid int) gson.JSON { //官方AI视频总结  .Get("data")
	conclusionJson, err := ihttp.New().WithUrl(SignURL(fmt.Sprintf(
		"https://api.bilibili.com/x/web-interface/view/conclusion/get?bvid=%s&cid=%d&up_mid=%d",
		bvid, cid, upMid))).
		WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getConclusionJson().ihttp请求错误: ", err)
		return requestFailedJson()
	}
	log.Trace("[bilibili] rawConclusionJson: ", conclusionJson.JSON("", ""))
	if conclusionJson.Get("code").Int() != 0 {
		log.Error("[parse] 视频 ", bvid, " AI总结获取错误: ", conclusionJson.JSON("", ""))
	}
	return conclusionJson
}

func formatConclusion(conclusionJson gson.JSON) string {
	modelResult := conclusionJson.Get("data.model_result")
	if modelResult.Get("result_type").Int() == 0 || modelResult.Get("summary").Str() == "" {
		return "这个视频还没有AI总结"
	}
	content := "「AI总结」" + modelResult.Get("summary").Str()
	for _, part := range modelResult.Get("outline").Arr() { //分段提纲
		content += "\n\n● " + part.Get("title").Str()
		for _, point := range part.Get("part_outline").Arr() {
			content += fmt.Sprintf("\n%s  %s",
				formatTimeSimple(int64(point.Get("timestamp").Int())), point.Get("content").Str())
		}
	}
	return content
}

// 从消息文本里找B站视频并回复AI总结, 消息里没有视频链接时返回false
func concludeFromString(ctx *EasyBot.CQMessage, str string) bool {
	if result := regexp.MustCompile(biliLinkRegexp.SHORT).FindAllStringSubmatch(str, -1); len(result) > 0 {
		str = deShortLink(result[0][2])
	}
	id, kind := extractor(str)
	var videoJson gson.JSON
	switch kind {
	case "ARCHIVEa":
		videoJson, _ = getArchiveJsonA(id)
	case "ARCHIVEb":
		videoJson, _ = getArchiveJsonB(id)
	default:
		return false
	}
	if videoJson.Get("code").Int() != 0 {
		ctx.SendMsgReply(fmt.Sprintf("视频信息获取错误: code%d", videoJson.Get("code").Int()))
		return true
	}
	conclusionJson := getConclusionJson(
		videoJson.Get("data.bvid").Str(),
		videoJson.Get("data.cid").Int(),
		videoJson.Get("data.owner.mid").Int())
	if conclusionJson.Get("code").Int() != 0 {
		ctx.SendMsgReply(fmt.Sprintf("AI总结获取错误: code%d", conclusionJson.Get("code").Int()))
		return true
	}
	ctx.SendMsgReply(formatConclusion(conclusionJson))
	return true
}

// 回复B站视频链接"总结一下"时调官方AI总结, 不带回复就等一会下一条消息
func checkConclusion(ctx *EasyBot.CQMessage) {
	if len(ctx.RegFindAllStringSubmatch(regexp.MustCompile(`^\s*总结一下\s*$`))) == 0 {
		return
	}
	if replyMsg, err := ctx.GetReplyedMsg(); err == nil && replyMsg != nil {
		if !concludeFromString(ctx, replyMsg.GetRawMessageOrMessage()) {
			ctx.SendMsgReply("没有在消息里找到B站视频链接")
		}
		return
	}
	ctx.SendMsgReply("请在60秒内发送B站视频链接")
	waitCtx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()
	newMsgContext(waitCtx, int64(ctx.MessageID), nil, func(msg *EasyBot.CQMessage) (isDone bool) {
		if msg.UserID != ctx.UserID ||
			msg.MessageType != ctx.MessageType || msg.GroupID != ctx.GroupID {
			return false
		}
		if !concludeFromString(msg, msg.GetRawMessageOrMessage()) {
			return false
		}
		cancel()
		return true
	}, nil)
}
