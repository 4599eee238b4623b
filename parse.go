package main

import (
	"ResolveBot/EasyBot"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var biliLinkRegexp = struct {
	DYNAMIC  string
	ARCHIVEa string
	ARCHIVEb string
	ARTICLE  string
	FAVLIST  string
	SPACE    string
	LIVE     string
	SHORT    string
}{
	DYNAMIC:  `(t.bilibili.com|dynamic|opus)\\?/([0-9]{18,19})`,                            //应该不会有17位的，可能要有19位
	ARCHIVEa: `video\\?/av([0-9]{1,10})`,                                                   //9位 预留10
	ARCHIVEb: `video\\?/(BV[1-9A-HJ-NP-Za-km-z]{10})`,                                      //恒定BV + 10位base58
	ARTICLE:  `(read\\?/cv|read\\?/mobile\\?/)([0-9]{1,9})`,                                //8位 预留9
	FAVLIST:  `(medialist\\?/detail\\?/ml|list\\?/ml|favlist\?fid=)([0-9]{1,12})`,          //媒体列表id 10位 预留12
	SPACE:    `space\.bilibili\.com\\?/([0-9]{1,16})`,                                      //新uid 16位
	LIVE:     `live\.bilibili\.com\\?/([0-9]{1,9})`,                                        //8位 预留9
	SHORT:    `(b23|acg)\.tv\\?/(BV[1-9A-HJ-NP-Za-km-z]{10}|av[0-9]{1,10}|[0-9A-Za-z]{7})`, //暂时应该只有7位  也有可能是av/bv号
}

var douyinLinkRegexp = struct {
	AWEME string
	MODAL string
	SHORT string
}{
	AWEME: `douyin\.com\\?/(?:share\\?/)?(video|note|slides)\\?/([0-9]{15,20})`, //aweme_id 19位 预留15~20
	MODAL: `modal_id=([0-9]{15,20})`,                                            //用户页/推荐流分享出来的链接
	SHORT: `v\.douyin\.com\\?/([-0-9A-Za-z_]{4,16})`,                            //分享口令里的短链
}

var xhsLinkRegexp = struct {
	ITEM    string
	EXPLORE string
	NOTEID  string
	SHORT   string
}{
	ITEM:    `xiaohongshu\.com\\?/discovery\\?/item\\?/([0-9a-z]{24})`, //note_id 24位hex
	EXPLORE: `xiaohongshu\.com\\?/explore\\?/([0-9a-z]{24})`,
	NOTEID:  `source=note&noteId=([0-9a-z]{24})`, //分享卡里的deep link
	SHORT:   `xhslink\.com\\?/([0-9A-Za-z]{4,16})`,
}

var (
	parseHistoryList  = make(map[string]parseHistory) //id : group/user, time
	parseHistoryMutex sync.Mutex
	archivePageRegexp = regexp.MustCompile(`[?&]p=([0-9]{1,4})`) //video链接的?p=分P序号
)

type parseHistory struct {
	WHERE int
	TIME  int
}

//base58: 123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz

func initParse() {
	if !v.GetBool("parse.enable") {
		log.Info("[parse] 链接解析未启用")
		return
	}
	checkDir(xhsCacheDir())
	log.Info("[parse] 链接解析已启用, 视频时长上限: ", v.GetInt("parse.videoDurationMaximum"), " 秒")
}

// 超长视频只发卡片, 返回非空提示时中止视频发送
func overDurationNotice(duration int, durationMaximum int) string {
	if durationMaximum <= 0 || duration <= durationMaximum {
		return ""
	}
	return fmt.Sprintf("⚠️ 当前视频时长 %d 分钟，超过管理员设置的最长时间 %d 分钟！",
		duration/60, durationMaximum/60)
}

// 同一会话短时间内重复出现的同一链接只解析一次
func shouldParse(id string, ctx *EasyBot.CQMessage) bool {
	duration := int64(v.GetFloat64("parse.settings.sameParseInterval"))
	where := 0
	switch ctx.MessageType {
	case "group":
		where = ctx.GroupID
	case "private":
		where = ctx.UserID
	}
	parseHistoryMutex.Lock()
	defer parseHistoryMutex.Unlock()
	history, ok := parseHistoryList[id]
	if ok && (time.Now().Unix()-int64(history.TIME) < duration) && where == history.WHERE {
		log.Info("[parse] 在 ", where, " 屏蔽了一次小于 ", duration, " 秒的相同解析 ", id)
		return false
	}
	log.Trace("[parse] 记录了一次在 ", where, " 的解析 ", id)
	parseHistoryList[id] = parseHistory{
		where,
		int(time.Now().Unix()),
	}
	return true
}

func extractor(str string) (id string, kind string) {
	dynamicID := regexp.MustCompile(biliLinkRegexp.DYNAMIC).FindAllStringSubmatch(str, -1)
	aid := regexp.MustCompile(biliLinkRegexp.ARCHIVEa).FindAllStringSubmatch(str, -1)
	bvid := regexp.MustCompile(biliLinkRegexp.ARCHIVEb).FindAllStringSubmatch(str, -1)
	cvid := regexp.MustCompile(biliLinkRegexp.ARTICLE).FindAllStringSubmatch(str, -1)
	mlid := regexp.MustCompile(biliLinkRegexp.FAVLIST).FindAllStringSubmatch(str, -1)
	uid := regexp.MustCompile(biliLinkRegexp.SPACE).FindAllStringSubmatch(str, -1)
	roomID := regexp.MustCompile(biliLinkRegexp.LIVE).FindAllStringSubmatch(str, -1)
	log.Trace("[parse] dynamicID: ", dynamicID)
	log.Trace("[parse] aid: ", aid)
	log.Trace("[parse] bvid: ", bvid)
	log.Trace("[parse] cvid: ", cvid)
	log.Trace("[parse] mlid: ", mlid)
	log.Trace("[parse] uid: ", uid)
	log.Trace("[parse] roomID: ", roomID)
	switch {
	case len(dynamicID) > 0:
		log.Debug("[parse] 识别到一个动态, dynamicID[0][2]: ", dynamicID[0][2])
		return dynamicID[0][2], "DYNAMIC"
	case len(aid) > 0:
		log.Debug("[parse] 识别到一个视频(a), aid[0][1]: ", aid[0][1])
		return aid[0][1], "ARCHIVEa"
	case len(bvid) > 0:
		log.Debug("[parse] 识别到一个视频(b), bvid[0][1]: ", bvid[0][1])
		return bvid[0][1], "ARCHIVEb"
	case len(cvid) > 0:
		log.Debug("[parse] 识别到一个专栏, cvid[0][2]: ", cvid[0][2])
		return cvid[0][2], "ARTICLE"
	case len(mlid) > 0: //收藏夹链接同时带uid, 要在空间前判断
		log.Debug("[parse] 识别到一个收藏夹, mlid[0][2]: ", mlid[0][2])
		return mlid[0][2], "FAVLIST"
	case len(uid) > 0:
		log.Debug("[parse] 识别到一个用户空间, uid[0][1]: ", uid[0][1])
		return uid[0][1], "SPACE"
	case len(roomID) > 0:
		log.Debug("[parse] 识别到一个直播, roomID[0][1]: ", roomID[0][1])
		return roomID[0][1], "LIVE"
	default:
		return str, ""
	}
}

func douyinExtractor(str string) (id string, kind string) {
	aweme := regexp.MustCompile(douyinLinkRegexp.AWEME).FindAllStringSubmatch(str, -1)
	modal := regexp.MustCompile(douyinLinkRegexp.MODAL).FindAllStringSubmatch(str, -1)
	log.Trace("[parse] aweme: ", aweme)
	log.Trace("[parse] modal: ", modal)
	if len(aweme) == 0 {
		if len(modal) > 0 {
			log.Debug("[parse] 识别到一个抖音作品, modal[0][1]: ", modal[0][1])
			return modal[0][1], "MODAL"
		}
		return str, ""
	}
	switch aweme[0][1] {
	case "video":
		log.Debug("[parse] 识别到一个抖音视频, aweme[0][2]: ", aweme[0][2])
		return aweme[0][2], "VIDEO"
	case "note":
		log.Debug("[parse] 识别到一个抖音图文, aweme[0][2]: ", aweme[0][2])
		return aweme[0][2], "NOTE"
	case "slides":
		log.Debug("[parse] 识别到一个抖音图集, aweme[0][2]: ", aweme[0][2])
		return aweme[0][2], "SLIDES"
	}
	return str, ""
}

func xhsExtractor(str string) (id string, kind string) {
	item := regexp.MustCompile(xhsLinkRegexp.ITEM).FindAllStringSubmatch(str, -1)
	explore := regexp.MustCompile(xhsLinkRegexp.EXPLORE).FindAllStringSubmatch(str, -1)
	noteID := regexp.MustCompile(xhsLinkRegexp.NOTEID).FindAllStringSubmatch(str, -1)
	log.Trace("[parse] item: ", item)
	log.Trace("[parse] explore: ", explore)
	log.Trace("[parse] noteID: ", noteID)
	switch {
	case len(item) > 0:
		log.Debug("[parse] 识别到一篇小红书笔记, item[0][1]: ", item[0][1])
		return item[0][1], "NOTE"
	case len(explore) > 0:
		log.Debug("[parse] 识别到一篇小红书笔记, explore[0][1]: ", explore[0][1])
		return explore[0][1], "NOTE"
	case len(noteID) > 0:
		log.Debug("[parse] 识别到一篇小红书笔记, noteID[0][1]: ", noteID[0][1])
		return noteID[0][1], "NOTE"
	default:
		return str, ""
	}
}

// 不跟随重定向, 取出Location
func headLocation(url string) (location string, header http.Header) {
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	req, err := http.NewRequest("HEAD", url, nil)
	if err != nil {
		log.Warn("[parse] headLocation() 请求构建失败: ", err)
		return "", nil
	}
	req.Header.Set("User-Agent", iheaders["User-Agent"])
	resp, err := client.Do(req)
	if err != nil {
		log.Warn("[parse] headLocation() 请求失败: ", err)
		return "", nil
	}
	defer resp.Body.Close()
	if len(resp.Header["Location"]) > 0 {
		location = resp.Header["Location"][0]
	}
	return location, resp.Header
}

func deShortLink(slug string) string { //B站短链解析
	location, header := headLocation("https://b23.tv/" + slug)
	if location != "" {
		log.Debug("[parse] 短链解析结果: ", location)
	}
	var statusCode string
	if header != nil && len(header["Bili-Status-Code"]) > 0 {
		statusCode = header["Bili-Status-Code"][0]
	}
	switch statusCode {
	case "-404":
		log.Warn("[parse] 短链解析失败: ", statusCode, "    location: ", location)
		return ""
	}
	return location
}

func deDouyinShort(slug string) string { //抖音短链解析
	location, _ := headLocation("https://v.douyin.com/" + slug + "/")
	if location != "" {
		log.Debug("[parse] 抖音短链解析结果: ", location)
	}
	return location
}

func deXhsShort(slug string) string { //小红书短链解析
	location, _ := headLocation("https://xhslink.com/" + slug)
	if location != "" {
		log.Debug("[parse] 小红书短链解析结果: ", location)
	}
	return location
}

func archivePage(str string) int {
	m := archivePageRegexp.FindAllStringSubmatch(str, -1)
	if len(m) == 0 {
		return 0
	}
	p, _ := strconv.Atoi(m[0][1])
	return p
}

func biliParse(ctx *EasyBot.CQMessage, id string, kind string, page int) { //拿到id直接解析
	if kind == "" {
		return
	}
	if kind != "SHORT" && !shouldParse(id, ctx) {
		return
	}
	switch kind {
	case "DYNAMIC":
		g := getDynamicJson(id)
		if g.Get("code").Int() != 0 {
			ctx.SendMsg(fmt.Sprintf("[ResolveBot] [ERROR] [parse] 动态%s信息获取错误: code%d", id, g.Get("code").Int()))
			return
		}
		ctx.SendMsg(luaRewrite(ctx, "bilibili", formatDynamic(g.Get("data.item"))))
		recordParse(ctx, "bilibili", "动态", id, g.Get("data.item.modules.module_author.name").Str())
	case "ARCHIVEa":
		g, h := getArchiveJsonA(id)
		if g.Get("code").Int() != 0 {
			ctx.SendMsg(fmt.Sprintf("[ResolveBot] [ERROR] [parse] 视频av%s信息获取错误: code%d", id, g.Get("code").Int()))
			return
		}
		sendArchive(ctx, g.Get("data"), h.Get("data"), page)
		recordParse(ctx, "bilibili", "视频", id, g.Get("data.title").Str())
	case "ARCHIVEb":
		g, h := getArchiveJsonB(id)
		if g.Get("code").Int() != 0 {
			ctx.SendMsg(fmt.Sprintf("[ResolveBot] [ERROR] [parse] 视频%s信息获取错误: code%d", id, g.Get("code").Int()))
			return
		}
		sendArchive(ctx, g.Get("data"), h.Get("data"), page)
		recordParse(ctx, "bilibili", "视频", id, g.Get("data.title").Str())
	case "ARTICLE":
		g := getArticleJson(id)
		if g.Get("code").Int() != 0 {
			ctx.SendMsg(fmt.Sprintf("[ResolveBot] [ERROR] [parse] 专栏cv%s信息获取错误: code%d", id, g.Get("code").Int()))
			return
		}
		ctx.SendMsg(luaRewrite(ctx, "bilibili", formatArticle(g.Get("data"), id))) //专栏信息拿不到自身cv号
		recordParse(ctx, "bilibili", "专栏", id, g.Get("data.title").Str())
	case "FAVLIST":
		g := getFavlistJson(id)
		if g.Get("code").Int() != 0 {
			ctx.SendMsg(fmt.Sprintf("[ResolveBot] [ERROR] [parse] 收藏夹%s信息获取错误: code%d", id, g.Get("code").Int()))
			return
		}
		ctx.SendMsg(luaRewrite(ctx, "bilibili", formatFavlist(g.Get("data"))))
		sendFavlistMedias(ctx, getFavlistMediasJson(id))
		recordParse(ctx, "bilibili", "收藏夹", id, g.Get("data.title").Str())
	case "SPACE":
		g := getSpaceJson(id)
		if g.Get("code").Int() != 0 {
			ctx.SendMsg(fmt.Sprintf("[ResolveBot] [ERROR] [parse] 用户%s信息获取错误: code%d", id, g.Get("code").Int()))
			return
		}
		ctx.SendMsg(luaRewrite(ctx, "bilibili", formatSpace(g.Get("data.card"))))
		recordParse(ctx, "bilibili", "用户", id, g.Get("data.card.name").Str())
	case "LIVE":
		uid := strconv.Itoa(getRoomJsonRoomID(id).Get("data.uid").Int())
		if uid == "0" {
			ctx.SendMsg(fmt.Sprintf("[ResolveBot] [ERROR] [parse] 直播间%s信息获取错误, uid == \"0\"", id))
			return
		}
		roomJson := getRoomJsonUID(uid).Gets("data", uid)
		if roomJson.Nil() {
			ctx.SendMsg(fmt.Sprintf("[ResolveBot] [ERROR] [parse] 直播间%s信息获取错误, data.%s == nil", id, uid))
			return
		}
		ctx.SendMsg(luaRewrite(ctx, "bilibili", formatLive(roomJson)))
		recordParse(ctx, "bilibili", "直播间", id, roomJson.Get("uname").Str())
	case "SHORT":
		location := deShortLink(id)
		id, kind := extractor(location)
		biliParse(ctx, id, kind, archivePage(location))
	}
}

func checkParse(ctx *EasyBot.CQMessage) {
	if !v.GetBool("parse.enable") {
		return
	}
	//链接里的&在raw_message里是&amp;
	dispatchParse(ctx, EasyBot.UnescapeString(ctx.GetRawMessageOrMessage()))
}

func dispatchParse(ctx *EasyBot.CQMessage, str string) {
	//B站
	if result := regexp.MustCompile(biliLinkRegexp.SHORT).FindAllStringSubmatch(str, -1); len(result) > 0 {
		slug := result[0][2]
		log.Debug("[parse] 识别到B站短链: ", slug)
		biliParse(ctx, slug, "SHORT", 0)
		return
	}
	if id, kind := extractor(str); kind != "" {
		biliParse(ctx, id, kind, archivePage(str))
		return
	}

	//抖音
	if result := regexp.MustCompile(douyinLinkRegexp.SHORT).FindAllStringSubmatch(str, -1); len(result) > 0 {
		slug := result[0][1]
		log.Debug("[parse] 识别到抖音短链: ", slug)
		if id, kind := douyinExtractor(deDouyinShort(slug)); kind != "" && shouldParse(id, ctx) {
			if kind == "SLIDES" {
				douyinSlidesParse(ctx, id)
			} else {
				douyinParse(ctx, id)
			}
		}
		return
	}
	if id, kind := douyinExtractor(str); kind != "" {
		if shouldParse(id, ctx) {
			if kind == "SLIDES" {
				douyinSlidesParse(ctx, id)
			} else {
				douyinParse(ctx, id)
			}
		}
		return
	}

	//小红书
	if result := regexp.MustCompile(xhsLinkRegexp.SHORT).FindAllStringSubmatch(str, -1); len(result) > 0 {
		slug := result[0][1]
		log.Debug("[parse] 识别到小红书短链: ", slug)
		location := deXhsShort(slug)
		if id, kind := xhsExtractor(location); kind != "" && shouldParse(id, ctx) {
			xhsParse(ctx, id, location) //xsec_token在重定向结果里
		}
		return
	}
	if id, kind := xhsExtractor(str); kind != "" {
		if shouldParse(id, ctx) {
			xhsParse(ctx, id, str)
		}
		return
	}
}
