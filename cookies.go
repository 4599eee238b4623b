package main

import (
	"ResolveBot/EasyBot"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fsnotify/fsnotify"
	"github.com/moxcomic/ihttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	sidecarCookies      = map[string]string{}
	sidecarCookiesMutex sync.RWMutex
)

func sidecarCookie(platform string) string {
	sidecarCookiesMutex.RLock()
	defer sidecarCookiesMutex.RUnlock()
	return sidecarCookies[platform]
}

// 边车文件里的值优先于config.yml, 轮换Cookie不用动主配置
func loadCookiesFile(path string) {
	sc := viper.New()
	sc.SetConfigFile(path)
	if err := sc.ReadInConfig(); err != nil {
		log.Warn("[parse] Cookie边车文件读取失败: ", err)
		return
	}
	sidecarCookiesMutex.Lock()
	sidecarCookies = map[string]string{
		"bilibili":    sc.GetString("bilibili"),
		"douyin":      sc.GetString("douyin"),
		"xiaohongshu": sc.GetString("xiaohongshu"),
	}
	sidecarCookiesMutex.Unlock()
	log.Info("[parse] Cookie边车文件已加载: ", path)
}

// 扫码登录的完整cookie优先, 否则退回边车文件和配置里的SESSDATA
func biliCookie() string {
	if biliIdentity.Cookie != "" {
		return biliIdentity.Cookie
	}
	if c := sidecarCookie("bilibili"); c != "" {
		return c
	}
	if sessdata := v.GetString("parse.bilibili.sessdata"); sessdata != "" {
		return "SESSDATA=" + sessdata
	}
	return ""
}

func douyinCookie() string {
	if c := sidecarCookie("douyin"); c != "" {
		return c
	}
	return v.GetString("parse.douyin.cookie")
}

func xhsCookie() string {
	if c := sidecarCookie("xiaohongshu"); c != "" {
		return c
	}
	return v.GetString("parse.xiaohongshu.cookie")
}

func biliLoginUID() (uid int) {
	matches := regexp.MustCompile(`DedeUserID=([0-9]+)`).FindStringSubmatch(biliCookie())
	if len(matches) > 1 {
		uid, _ = strconv.Atoi(matches[1])
	}
	return
}

func biliJct() string {
	matches := regexp.MustCompile(`bili_jct=([0-9a-zA-Z]+)`).FindStringSubmatch(biliCookie())
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

func initCookies() {
	if biliCookie() != "" {
		log.Info("[bilibili] 登录账号uid: ", biliLoginUID())
	} else {
		log.Warn("[bilibili] 未配置B站cookie, 建议扫码登录或设置SESSDATA")
	}
	if douyinCookie() == "" {
		log.Warn("[parse] 未配置抖音cookie, 无法获取无水印内容")
	}
	if xhsCookie() == "" {
		log.Warn("[parse] 未配置小红书cookie, 无法解析小红书笔记")
	}
	WatchFile(biliIdentityPath, func(event fsnotify.Event) {
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		log.Info("[bilibili] ", biliIdentityPath, " 发生变化, 重新读取")
		readBiliIdentity()
	})
	if path := v.GetString("parse.cookiesFile"); path != "" {
		loadCookiesFile(path)
		WatchFile(path, debounce(time.Second, func() {
			log.Info("[parse] Cookie边车文件有更新, 重新读取")
			loadCookiesFile(path)
		}))
	}
	go cookieMonitor()
}

// 定期检查cookie有效性, 失效时尝试用refresh_token刷新
func cookieMonitor() {
	for {
		time.Sleep(time.Hour * 12)
		if biliCookie() == "" {
			continue
		}
		if validateCookie(biliCookie()) {
			log.Debug("[bilibili] cookie有效性检查通过")
			continue
		}
		if err := refreshBiliCookie(); err != nil {
			log.Error("[bilibili] cookie自动刷新失败: ", err)
			_ = bot.Log2SU.Error("[bilibili] cookie自动刷新失败：", err)
			continue
		}
		_ = bot.Log2SU.Info("[bilibili] cookie已自动刷新")
	}
}

// cookie刷新流程 https://socialsisteryi.github.io/bilibili-API-collect/docs/login/cookie_refresh.html
func refreshBiliCookie() error {
	if biliIdentity.RefreshToken == "" {
		return errors.New("没有refresh_token, 请重新扫码登录")
	}
	oldToken := biliIdentity.RefreshToken
	oldCsrf := biliJct()
	correspondPath := getCorrespondPath()
	if correspondPath == "" {
		return errors.New("correspondPath生成失败")
	}
	html, err := ihttp.New().WithUrl("https://www.bilibili.com/correspond/1/"+correspondPath).
		WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToString()
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return err
	}
	refreshCsrf := doc.Find("#1-name").Text() //页面里只有一个<div id="1-name">
	if refreshCsrf == "" {
		return errors.New("refresh_csrf获取失败")
	}
	resp, headers, err := callBiliApiPost(
		"https://passport.bilibili.com/x/passport-login/web/cookie/refresh", map[string]any{
			"csrf":          oldCsrf,
			"refresh_csrf":  refreshCsrf,
			"source":        "main_web",
			"refresh_token": oldToken,
		})
	if err != nil {
		return err
	}
	if resp.Code != 0 {
		return fmt.Errorf("cookie刷新失败: code%d %s", resp.Code, resp.Message)
	}
	biliIdentity = BiliIdentity{
		Cookie:       headers["Set-Cookie"],
		RefreshToken: fmt.Sprint(resp.Data["refresh_token"]),
	}
	saveBiliIdentity(biliIdentity)
	//新csrf确认一下, 旧token才会真正失效
	resp, _, err = callBiliApiPost(
		"https://passport.bilibili.com/x/passport-login/web/confirm/refresh", map[string]any{
			"csrf":          biliJct(),
			"refresh_token": oldToken,
		})
	if err != nil {
		return err
	}
	if resp.Code != 0 {
		return fmt.Errorf("旧refresh_token确认失败: code%d %s", resp.Code, resp.Message)
	}
	log.Info("[bilibili] cookie刷新完成, uid: ", biliLoginUID())
	return nil
}

// SU私聊查询饼干状态/手动刷新
func checkCookies(ctx *EasyBot.CQMessage) {
	if !ctx.IsPrivateSU() {
		return
	}
	if len(ctx.RegFindAllStringSubmatch(regexp.MustCompile(`^\s*(饼干|cookie)状态\s*$`))) > 0 {
		var bili string
		switch {
		case biliCookie() == "":
			bili = "B站：未配置"
		case validateCookie(biliCookie()):
			bili = fmt.Sprintf("B站：有效, uid: %d", biliLoginUID())
		default:
			bili = "B站：已失效"
		}
		douyin := "抖音：未配置"
		if douyinCookie() != "" {
			douyin = "抖音：已配置"
		}
		xhs := "小红书：未配置"
		if xhsCookie() != "" {
			xhs = "小红书：已配置"
		}
		ctx.SendMsg(bili, "\n", douyin, "\n", xhs)
		return
	}
	if len(ctx.RegFindAllStringSubmatch(regexp.MustCompile(`^\s*刷新(饼干|cookie)\s*$`))) > 0 {
		if err := refreshBiliCookie(); err != nil {
			ctx.SendMsg("刷新失败：", err)
			return
		}
		ctx.SendMsg("刷新成功, uid: ", biliLoginUID())
	}
}
