package main

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/moxcomic/ihttp"
	log "github.com/sirupsen/logrus"
)

// wbi签名 https://socialsisteryi.github.io/bilibili-API-collect/docs/misc/sign/wbi.html
var (
	mixinKeyEncTab = []int{
		46, 47, 18, 2, 53, 8, 23, 32, 15, 50, 10, 31, 58, 3, 45, 35, 27, 43, 5, 49,
		33, 9, 42, 19, 29, 28, 14, 39, 12, 38, 41, 13, 37, 48, 7, 16, 24, 55, 40,
		61, 26, 17, 0, 1, 60, 51, 30, 4, 22, 25, 54, 21, 56, 59, 6, 63, 57, 62, 11,
		36, 20, 34, 44, 52,
	}
	wbiKeys struct {
		sync.Mutex
		imgKey    string
		subKey    string
		updatedAt time.Time
	}
	wbiValueFilter = [...]string{"!", "'", "(", ")", "*"}
)

// SignURL 为请求url补上wts与w_rid参数
func SignURL(urlStr string) string {
	urlObj, err := url.Parse(urlStr)
	if err != nil {
		log.Error("[bilibili] SignURL().url解析失败: ", err)
		return urlStr
	}
	imgKey, subKey := getWbiKeysCached()
	query := urlObj.Query()
	params := map[string]string{}
	for k, v := range query {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	for k, v := range wbiSign(params, imgKey, subKey) {
		query.Set(k, v)
	}
	urlObj.RawQuery = query.Encode()
	return urlObj.String()
}

// key混淆, 取前32位
func getMixinKey(orig string) string {
	var str strings.Builder
	t := 0
	for _, v := range mixinKeyEncTab {
		if v < len(orig) {
			str.WriteByte(orig[v])
			t++
		}
		if t > 31 {
			break
		}
	}
	return str.String()
}

func wbiSign(params map[string]string, imgKey string, subKey string) map[string]string {
	mixinKey := getMixinKey(imgKey + subKey)
	params["wts"] = strconv.FormatInt(time.Now().Unix(), 10)
	keys := make([]string, 0, len(params))
	for k, v := range params {
		for _, c := range wbiValueFilter { //值里的特殊字符不参与签名
			v = strings.ReplaceAll(v, c, "")
		}
		params[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := md5.Sum([]byte(strings.Join(pairs, "&") + mixinKey))
	params["w_rid"] = hex.EncodeToString(sum[:])
	return params
}

// key每日更新, 本地缓存10分钟
func getWbiKeysCached() (imgKey, subKey string) {
	wbiKeys.Lock()
	defer wbiKeys.Unlock()
	if time.Since(wbiKeys.updatedAt).Minutes() > 10 {
		if imgKey, subKey = getWbiKeys(); imgKey != "" {
			wbiKeys.imgKey, wbiKeys.subKey = imgKey, subKey
			wbiKeys.updatedAt = time.Now()
		}
	}
	return wbiKeys.imgKey, wbiKeys.subKey
}

func getWbiKeys() (imgKey, subKey string) {
	navJson, err := ihttp.New().WithUrl("https://api.bilibili.com/x/web-interface/nav").
		WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getWbiKeys().ihttp请求错误: ", err)
		return "", ""
	}
	trimKey := func(u string) string {
		key := u[strings.LastIndex(u, "/")+1:]
		return strings.TrimSuffix(key, filepath.Ext(key))
	}
	return trimKey(navJson.Get("data.wbi_img.img_url").Str()),
		trimKey(navJson.Get("data.wbi_img.sub_url").Str())
}
