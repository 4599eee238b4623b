package main

import (
	"ResolveBot/EasyBot"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"regexp"
	"strings"
	"time"

	b16384 "github.com/fumiama/go-base16384"
	"github.com/moxcomic/ihttp"
	log "github.com/sirupsen/logrus"
)

type BiliIdentity struct {
	Cookie       string `json:"cookie"`
	RefreshToken string `json:"refresh_token"`
}

const (
	biliIdentityPath = "bilibili.dat"
)

var (
	biliIdentity = BiliIdentity{}
)

func saveBiliIdentity(bi BiliIdentity) {
	s, err := json.Marshal(&bi)
	if err != nil {
		log.Error("[bilibili] saveBiliIdentity marshal error: ", err)
		return
	}
	_ = os.Remove(biliIdentityPath)
	// err = os.WriteFile(biliIdentityPath, StringToBytes(base64.StdEncoding.EncodeToString(s)), 0o664)
	err = os.WriteFile(biliIdentityPath, b16384.Encode(s), 0o664)
	if err != nil {
		log.Error("[bilibili] saveBiliIdentity write error: ", err)
		return
	}
}

func initLogin() {
	if !v.GetBool("login.autoLogin") {
		log.Info("[bilibili] 自动登录未启用")
		return
	}
	readBiliIdentity()
}

func readBiliIdentity() {
	raw, err := os.ReadFile(biliIdentityPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("[bilibili] 未找到 ", biliIdentityPath, ", 可向bot私聊发送\"扫码登录\"")
		} else {
			log.Error("[bilibili] readBiliIdentity read error: ", err)
		}
		return
	}
	// s, _ := base64.StdEncoding.DecodeString(BytesToString(raw))
	s := b16384.Decode(raw)
	err = json.Unmarshal(s, &biliIdentity)
	if err != nil {
		log.Error("[bilibili] readBiliIdentity unmarshal error: ", err)
		return
	}
	log.Trace("[bilibili] biliIdentity: ", biliIdentity)
}

func checkBiliLogin(ctx *EasyBot.CQMessage) {
	if !ctx.IsPrivateSU() {
		return
	}
	matches := ctx.RegFindAllStringSubmatch(regexp.MustCompile(`(查看|保存|check|view|save)\s*(饼干|cookie)`))
	if len(matches) > 0 {
		switch matches[0][1] {
		case "查看", "check", "view":
			ctx.SendMsg(biliIdentity.Cookie, "\n\n", biliIdentity.RefreshToken)
		case "保存", "save":
			saveBiliIdentity(biliIdentity)
		}
	}
	matches = ctx.RegFindAllStringSubmatch(regexp.MustCompile("扫码登[录陆]"))
	if len(matches) == 0 {
		return
	}

	login, err := RequestLoginQR()
	if err != nil {
		ctx.SendMsg("获取二维码失败！\n", err)
		return
	}
	qrc, _ := NewQRcode().With(login.Url, 512)
	ctx.SendMsg(bot.Utils.Format.ImageBase64(qrc.ToBase64()))
	ctx.SendMsg("请在3分钟内扫码, 发送\"取消\"中止")

	pollCtx, cancelPoll := context.WithCancel(context.Background())
	defer cancelPoll()
	go newMsgContext(pollCtx, int64(ctx.MessageID), nil, func(msg *EasyBot.CQMessage) (isDone bool) {
		if msg.UserID != ctx.UserID || msg.MessageType != "private" {
			return false
		}
		if len(msg.RegFindAllStringSubmatch(regexp.MustCompile(`^\s*(取消|cancel)\s*$`))) == 0 {
			return false
		}
		cancelPoll()
		return true
	}, nil)

	startTime := time.Now()
	errC := 0
	scanedSended := false
	for {
		scan, err := PollQRScan(login.QrcodeKey)
		if err != nil {
			errC++
			if errC >= 3 {
				ctx.SendMsg("轮询出现错误#", errC, "\n操作取消")
				return
			}
			ctx.SendMsg("轮询出现错误#", errC, "\n", err)
		}

		if scan != nil {
			switch scan.Code {
			case 0: //已扫码并确认
				log.Info("[bilibili] 已扫码并确认")
				ctx.SendMsg("确认成功")
				biliIdentity = BiliIdentity{
					Cookie:       scan.Cookie,
					RefreshToken: scan.RefreshToken,
				}
				saveBiliIdentity(biliIdentity)
				return
			case 86101: //未扫码
			case 86090: //已扫码未确认
				log.Info("[bilibili] 已扫码未确认")
				if !scanedSended {
					ctx.SendMsg("已扫码")
					scanedSended = true
				}
			case 86038: //二维码已失效
				log.Info("[bilibili] 二维码已失效")
				ctx.SendMsg("二维码已失效")
				return
			default:
				log.Error("[bilibili] checkBiliLogin() unknown code: ", scan.Code)
				ctx.SendMsg("接口返回了未知状态码：", scan.Code, "\n操作取消")
				return
			}
		}

		if time.Since(startTime) > 181*time.Second {
			ctx.SendMsg("操作超时")
			return
		}

		select {
		case <-pollCtx.Done():
			ctx.SendMsg("已取消")
			return
		case <-time.After(time.Second):
		}
	}
}

const publicKeyPem = `-----BEGIN PUBLIC KEY-----
MIGfMA0GCSqGSIb3DQEBAQUAA4GNADCBiQKBgQDLgd2OAkcGVtoE3ThUREbio0Eg
Uc/prcajMKXvkCKFCWhJYJcLkcM2DKKcSeFpD/j6Boy538YXnR6VhcuUJOhH2x71
nzPjfdTcqMz7djHum0qSZA0AyCBDABUqCrfNgCiJ00Ra7GmRj+YCK1NJEuewlb40
JNrRuoEUXpabUzGB8QIDAQAB
-----END PUBLIC KEY-----`

func getCorrespondPath() (encryptedHex string) {
	// 解析公钥
	block, _ := pem.Decode([]byte(publicKeyPem))
	if block == nil {
		log.Error("Failed to parse PEM block containing the public key")
		return
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		log.Error("Failed to parse DER encoded public key: ", err)
		return
	}
	pubKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		log.Error("Failed to parse public key")
		return
	}

	// 毫秒时间戳加密出刷新路径, label留空对齐WebCrypto
	ts := time.Now().UnixMilli()
	rng := rand.Reader
	message := []byte(fmt.Sprintf("refresh_%d", ts))

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rng, pubKey, message, nil)
	if err != nil {
		log.Error("Error encrypting: ", err)
		return
	}

	encryptedHex = hex.EncodeToString(ciphertext)
	return
}

// 检测cookie有效性
func validateCookie(cookie string) bool {
	g, err := ihttp.New().WithUrl("https://passport.bilibili.com/x/passport-login/web/cookie/info").
		WithHeaders(iheaders).WithCookie(cookie).
		Get().ToGson()
	if err != nil {
		log.Error("[bilibili] validateCookie().ihttp请求错误: ", err)
	}
	switch g.Get("code").Int() {
	case 0:
		return true
	case -101:
		log.Error("[bilibili] cookie已过期")
		_ = bot.Log2SU.Error("[bilibili] cookie已过期")
		return false
	default:
		log.Error("[bilibili] 非正常cookie状态: ", g.JSON("", ""))
		_ = bot.Log2SU.Error("[bilibili] 非正常cookie状态：", g.JSON("", ""))
		return false
	}
}

type BiliApiResp struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	TTL     int            `json:"ttl"`
	Data    map[string]any `json:"data"`
}

// 登录态接口要读Set-Cookie, ihttp不暴露响应头, 这组包装用net/http
func CallBiliApi(url string, params map[string]any) (resp *BiliApiResp, headers map[string]string, err error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, nil, err
	}
	query := req.URL.Query()
	for k, val := range params {
		query.Set(k, fmt.Sprint(val))
	}
	req.URL.RawQuery = query.Encode()
	return doBiliApiReq(req)
}

func callBiliApiPost(url string, form map[string]any) (resp *BiliApiResp, headers map[string]string, err error) {
	values := neturl.Values{}
	for k, val := range form {
		values.Set(k, fmt.Sprint(val))
	}
	req, err := http.NewRequest("POST", url, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return doBiliApiReq(req)
}

func doBiliApiReq(req *http.Request) (resp *BiliApiResp, headers map[string]string, err error) {
	for k, val := range iheaders {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, val)
		}
	}
	if c := biliCookie(); c != "" {
		req.Header.Set("Cookie", c)
	}
	httpResp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer httpResp.Body.Close()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, nil, err
	}
	resp = &BiliApiResp{}
	if err = json.Unmarshal(body, resp); err != nil {
		return nil, nil, err
	}
	headers = map[string]string{}
	for k := range httpResp.Header {
		headers[k] = httpResp.Header.Get(k)
	}
	//Set-Cookie可能有多条, 拼成能直接携带的cookie串
	cookies := []string{}
	for _, c := range httpResp.Cookies() {
		cookies = append(cookies, c.Name+"="+c.Value)
	}
	headers["Set-Cookie"] = strings.Join(cookies, "; ")
	return resp, headers, nil
}

type LoginQRScan struct {
	Url          string `json:"url"`
	RefreshToken string `json:"refresh_token"`
	Timestamp    int    `json:"timestamp"`
	Code         int    `json:"code"`
	Message      string `json:"message"`
	Cookie       string `json:"cookie"`
}

// 外层code==0不保证data形状, 扫码状态码缺失时报错而不是panic
func newLoginQRScan(data map[string]any, cookie string) (*LoginQRScan, error) {
	code, ok := data["code"].(float64)
	if !ok {
		return nil, fmt.Errorf("异常的扫码状态data: %v", data)
	}
	timestamp, _ := data["timestamp"].(float64)
	return &LoginQRScan{
		Url:          fmt.Sprint(data["url"]),
		RefreshToken: fmt.Sprint(data["refresh_token"]),
		Timestamp:    int(timestamp),
		Code:         int(code),
		Message:      fmt.Sprint(data["message"]),
		Cookie:       cookie,
	}, nil
}

func PollQRScan(qrcodeKey string) (scanState *LoginQRScan, err error) {
	resp, headers, err := CallBiliApi(
		"https://passport.bilibili.com/x/passport-login/web/qrcode/poll", map[string]any{
			"qrcode_key": qrcodeKey,
		},
	)
	if err != nil {
		return nil, err
	}
	if resp.Code != 0 || resp.Data == nil {
		return nil, fmt.Errorf("code%d: %s", resp.Code, resp.Message)
	}
	return newLoginQRScan(resp.Data, headers["Set-Cookie"])
}

type LoginQRCode struct {
	Url       string `json:"url"`
	QrcodeKey string `json:"qrcode_key"`
}

func RequestLoginQR() (*LoginQRCode, error) {
	resp, _, err := CallBiliApi("https://passport.bilibili.com/x/passport-login/web/qrcode/generate", nil)
	if err != nil {
		return nil, err
	}
	if resp.Code != 0 || resp.Data == nil {
		return nil, fmt.Errorf("code%d: %s", resp.Code, resp.Message)
	}
	return &LoginQRCode{
		Url:       fmt.Sprint(resp.Data["url"]),
		QrcodeKey: fmt.Sprint(resp.Data["qrcode_key"]),
	}, nil
}
