package main

import (
	"ResolveBot/EasyBot"
	"ResolveBot/SimpleLogFormatter"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"strings"
	"syscall"
	"time"
	"unsafe"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

//go:embed default_config.yml
var defaultConfig string

var (
	timeLayout = struct {
		L24  string
		L24C string
		M24  string
		M24C string
		S24  string
		S24C string
		T24  string
		T24C string
	}{
		L24:  "2006/01/02 15:04:05",
		L24C: "2006年01月02日15时04分05秒",
		M24:  "01/02 15:04:05",
		M24C: "01月02日15时04分05秒",
		S24:  "02 15:04:05",
		S24C: "02日15时04分05秒",
		T24:  "15:04:05",
		T24C: "15时04分05秒",
	}
	iheaders = map[string]string{
		"Accept":             "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
		"Accept-Language":    "zh-CN,zh;q=0.9,en;q=0.8,en-GB;q=0.7,en-US;q=0.6",
		"Dnt":                "1",
		"Origin":             "https://www.bilibili.com",
		"Referer":            "https://www.bilibili.com/",
		"Sec-Ch-Ua":          "\"Not/A)Brand\";v=\"24\", \"Microsoft Edge\";v=\"116\", \"Chromium\";v=\"116\"",
		"Sec-Ch-Ua-Mobile":   "?0",
		"Sec-Ch-Ua-Platform": "\"Windows\"",
		"Sec-Fetch-Dest":     "document",
		"Sec-Fetch-Mode":     "navigate",
		"Sec-Fetch-Site":     "none",
		"Sec-Fetch-User":     "?1",
		"User-Agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36 Edg/116.0.1938.62",
	}

	startTime         = time.Now().Unix()
	mainBlock         = make(chan os.Signal) //main阻塞
	v                 = viper.New()          //配置体
	customConfigPath  = ""                   //自定义配置文件路径
	configUpdateCount = 0                    //
	bot               = EasyBot.New()        //BOT
)

func main() {
	log.SetLevel(log.TraceLevel)
	log.SetFormatter(&easy.Formatter{
		TimestampFormat: timeLayout.M24,
		LogFormat:       "[%time%] [%lvl%] %msg%\n",
	})

	initFlag()
	initConfig()

	bot.
		SetLogLevel(log.TraceLevel).
		EnableOnlineNotification(true).
		EnableOfflineNotification(false).
		OnTerminateUnexpectedly(func() {
			bot.RetryCount++
			bot.Connect(true)
		}).
		OnMessage(func(msg *EasyBot.CQMessage) {
			handleMessage(msg)
		}).
		OnRequestFriend(func(rf *EasyBot.CQRequestFriend) {
			handleRequestFriend(rf)
		}).
		OnRequestGroup(func(rg *EasyBot.CQRequestGroup) {
			handleRequestGroup(rg)
		}).
		OnPoke(func(pk *EasyBot.CQNoticeNotifyPoke) {
			handlePoke(pk)
		})

	err := bot.Connect(true)
	if err != nil {
		log.Error("bot.Connect err: ", err)
	}
	defer bot.Disconnect()

	initModules()
	exitJobs()
}

// 初始化启动参数
func initFlag() {
	c := flag.String("c", "", "配置文件路径, 默认为./config.yml")
	flag.Parse()
	if *c != "" {
		customConfigPath = *c
	}
}

// 初始化配置
func initConfig() {
	before := func() { //只执行一次
		if customConfigPath == "" {
			log.Info("[Init] 读取默认配置文件: ./config.yml")
			v.SetConfigFile("./config.yml")
		} else {
			log.Info("[Init] 读取自定义配置文件: ", customConfigPath)
			v.SetConfigFile(customConfigPath)
		}
		if err := v.ReadInConfig(); err != nil {
			if err = os.WriteFile("./config.yml", []byte(defaultConfig), 0664); err != nil {
				log.Fatal("[Init] 尝试写入默认配置文件时发生错误: ", err)
			}
			log.Info("[Init] 缺失配置文件, 已生成默认配置, 请修改保存后重启程序")
			os.Exit(0)
		}

		//容器里塞环境变量比改配置文件方便
		v.BindEnv("parse.bilibili.sessdata", "BILI_SESSDATA")
		v.BindEnv("parse.douyin.cookie", "DOUYIN_CK")
		v.BindEnv("parse.xiaohongshu.cookie", "XHS_CK")
		v.BindEnv("parse.videoDurationMaximum", "VIDEO_DURATION_MAXIMUM")
	}

	after := func() { //热更新也执行
		if configUpdateCount > 0 { //重载时清掉旧名单再读, 不然会越叠越多
			bot.RmSU(0).RmPrivateBan(0).RmGroupBan(0)
		}
		log.SetLevel(log.Level(v.GetInt("main.logLevel")))
		if v.GetBool("main.logFancy") {
			log.SetFormatter(&SimpleLogFormatter.LogFormat{})
		} else {
			log.SetFormatter(&easy.Formatter{
				TimestampFormat: timeLayout.M24,
				LogFormat:       "[%time%] [%lvl%] %msg%\n",
			})
		}

		bot.SetWsUrl(v.GetString("main.wsUrl"))
		bot.SetAccessToken(v.GetString("main.accessToken"))

		if suList := v.GetStringSlice("main.superUsers"); len(suList) > 0 {
			for _, each := range suList { //[]string to []int
				if each == "" {
					continue
				}
				su, err := strconv.Atoi(each)
				if err != nil {
					log.Fatal("[Init] main.superUsers 内容格式有误 err: ", err)
				}
				bot.AddSU(su)
			}
			log.Info("[Init] superUsers: ", bot.GetSU())
		} else {
			log.Fatal("[Init] 请指定至少一个超级用户")
		}

		if nickName := v.GetStringSlice("main.nickName"); len(nickName) > 0 {
			bot.AddNickName(nickName...)
			log.Info("[Init] 机器人别称: ", bot.GetNickName())
		}

		if privateBanList := v.GetStringSlice("main.ban.private"); len(privateBanList) > 0 {
			for _, each := range privateBanList {
				if each == "" {
					continue
				}
				uid, err := strconv.Atoi(each)
				if err != nil {
					log.Fatal("[Init] main.ban.private 内容格式有误 err: ", err)
				}
				bot.AddPrivateBan(uid)
			}
			log.Info("[Init] 私聊屏蔽列表: ", bot.GetPrivateBan())
		}

		if groupBanList := v.GetStringSlice("main.ban.group"); len(groupBanList) > 0 {
			for _, each := range groupBanList {
				if each == "" {
					continue
				}
				gid, err := strconv.Atoi(each)
				if err != nil {
					log.Fatal("[Init] main.ban.group 内容格式有误 err: ", err)
				}
				bot.AddGroupBan(gid)
			}
			log.Info("[Init] 群聊屏蔽列表: ", bot.GetGroupBan())
		}

	}

	if configUpdateCount == 0 {
		before()
		after()
		v.WatchConfig()
		v.OnConfigChange(onConfigChange)
	} else {
		after()
	}
	configUpdateCount++
}

func initModules() {
	initLogin()
	initCookies()
	initParse()
	initHistory()
	initLuaHook()
}

// 结束运行前报告
func exitJobs() {
	signal.Notify(mainBlock, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	<-mainBlock
	runTime := formatTime(bot.GetRunningTime())
	err := bot.Log2SU.Info("[Exit]",
		"\n此次运行时长：", runTime,
		"\n", formatParseCount(),
		"\n心跳包接收计数：", bot.HeartbeatCount,
		"\n心跳包丢失计数：", bot.HeartbeatLostCount,
		"\nOneBot重连计数：", bot.RetryCount)
	log.Info("[Exit] 此次运行时长: ", runTime)
	log.Info("[Exit] ", formatParseCount())
	log.Info("[Exit] 心跳包接收计数: ", bot.HeartbeatCount)
	log.Info("[Exit] 心跳包丢失计数: ", bot.HeartbeatLostCount)
	log.Info("[Exit] OneBot重连计数: ", bot.RetryCount)
	if err != nil {
		log.Error("[Exit] 下线消息发送失败, err: ", err)
	}
}

func handleMessage(msg *EasyBot.CQMessage) {
	go func(ctx *EasyBot.CQMessage) {
		go checkContextPutIn(ctx)
		go checkCardParse(ctx)
		go checkParse(ctx)
		go checkConclusion(ctx)
		go checkBiliLogin(ctx)
		go checkCookies(ctx)
		go checkHistory(ctx)
		go checkInfo(ctx)
		go checkHelp(ctx)
		go checkQRCode(ctx)
		go checkLuaHook(ctx)
	}(msg)
}

func handleRequestFriend(rf *EasyBot.CQRequestFriend) {
	bot.Log2SU.Info("[ResolveBot] 收到来自 ", rf.UserID, " 的好友请求：", rf.Comment)
}

// 加群请求/邀请
func handleRequestGroup(rg *EasyBot.CQRequestGroup) {
	switch rg.SubType {
	case "add":
		bot.Log2SU.Info("[ResolveBot] 群", rg.GroupID, "收到了来自", rg.UserID, "的加群申请：", rg.Comment)
	case "invite":
		bot.Log2SU.Info("[ResolveBot] 被", rg.UserID, "邀请至群", rg.GroupID)
	}
}

// 戳一戳
func handlePoke(pk *EasyBot.CQNoticeNotifyPoke) {
	if pk.TargetID == bot.GetSelfID() && pk.SenderID != pk.TargetID && pk.GroupID != 0 {
		bot.SendGroupMsg(pk.GroupID, "[ResolveBot] at我并发送\"帮助\"可以获取使用说明～")
	}
}

// 格式化秒级时间戳至 时分秒 x:x:x
func formatTimeSimple(timestamp int64) (format string) {
	h := (timestamp / (60 * 60)) % 24
	m := (timestamp / 60) % 60
	s := timestamp % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// 格式化秒级时间戳至 x天x小时x分钟x秒
func formatTime(timestamp int64) (format string) {
	if timestamp == 0 {
		return "0秒"
	}
	itoa := func(i int64) string {
		return strconv.Itoa(int(i))
	}
	days := timestamp / (24 * 60 * 60)
	hours := (timestamp / (60 * 60)) % 24
	minutes := (timestamp / 60) % 60
	seconds := timestamp % 60
	switch {
	case days > 0:
		format += itoa(days) + "天"
		fallthrough
	case hours > 0:
		format += itoa(hours) + "小时"
		fallthrough
	case minutes > 0:
		format += itoa(minutes) + "分钟"
		fallthrough
	default:
		if seconds != 0 {
			format += itoa(seconds) + "秒"
		}
	}
	return format
}

// 格式化毫秒级时间戳至 x天x小时x分钟x秒x毫秒
func formatTimeMs(timestamp int64) (format string) {
	if timestamp == 0 {
		return "0毫秒"
	}
	itoa := func(i int64) string {
		return strconv.Itoa(int(i))
	}
	milliseconds := timestamp % 1000
	seconds := (timestamp / 1000) % 60
	minutes := (timestamp / (1000 * 60)) % 60
	hours := (timestamp / (1000 * 60 * 60)) % 24
	days := timestamp / (1000 * 60 * 60 * 24)
	switch {
	case days > 0:
		format += itoa(days) + "天"
		fallthrough
	case hours > 0:
		format += itoa(hours) + "小时"
		fallthrough
	case minutes > 0:
		format += itoa(minutes) + "分钟"
		fallthrough
	case seconds > 0:
		format += itoa(seconds) + "秒"
		fallthrough
	default:
		if milliseconds != 0 {
			format += itoa(milliseconds) + "毫秒"
		}
	}
	return format
}

func formatNumber(number float64, decimalSave int, trimTailZeros bool) string {
	symbol := fmt.Sprint("%." + strconv.Itoa(decimalSave) + "f")
	s := fmt.Sprintf(symbol, number)
	if trimTailZeros {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// BytesToString 没有内存开销的转换
// https://github.com/wdvxdr1123/ZeroBot/blob/main/utils/helper/helper.go
func BytesToString(b []byte) (s string) {
	return *(*string)(unsafe.Pointer(&b))
}

// StringToBytes 没有内存开销的转换
// https://github.com/wdvxdr1123/ZeroBot/blob/main/utils/helper/helper.go
func StringToBytes(s string) (b []byte) {
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh := (*reflect.StringHeader)(unsafe.Pointer(&s))
	bh.Data = sh.Data
	bh.Len = sh.Len
	bh.Cap = sh.Len
	return b
}

func checkDir(path string) (err error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		err = os.MkdirAll(path, 0755)
		if err != nil {
			log.Error("无法创建文件夹: ", err)
		} else {
			log.Info("文件夹 ", path, " 创建成功")
		}
	} else {
		log.Debug("文件夹 ", path, " 已存在")
	}
	return
}
