package EasyBot

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
	"github.com/ysmood/gson"
	"golang.org/x/net/websocket"
)

type CQBot struct {
	wsUrl       string //WebSocket通信地址
	accessToken string //OneBot access_token, 为空时不鉴权

	Conn     *websocket.Conn //WebSocket连接 (允许直接操作ws连接)
	ConnLost chan struct{}   //连接断开信号

	IsExpectedTermination   bool   //是否为预期中的终止连接
	OnUnexpectedTermination func() //预料之外的断开回调

	selfID     int   //机器人账号
	superUsers []int //超级用户列表

	NickName                    []string       //机器人别称(用于判断IsToMe)
	StartTime                   int64          //此次上线时间
	IsEnableOnlineNotification  bool           //是否启用上线通知
	IsEnableOfflineNotification bool           //是否启用下线通知
	RetryCount                  int            //连接重试次数
	IsHeartbeatChecking         bool           //是否存在心跳监听协程
	IsHeartbeatOK               bool           //是否正常接收到心跳包
	HeartbeatCount              int            //接收心跳包计数
	HeartbeatLostCount          int            //心跳包丢失计数
	HeartbeatInterval           int            //心跳包间隔(ms)
	HeartbeatWaitGroup          sync.WaitGroup //心跳包等待
	Heartbeat                   chan struct{}  //心跳包接收传入通道

	ApiCallTimeOut time.Duration         //调用超时时间
	ApiCallNotice  chan struct{}         //Api调用响应通知
	ApiCallResp    map[string]*CQApiResp //Api调用响应 echo:*CQApiResp
	ACRMutex       sync.Mutex            //Api响应表锁

	blackList *blackList //屏蔽列表 不执行由其触发的消息回调

	MessageTablePrivate map[int]map[int]*CQMessage //私聊消息缓存 UserID:MessageID:*CQMessage
	MTPMutex            sync.Mutex                 //私聊消息表锁
	MessageTableGroup   map[int]map[int]*CQMessage //群聊消息缓存 GroupID:MessageID:*CQMessage
	MTGMutex            sync.Mutex                 //群聊消息表锁

	Log2SU *log2SU    //向管理员发送通知
	Utils  *utilsFunc //小工具

	On struct { //回调
		Message func(*CQMessage)          //消息
		Poke    func(*CQNoticeNotifyPoke) //戳一戳

		RequestFriend func(*CQRequestFriend) //加好友请求
		RequestGroup  func(*CQRequestGroup)  //加群请求/邀请
	}

	log      *logrus.Logger //内部日志输出
	logLevel logrus.Level   //内部日志等级
}

type blackList struct {
	private []int
	group   []int
}

type CQPost struct {
	Bot *CQBot

	Raw map[string]any
}
type CQRecv struct {
	Bot *CQBot

	Raw []byte
}

type CQForwardMsg []CQForwardNode //可以直接用Send(Private/Group)ForwardMsg()发送的
type CQForwardNode map[string]any //单个消息节点, 需要用NewForwardMsg() / AppendForwardMsg()包装成CQForwardMsg才能发送

// 事件
type CQEvent struct {
	Bot  *CQBot
	Recv *CQRecv

	Time   int `json:"time"`
	SelfID int `json:"self_id"`
	//"message"消息, "message_sent"消息发送,
	//"request"请求, "notice"通知, "meta_event"元事件
	PostType string `json:"post_type"`
}

// 消息
type CQMessage struct {
	Bot   *CQBot
	Event *CQEvent

	Time int `json:"time"` //get_msg用的

	//"private"私聊消息, "group"群消息
	MessageType string `json:"message_type"`

	//"friend"好友, "normal"群聊,
	//"group"群临时会话, "notice"系统提示
	SubType string `json:"sub_type"`

	//消息ID
	MessageID int `json:"message_id"`
	//发送者QQ
	UserID int `json:"user_id"`

	//取决于上报格式 string OR []json
	Message any `json:"message"`
	//纯文本(CQ码) /get_msg获取时没有
	RawMessage string `json:"raw_message"`

	//表示消息发送者的信息
	Sender struct {
		UserID   int    `json:"user_id"`
		NickName string `json:"nickname"` //QQ昵称

		GroupID int `json:"group_id"` //临时会话来源

		Role         string `json:"role"`  //"member", "admin", "owner"
		CardName     string `json:"card"`  //群名片
		SpecialTitle string `json:"title"` //专属头衔
	} `json:"sender"`

	//接收者QQ号
	TargetID int `json:"target_id"`
	//临时会话来源
	TempSource int `json:"temp_source"`

	//群号
	GroupID int `json:"group_id"`
	//(为什么文档里没有)
	MessageSeq int `json:"message_seq"`

	//附加数据
	Extra struct {
		TimeFormat string //格式化的时间
	}
}

/*
通知

"notify"系统通知, 其余类型不做处理
*/
type CQNotice struct {
	Bot   *CQBot
	Event *CQEvent

	NoticeType string `json:"notice_type"` //"notify"...
}
type CQNoticeNotify struct { //系统通知
	Notice *CQNotice

	//"poke"戳一戳,
	//"lucky_king"群红包运气王,
	//"honor"群成员荣誉变更
	SubType string `json:"sub_type"`
}
type CQNoticeNotifyPoke struct { //系统通知_戳一戳
	Notify *CQNoticeNotify

	UserID   int `json:"user_id"`
	TargetID int `json:"target_id"`
	SenderID int `json:"sender_id"`

	//for group poke
	GroupID int `json:"group_id"`
}

/*
请求

"friend"加好友请求,

"group"加群请求/邀请
*/
type CQRequest struct {
	Bot   *CQBot
	Event *CQEvent

	RequestType string `json:"request_type"`
}
type CQRequestFriend struct { //加好友请求
	Request *CQRequest

	//发送请求的QQ号
	UserID int `json:"user_id"`
	//验证消息
	Comment string `json:"comment"`
	//请求flag, 在调用处理请求的API时需要传入
	Flag string `json:"flag"`
}
type CQRequestGroup struct { //加群请求/邀请
	Request *CQRequest

	//"add"加群请求, "invite"被邀请加群
	SubType string `json:"sub_type"`

	//群号
	GroupID int `json:"group_id"`
	//发送请求的QQ号
	UserID int `json:"user_id"`
	//验证消息
	Comment string `json:"comment"`
	//请求flag, 在调用处理请求的API时需要传入
	Flag string `json:"flag"`
}

/*
元事件

"heartbeat"心跳包,

"lifecycle"生命周期
*/
type CQMetaEvent struct {
	Bot   *CQBot
	Event *CQEvent

	MetaEventType string `json:"meta_event_type"`
}
type CQMetaEventHeartbeat struct { //心跳包
	MetaEvent *CQMetaEvent

	//距离上一次心跳包的时间(ms)
	Interval int `json:"interval"`

	//状态
	Status struct {
		Online bool `json:"online"` //是否在线
		Good   bool `json:"good"`   //运行正常
	} `json:"status"`
}
type CQMetaEventLifecycle struct { //生命周期
	MetaEvent *CQMetaEvent

	//当前时间戳
	Time int `json:"time"`
	//机器人账号
	SelfID int `json:"self_id"`

	//子类型(恒)"connect"
	SubType string `json:"sub_type"`
}

// API响应
type CQApiResp struct {
	Bot  *CQBot
	Recv *CQRecv

	//规定每次上报都要有echo
	Echo    string         `json:"echo"`
	Status  any            `json:"status"` //响应时是string, 心跳时是map[string]any
	RetCode int            `json:"retcode"`
	Msg     string         `json:"msg"`
	Wording string         `json:"wording"`
	Data    map[string]any `json:"data"`
	raw     []byte
}

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
	e = struct {
		general        error
		noEcho         error
		unknownMsgType error
		noSU           error
		noConnect      error
		needEcho       error
	}{
		general:        errors.New("OCCURRED ERROR"),
		noEcho:         errors.New("CANT GET ECHO"),
		unknownMsgType: errors.New("UNKNOWN MESSAGE TYPE"),
		noSU:           errors.New("AT LEAST ONE SU IS REQUIRED"),
		noConnect:      errors.New("DID NOT CONNECT TO ONEBOT"),
		needEcho:       errors.New("API CALLING MUST BE WITH ECHO"),
	}
)

var (
	unescape = strings.NewReplacer( //反转义还原CQ码
		"&amp;", "&", "&#44;", ",", "&#91;", "[", "&#93;", "]")
)

type log2SU struct {
	bot *CQBot
}

func (l *log2SU) Info(msg ...any) (err error) {
	return l.bot.SendPrivateMsgs(l.bot.superUsers, fmt.Sprint("[Info] ", fmt.Sprint(msg...)))
}
func (l *log2SU) Warn(msg ...any) (err error) {
	return l.bot.SendPrivateMsgs(l.bot.superUsers, fmt.Sprint("[Warn] ", fmt.Sprint(msg...)))
}
func (l *log2SU) Error(msg ...any) (err error) {
	return l.bot.SendPrivateMsgs(l.bot.superUsers, fmt.Sprint("[Error] ", fmt.Sprint(msg...)))
}

// 新建
func New() *CQBot {
	bot := &CQBot{
		blackList: &blackList{
			private: []int{},
			group:   []int{},
		},
	}
	bot.logLevel = logrus.InfoLevel
	bot.log = logrus.New()
	bot.log.SetLevel(bot.logLevel) //默认显示内部日志
	bot.log.SetFormatter(&easy.Formatter{
		TimestampFormat: timeLayout.M24,
		LogFormat:       "[%time%] [%lvl%] %msg%\n",
	})
	bot.Log2SU = &log2SU{
		bot: bot,
	}
	bot.Heartbeat = make(chan struct{})
	bot.ConnLost = make(chan struct{})
	bot.ApiCallTimeOut = time.Second * 60
	bot.ApiCallNotice = make(chan struct{})
	bot.ApiCallResp = make(map[string]*CQApiResp)
	bot.MessageTablePrivate = make(map[int]map[int]*CQMessage)
	bot.MessageTableGroup = make(map[int]map[int]*CQMessage)
	bot.Utils = &utilsFunc{
		Format: &formater{},
	}
	return bot
}

// 设置WebSocket链接
func (bot *CQBot) SetWsUrl(url string) *CQBot {
	matches := regexp.MustCompile(`ws://`).FindAllStringSubmatch(url, -1)
	if len(matches) == 0 {
		url = "ws://" + url
	}
	bot.wsUrl = url
	return bot
}

// 设置access_token, 为空时连接不带鉴权头
func (bot *CQBot) SetAccessToken(token string) *CQBot {
	bot.accessToken = token
	return bot
}

// 获取自身Q号
func (bot *CQBot) GetSelfID() (selfID int) {
	if bot.selfID != 0 {
		return bot.selfID
	}
	bot.log.Debug("[EasyBot] bot.selfID 为 0, 尝试通过 get_login_info 获取selfID")
	selfID, _, err := bot.GetLoginInfo()
	if err != nil {
		bot.log.Error("[EasyBot] GetSelfID().GetLoginInfo()调用失败, err: ", err)
	}
	if !bot.IsHeartbeatOK {
		bot.log.Fatal("[EasyBot] 试图在未连接OneBot时调用bot.GetLoginInfo()")
	}
	return
}

// 添加超级用户
func (bot *CQBot) AddSU(user_ids ...int) *CQBot {
	for _, user_id := range user_ids {
		if user_id != 0 {
			bot.superUsers = append(bot.superUsers, user_id)
		}
	}
	return bot
}

// 移除超级用户, 输入0时清空
func (bot *CQBot) RmSU(user_ids ...int) *CQBot {
	for _, user_id := range user_ids {
		if user_id == 0 {
			bot.superUsers = []int{}
			return bot
		}
		bot.superUsers = deleteValueInSlice[int](bot.superUsers, user_id)
	}
	return bot
}

// 获取超级用户
func (bot *CQBot) GetSU() []int {
	return bot.superUsers
}

// 添加机器人别称(用于判断IsToMe), 重连/热重载会重复添加, 去个重
func (bot *CQBot) AddNickName(names ...string) *CQBot {
next:
	for _, name := range names {
		if name == "" {
			continue
		}
		for _, exist := range bot.NickName {
			if exist == name {
				continue next
			}
		}
		bot.NickName = append(bot.NickName, name)
	}
	return bot
}

// 获取机器人别称
func (bot *CQBot) GetNickName() []string {
	return bot.NickName
}

// 设置日志等级
func (bot *CQBot) SetLogLevel(level logrus.Level) *CQBot {
	bot.logLevel = level
	bot.log.SetLevel(bot.logLevel)
	return bot
}

// 上线通知
func (bot *CQBot) EnableOnlineNotification(enable bool) *CQBot {
	bot.IsEnableOnlineNotification = enable
	return bot
}

// 下线通知
func (bot *CQBot) EnableOfflineNotification(enable bool) *CQBot {
	bot.IsEnableOfflineNotification = enable
	return bot
}

// 添加私聊屏蔽
func (bot *CQBot) AddPrivateBan(user_ids ...int) *CQBot {
	for _, user_id := range user_ids {
		if user_id != 0 {
			bot.log.Info("[EasyBot] 向私聊屏蔽列表中加入了 ", user_id)
			bot.blackList.private = append(bot.blackList.private, user_id)
		}
	}
	return bot
}

// 移除私聊屏蔽, 输入0时清空
func (bot *CQBot) RmPrivateBan(user_ids ...int) *CQBot {
	for _, user_id := range user_ids {
		if user_id == 0 {
			bot.log.Info("[EasyBot] 清空了私聊屏蔽列表")
			bot.blackList.private = []int{}
			return bot
		}
		bot.log.Info("[EasyBot] 从私聊屏蔽列表中移除了 ", user_id)
		bot.blackList.private = deleteValueInSlice[int](bot.blackList.private, user_id)
	}
	return bot
}

// 获取私聊屏蔽列表
func (bot *CQBot) GetPrivateBan() []int {
	return bot.blackList.private
}

// 添加群聊屏蔽
func (bot *CQBot) AddGroupBan(group_ids ...int) *CQBot {
	for _, group_id := range group_ids {
		if group_id != 0 {
			bot.log.Info("[EasyBot] 向群聊屏蔽列表中加入了 ", group_id)
			bot.blackList.group = append(bot.blackList.group, group_id)
		}
	}
	return bot
}

// 移除群聊屏蔽, 输入0时清空
func (bot *CQBot) RmGroupBan(group_ids ...int) *CQBot {
	for _, group_id := range group_ids {
		if group_id == 0 {
			bot.log.Info("[EasyBot] 清空了群聊屏蔽列表")
			bot.blackList.group = []int{}
			return bot
		}
		bot.log.Info("[EasyBot] 从群聊屏蔽列表中移除了 ", group_id)
		bot.blackList.group = deleteValueInSlice[int](bot.blackList.group, group_id)
	}
	return bot
}

// 获取群聊屏蔽列表
func (bot *CQBot) GetGroupBan() []int {
	return bot.blackList.group
}

/*
预料之外的断开, 触发的前提是收到了第一个心跳包

e.g.:

	func() {
		bot.Connect(true)
	}
*/
func (bot *CQBot) OnTerminateUnexpectedly(f func()) *CQBot {
	bot.OnUnexpectedTermination = f
	return bot
}

// 接收消息
func (bot *CQBot) OnMessage(f func(*CQMessage)) *CQBot {
	bot.On.Message = f
	return bot
}

// 戳一戳
func (bot *CQBot) OnPoke(f func(*CQNoticeNotifyPoke)) *CQBot {
	bot.On.Poke = f
	return bot
}

// 加好友请求
func (bot *CQBot) OnRequestFriend(f func(*CQRequestFriend)) *CQBot {
	bot.On.RequestFriend = f
	return bot
}

// 加群请求/邀请
func (bot *CQBot) OnRequestGroup(f func(*CQRequestGroup)) *CQBot {
	bot.On.RequestGroup = f
	return bot
}

func (bot *CQBot) GetRunningTime() int64 {
	return time.Now().Unix() - bot.StartTime
}

// 断开连接
func (bot *CQBot) Disconnect() {
	if bot.IsEnableOfflineNotification {
		_ = bot.Log2SU.Info("[EasyBot] 已下线")
	}
	<-time.After(time.Millisecond * 100)
	bot.IsExpectedTermination = true
	if bot.Conn != nil {
		bot.Conn.Close()
	}
}

/*
连接OneBot实现

autoRetry 为 true 时会自动尝试重连 (每5s)

不传入 retryCount 或 retryCount[0] <= 0 时视为无限重试

传入多个 retryCount 只认第一个
*/
func (bot *CQBot) Connect(autoRetry bool, retryCount ...int) (err error) {
	if bot.wsUrl == "" {
		bot.log.Fatal("EMPTY WEBSOCKET URL")
	}
	if len(bot.superUsers) == 0 {
		return e.noSU
	}
	bot.IsExpectedTermination = false
	isInfinite := func() bool {
		if len(retryCount) > 0 {
			return retryCount[0] == 0
		}
		return len(retryCount) == 0
	}()

	config, err := websocket.NewConfig(bot.wsUrl, "http://127.0.0.1")
	if err != nil {
		bot.log.Error("[EasyBot] ws配置构建失败, err: ", err)
		return
	}
	if bot.accessToken != "" {
		config.Header.Set("Authorization", "Bearer "+bot.accessToken)
	}

retryLoop:
	c, err := websocket.DialConfig(config)
	if err != nil {
		bot.log.Error("[EasyBot] 建立ws连接失败, err: ", err)

		if autoRetry {

			if isInfinite {
				bot.log.Warn("[EasyBot] 将在 5 秒后重试")
				time.Sleep(time.Second * 5)
				goto retryLoop
			}

			if retryCount[0]--; retryCount[0] >= 0 {
				bot.log.Warn("[EasyBot] 将在 5 秒后重试 (", retryCount[0], " )")
				time.Sleep(time.Second * 5)
				goto retryLoop
			}

		}

		return
	}

	bot.log.Info("[EasyBot] 建立ws连接成功")
	bot.StartTime = time.Now().Unix()
	bot.IsHeartbeatOK = true
	bot.Conn = c
	if bot.IsEnableOnlineNotification {
		_ = bot.Log2SU.Info("[EasyBot] 已上线")
	}
	go bot.recvLoop()
	bot.initSelfInfo()
	return
}

func (bot *CQBot) initSelfInfo() {
	selfID, selfNickName, err := bot.GetLoginInfo()
	if err != nil {
		bot.log.Fatal("[EasyBot] 初始化账号信息失败, err: ", err)
	}
	bot.log.Info("[EasyBot] 获取账号信息: ", selfNickName, "(", selfID, ")")
	bot.selfID = selfID
	bot.AddNickName(selfNickName) //用来识别假at
}

func (bot *CQBot) recvLoop() {
	defer func() {
		close(bot.ConnLost)
		bot.ConnLost = make(chan struct{})
	}()
	bot.HeartbeatWaitGroup.Add(1) //等待心跳包获取间隔
	go bot.heartbeatLoop()
	for {
		dataReceived := &CQRecv{
			Bot: bot,
		}
		err := websocket.Message.Receive(bot.Conn, &dataReceived.Raw)
		if !bot.IsHeartbeatOK {
			bot.log.Error("[EasyBot] ws连接意外终止 !IsHeartbeatOK")
			return
		}
		if err == io.EOF {
			if !bot.IsExpectedTermination {
				bot.log.Error("[EasyBot] ws连接意外终止 err == io.EOF")
			}
			return
		}
		if err != nil {
			if !bot.IsExpectedTermination {
				bot.log.Error("[EasyBot] ws连接出错 err: ", err)
			}
			return
		}

		go bot.handleRecv(dataReceived)
	}
}

// 上报数据
func (bot *CQBot) PostData(pData *CQPost) error {
	if bot.IsHeartbeatOK {
		bData, err := json.Marshal(pData.Raw)
		if err != nil {
			bot.log.Warn("[EasyBot] 序列化出错(json.Marshal(pData.Raw)), err: ", err,
				"\n    post.Raw: ", pData.Raw,
				"\n    Marshal by gson: ", gson.New(pData.Raw).JSON("", ""))
			return err
		}
		bot.log.Trace("[EasyBot] rawPost: ", string(bData))
		go bot.Conn.Write(bData)
		return nil
	}
	bot.log.Error("[EasyBot] 未连接到OneBot实现!")
	return e.noConnect
}

// 下发处理
func (bot *CQBot) handleRecv(recv *CQRecv) {
	bot.log.Trace("[EasyBot] rawRecv: ", string(recv.Raw))
	var err error

	apiResp := &CQApiResp{
		Bot:  bot,
		Recv: recv,
	}

	err = json.Unmarshal(recv.Raw, apiResp)
	if err != nil {
		bot.log.Warn("[EasyBot] 反序列化出错(CQApiResp), 跳过处理, err: ", err,
			"\n    recv.Raw: ", string(recv.Raw),
			"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
		return
	}

	if apiResp.Echo != "" { //规定Api调用必须有echo, 非空即为调用了Api
		apiResp.raw = recv.Raw
		bot.ACRMutex.Lock()
		bot.ApiCallResp[apiResp.Echo] = apiResp
		notice := bot.ApiCallNotice
		bot.ApiCallNotice = make(chan struct{})
		bot.ACRMutex.Unlock()
		bot.log.Debug("[EasyBot] echo: ", apiResp.Echo)
		close(notice) //通知收到了新的Api调用响应
		return
	}

	event := &CQEvent{
		Bot:  bot,
		Recv: recv,
	}

	err = json.Unmarshal(recv.Raw, event)
	if err != nil {
		bot.log.Warn("[EasyBot] 反序列化出错(Event), 跳过处理, err: ", err,
			"\n    recv.Raw: ", string(recv.Raw),
			"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
		return
	}

	switch event.PostType {
	case "message":
		msg := &CQMessage{
			Bot:   bot,
			Event: event,
		}

		err = json.Unmarshal(recv.Raw, msg)
		if err != nil {
			bot.log.Warn("[EasyBot] 反序列化出错(Event.Message), 跳过处理, err: ", err,
				"\n    recv.Raw: ", string(recv.Raw),
				"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
			return
		}

		msg.TrimSpace() //手机端命令前后容易带上空白

		isBanned := bot.isBannedPrivate(msg.UserID) || bot.isBannedGroup(msg.GroupID)

		if msg.UserID != bot.selfID {
			ban := func() string {
				if isBanned {
					return "(Filtered)"
				}
				return ""
			}()
			switch msg.MessageType {
			case "private":
				bot.log.Info("[EasyBot] ", ban, "收到 ",
					msg.Sender.NickName, "(", msg.UserID, ") 的消息(",
					msg.MessageID, "): ", msg.RawMessage)
			case "group":
				bot.log.Info("[EasyBot] ", ban, "在 ", msg.GroupID, " 收到 ",
					msg.Sender.CardName, "(", msg.Sender.NickName, " ", msg.UserID, ") 的群聊消息(",
					msg.MessageID, "): ", msg.RawMessage)
			}
		} else {
			bot.log.Info("[EasyBot] 收到机器人账号发送的消息(", msg.MessageID, "): ", msg.RawMessage)
		}

		go bot.saveMsg(msg)

		//回调vvvvvvvv
		if !isBanned {
			if bot.On.Message != nil {
				go bot.On.Message(msg)
			}
		}

	case "request":
		request := &CQRequest{
			Bot:   bot,
			Event: event,
		}

		err = json.Unmarshal(recv.Raw, request)
		if err != nil {
			bot.log.Warn("[EasyBot] 反序列化出错(Event.Request), 跳过处理, err: ", err,
				"\n    recv.Raw: ", string(recv.Raw),
				"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
			return
		}

		switch request.RequestType {
		case "friend":
			friend := &CQRequestFriend{
				Request: request,
			}

			err = json.Unmarshal(recv.Raw, friend)
			if err != nil {
				bot.log.Warn("[EasyBot] 反序列化出错(Event.Request.Friend), 跳过处理, err: ", err,
					"\n    recv.Raw: ", string(recv.Raw),
					"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
				return
			}

			bot.log.Info("[EasyBot] 收到 ", friend.UserID, " 的好友申请")

			//回调vvvvvvvv
			if bot.On.RequestFriend != nil {
				go bot.On.RequestFriend(friend)
			}

		case "group":
			group := &CQRequestGroup{
				Request: request,
			}

			err = json.Unmarshal(recv.Raw, group)
			if err != nil {
				bot.log.Warn("[EasyBot] 反序列化出错(Event.Request.Group), 跳过处理, err: ", err,
					"\n    recv.Raw: ", string(recv.Raw),
					"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
				return
			}

			switch group.SubType {
			case "add":
				bot.log.Info("[EasyBot] 群 ", group.GroupID, " 收到 ", group.UserID, " 的加群申请, 验证消息: ", group.Comment)
			case "invite":
				bot.log.Info("[EasyBot] 好友 ", group.UserID, " 邀请机器人加入群 ", group.GroupID)
			}

			//回调vvvvvvvv
			if bot.On.RequestGroup != nil {
				go bot.On.RequestGroup(group)
			}

		}
	case "notice":
		notice := &CQNotice{
			Bot:   bot,
			Event: event,
		}

		err = json.Unmarshal(recv.Raw, notice)
		if err != nil {
			bot.log.Warn("[EasyBot] 反序列化出错(Event.Notice), 跳过处理, err: ", err,
				"\n    recv.Raw: ", string(recv.Raw),
				"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
			return
		}

		switch notice.NoticeType {
		case "notify": //系统通知
			notify := &CQNoticeNotify{
				Notice: notice,
			}

			err = json.Unmarshal(recv.Raw, notify)
			if err != nil {
				bot.log.Warn("[EasyBot] 反序列化出错(Event.Notice.Notify), 跳过处理, err: ", err,
					"\n    recv.Raw: ", string(recv.Raw),
					"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
				return
			}

			switch notify.SubType {
			case "poke":
				poke := &CQNoticeNotifyPoke{
					Notify: notify,
				}

				err = json.Unmarshal(recv.Raw, poke)
				if err != nil {
					bot.log.Warn("[EasyBot] 反序列化出错(Event.Notice.Notify.Poke), 跳过处理, err: ", err,
						"\n    recv.Raw: ", string(recv.Raw),
						"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
					return
				}

				bot.log.Info("[EasyBot] ", poke.SenderID, " 戳了戳 ", poke.TargetID)

				//回调vvvvvvvv
				if bot.On.Poke != nil {
					go bot.On.Poke(poke)
				}

			default:
				bot.log.Debug("[EasyBot] Unhandled Event.Notice.Notify: ", notify.SubType)
			}
		default:
			bot.log.Debug("[EasyBot] Unhandled Event.Notice: ", notice.NoticeType)
		}
	case "meta_event": //元事件
		metaEvent := &CQMetaEvent{
			Bot:   bot,
			Event: event,
		}

		err = json.Unmarshal(recv.Raw, metaEvent)
		if err != nil {
			bot.log.Warn("[EasyBot] 反序列化出错(Event.MetaEvent), 跳过处理, err: ", err,
				"\n    recv.Raw: ", string(recv.Raw),
				"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
			return
		}

		switch metaEvent.MetaEventType {
		case "heartbeat":
			heartbeat := &CQMetaEventHeartbeat{
				MetaEvent: metaEvent,
			}

			err = json.Unmarshal(recv.Raw, heartbeat)
			if err != nil {
				bot.log.Warn("[EasyBot] 反序列化出错(Event.MetaEvent.Heartbeat), 跳过处理, err: ", err,
					"\n    recv.Raw: ", string(recv.Raw),
					"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
				return
			}

			bot.log.Debug("[EasyBot] Heartbeat: ", heartbeat.Interval)
			go bot.handleHeartbeat(heartbeat)

		case "lifecycle":
			lifecycle := &CQMetaEventLifecycle{
				MetaEvent: metaEvent,
			}

			err = json.Unmarshal(recv.Raw, lifecycle)
			if err != nil {
				bot.log.Warn("[EasyBot] 反序列化出错(Event.MetaEvent.Lifecycle), 跳过处理, err: ", err,
					"\n    recv.Raw: ", string(recv.Raw),
					"\n    Unmarshal by gson: ", gson.New(recv.Raw).JSON("", ""))
				return
			}

			bot.log.Info("[EasyBot] Lifecycle: ", string(recv.Raw))
			go bot.handleLifecycle(lifecycle)

		default:
			bot.log.Debug("[EasyBot] Unhandled Event.MetaEvent: ", metaEvent.MetaEventType)
		}
	default:
		bot.log.Debug("[EasyBot] Unhandled Event: ", event.PostType)
	}
}

// 屏蔽私聊检测
func (bot *CQBot) isBannedPrivate(uid int) bool {
	for _, bannedUid := range bot.blackList.private {
		if bannedUid == uid {
			return true
		}
	}
	return false
}

// 屏蔽群聊检测
func (bot *CQBot) isBannedGroup(gid int) bool {
	for _, bannedGid := range bot.blackList.group {
		if bannedGid == gid {
			return true
		}
	}
	return false
}

// 消息缓存
func (bot *CQBot) saveMsg(msg *CQMessage) {
	msg.Extra.TimeFormat = time.Unix(int64(msg.Event.Time), 0).Format(timeLayout.T24)
	switch msg.MessageType {
	case "group":
		bot.MTGMutex.Lock()
		if bot.MessageTableGroup[msg.GroupID] == nil {
			bot.MessageTableGroup[msg.GroupID] = make(map[int]*CQMessage)
		}
		bot.MessageTableGroup[msg.GroupID][msg.MessageID] = msg
		bot.MTGMutex.Unlock()
	case "private":
		bot.MTPMutex.Lock()
		if bot.MessageTablePrivate[msg.UserID] == nil {
			bot.MessageTablePrivate[msg.UserID] = make(map[int]*CQMessage)
		}
		bot.MessageTablePrivate[msg.UserID][msg.MessageID] = msg
		bot.MTPMutex.Unlock()
	}
}

// 心跳
func (bot *CQBot) handleHeartbeat(hb *CQMetaEventHeartbeat) {
	bot.IsHeartbeatOK = true
	bot.HeartbeatInterval = hb.Interval
	if !bot.IsHeartbeatChecking {
		bot.HeartbeatWaitGroup.Done()
	}
	bot.Heartbeat <- struct{}{}
}

// 生命周期
func (bot *CQBot) handleLifecycle(lc *CQMetaEventLifecycle) {
	if lc.SelfID == 0 {
		bot.log.Error("[EasyBot] Unexpected Error: 'lc.SelfID == 0' in '(bot *CQBot) handleLifecycle()'")
	}
}

// 心跳监听
func (bot *CQBot) heartbeatLoop() {
	if bot.IsHeartbeatChecking {
		return
	}
	if bot.HeartbeatInterval == 0 {
		bot.HeartbeatWaitGroup.Wait()
	}

	bot.IsHeartbeatChecking = true
	bot.log.Info("[EasyBot] 开始监听 OneBot 心跳")
	defer func() {
		bot.IsHeartbeatChecking = false
		bot.IsHeartbeatOK = false
		if !bot.IsExpectedTermination {
			bot.OnUnexpectedTermination()
		}
	}()

	for {
		select {
		case <-bot.Heartbeat:
			bot.HeartbeatCount++
			bot.log.Debug("[EasyBot] 心跳接收#", bot.HeartbeatCount)
			continue
		case <-time.After(time.Millisecond * time.Duration(bot.HeartbeatInterval+500)):
			bot.HeartbeatLostCount++
			if bot.HeartbeatLostCount > 2 {
				bot.log.Error("[EasyBot] 心跳超时 ", bot.HeartbeatLostCount, " 次, 丢弃连接")
				bot.HeartbeatLostCount = 0
				bot.Conn.Close()
				return
			}
			bot.log.Error("[EasyBot] 心跳超时#", bot.HeartbeatLostCount)
		case <-bot.ConnLost:
			if !bot.IsExpectedTermination {
				bot.log.Error("[EasyBot] ws连接丢失")
			} else {
				bot.log.Info("[EasyBot] 主动断开了ws连接")
			}
			return
		}
	}
}

func (bot *CQBot) newApiCalling(action, echo string) *CQPost {
	return &CQPost{
		Bot: bot,
		Raw: map[string]any{
			"action": action,
			"echo":   echo,
		},
	}
}

// 调用API
func (bot *CQBot) CallApi(post *CQPost) (err error) {
	if post.Raw["echo"] == "" {
		bot.log.Error("[EasyBot] 需要向 CallApi() 传入 echo")
		err = e.needEcho
		return
	}
	err = bot.PostData(post)
	if err != nil {
		return err
	}
	echoChan := make(chan *CQApiResp)
	go func() {
		for {
			bot.ACRMutex.Lock()
			notice := bot.ApiCallNotice
			resp := bot.ApiCallResp[post.Raw["echo"].(string)]
			bot.ACRMutex.Unlock()
			if resp != nil {
				bot.log.Debug("[EasyBot] 成功取到api调用echo")
				echoChan <- resp
				return
			}
			select {
			case <-notice:
			case <-time.After(bot.ApiCallTimeOut):
				bot.log.Error("[EasyBot] 监听echo超时")
				return
			}
		}
	}()
	select {
	case resp := <-echoChan:
		switch {
		case resp.RetCode == 0 && resp.Status == "ok":
			bot.log.Debug("[EasyBot] Api ", post.Raw["action"], " 调用成功")
		case resp.RetCode == 1 && resp.Status == "async":
			bot.log.Debug("[EasyBot] Api ", post.Raw["action"], " 已经提交异步处理")
		case resp.RetCode != 0 || resp.Msg != "" || resp.Wording != "":
			err = errors.New("[EasyBot] Api " + post.Raw["action"].(string) + " 调用失败: " + resp.Msg + " " + resp.Wording)
			bot.log.Error(err)
		}
	case <-time.After(bot.ApiCallTimeOut):
		err = errors.New("[EasyBot] Api " + post.Raw["action"].(string) + " 调用超时")
		bot.log.Error(err)
	}
	return
}

// 调用API并监听echo
func (bot *CQBot) CallApiAndListenEcho(post *CQPost, echo string) (resp *CQApiResp, err error) {
	if err = bot.CallApi(post); err != nil {
		return nil, err
	}
	bot.ACRMutex.Lock()
	resp = bot.ApiCallResp[echo]
	bot.ACRMutex.Unlock()
	if resp == nil {
		return nil, e.noEcho
	}
	return
}

// 优先从内存中读取缓存的私聊消息, 没有时调取/get_msg api
func (bot *CQBot) FetchPrivateMsg(user_id, message_id int) (msg *CQMessage, err error) {
	bot.MTPMutex.Lock()
	if table := bot.MessageTablePrivate[user_id]; table != nil {
		msg = table[message_id]
	}
	bot.MTPMutex.Unlock()
	if msg != nil {
		return msg, nil
	}
	return bot.GetMsg(message_id)
}

// 优先从内存中读取缓存的群消息, 没有时调取/get_msg api
func (bot *CQBot) FetchGroupMsg(group_id, message_id int) (msg *CQMessage, err error) {
	bot.MTGMutex.Lock()
	if table := bot.MessageTableGroup[group_id]; table != nil {
		msg = table[message_id]
	}
	bot.MTGMutex.Unlock()
	if msg != nil {
		return msg, nil
	}
	return bot.GetMsg(message_id)
}

type loginInfo struct {
	UserID   int    `json:"user_id"`
	NickName string `json:"nickname"`
}

// 获取登录号信息
func (bot *CQBot) GetLoginInfo() (user_id int, nickname string, err error) {
	action := "get_login_info"
	echo := genEcho(action)
	p := bot.newApiCalling(action, echo)

	resp, err := bot.CallApiAndListenEcho(p, echo)
	if err != nil {
		return 0, "", err
	}
	respByte, err := json.Marshal(resp.Data)
	if err != nil {
		bot.log.Warn("[EasyBot] 序列化出错(json.Marshal(resp.Data)), err: ", err,
			"\n    resp.Data: ", resp.Data,
			"\n    Marshal by gson: ", gson.New(resp.Data).JSON("", ""))
		return 0, "", err
	}
	loginInfo := &loginInfo{}
	err = json.Unmarshal(respByte, loginInfo)
	if err != nil {
		bot.log.Warn("[EasyBot] 反序列化出错(json.Unmarshal(respByte, loginInfo)), err: ", err,
			"\n    respByte: ", string(respByte),
			"\n    Unmarshal by gson: ", gson.New(respByte).JSON("", ""))
		return 0, "", err
	}

	return loginInfo.UserID, loginInfo.NickName, nil
}

/*
从OneBot实现获取消息

需要注意: 通过此api调用返回的消息, 只存在"message"字段, 不存在raw_message字段, 可以再过一遍GetRawMessageOrMessage()
*/
func (bot *CQBot) GetMsg(message_id int) (msg *CQMessage, err error) {
	action := "get_msg"
	echo := genEcho(action)
	p := bot.newApiCalling(action, echo)

	params := map[string]any{
		"message_id": message_id,
	}
	p.Raw["params"] = params

	resp, err := bot.CallApiAndListenEcho(p, echo)
	if err != nil {
		return nil, err
	}
	respByte, err := json.Marshal(resp.Data)
	if err != nil {
		bot.log.Warn("[EasyBot] 序列化出错(json.Marshal(resp.Data)), err: ", err,
			"\n    resp.Data: ", resp.Data,
			"\n    Marshal by gson: ", gson.New(resp.Data).JSON("", ""))
		return nil, err
	}
	msg = &CQMessage{
		Bot: bot,
	}
	err = json.Unmarshal(respByte, msg)
	if err != nil {
		bot.log.Warn("[EasyBot] 反序列化出错(json.Unmarshal(respByte, msg)), err: ", err,
			"\n    respByte: ", string(respByte),
			"\n    Unmarshal by gson: ", gson.New(respByte).JSON("", ""))
		return nil, err
	}
	return
}

/*
发送私聊消息

otherParams:

0: group_id(int) //主动发起临时会话时的来源群号

1: auto_escape(bool) //不解析CQ码
*/
func (bot *CQBot) SendPrivateMsg(user_id int, message any, otherParams ...any) (err error) {
	action := "send_private_msg"
	echo := genEcho(action)
	p := bot.newApiCalling(action, echo)

	params := map[string]any{
		"user_id": user_id,
		"message": message,
	}
	switch len(otherParams) {
	case 2:
		params["auto_escape"] = otherParams[1]
		fallthrough
	case 1:
		params["group_id"] = otherParams[0]
	case 0:
	default:
		bot.log.Error("[EasyBot] SendPrivateMsg() 非法的选参数量, 取消执行")
		return
	}
	p.Raw["params"] = params

	_, err = bot.CallApiAndListenEcho(p, echo)
	return
}

// SendPrivateMsg的批量操作, 中途发生错误不会中止
func (bot *CQBot) SendPrivateMsgs(user_ids []int, message any, otherParams ...any) (err error) {
	failed := 0
	for _, user_id := range user_ids {
		if sendErr := bot.SendPrivateMsg(user_id, message, otherParams...); sendErr != nil {
			bot.log.Error("[EasyBot] SendPrivateMsgs(", user_id, "): ", sendErr)
			failed++
		}
	}
	if failed > 0 {
		return e.general
	}
	return nil
}

/*
发送群聊消息

otherParams:

0: auto_escape(bool) //不解析CQ码
*/
func (bot *CQBot) SendGroupMsg(group_id int, message any, otherParams ...any) (err error) {
	action := "send_group_msg"
	echo := genEcho(action)
	p := bot.newApiCalling(action, echo)

	params := map[string]any{
		"group_id": group_id,
		"message":  message,
	}
	switch len(otherParams) {
	case 1:
		params["auto_escape"] = otherParams[0]
	case 0:
	default:
		bot.log.Error("[EasyBot] SendGroupMsg() 非法的选参数量, 取消执行")
		return
	}
	p.Raw["params"] = params

	_, err = bot.CallApiAndListenEcho(p, echo)
	return
}

/*
创建合并转发消息节点

	type nodeData struct { //标准的合并转发消息节点
		name    string //消息发送者名字
		uin     int    //消息发送者头像
		content string //自定义消息内容
		time    int64  //秒级时间戳(为0时使用当前时间)
		seq     int64  //起始消息序号(为0时不上报)
	}
*/
func NewForwardNode(name string, uin int, content string, timestamp, seq int64) CQForwardNode {
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}
	node := CQForwardNode{
		"type": "node",
		"data": map[string]any{
			"name":    name,
			"uin":     uin,
			"content": content,
			"time":    timestamp,
		},
	}
	if seq != 0 {
		node["seq"] = seq
	}
	return node
}

/*
对合并转发消息追加消息节点

也可以塞个 nil 然后当 NewForwardMsg() 用
*/
func AppendForwardMsg(forwardMsg CQForwardMsg, nodes ...CQForwardNode) CQForwardMsg {
	return append(forwardMsg, nodes...)
}

// 合并多个消息节点, 创建合并转发消息
func NewForwardMsg(nodes ...CQForwardNode) CQForwardMsg {
	return AppendForwardMsg(nil, nodes...)
}

/*
快速创建合并转发消息

所有 content 沿用同一其他参数
*/
func FastNewForwardMsg(name string, uin int, timestamp, seq int64, content ...string) CQForwardMsg {
	var forwardMsg CQForwardMsg
	if len(content) == 0 {
		return nil
	}
	for _, content_ := range content {
		forwardMsg = AppendForwardMsg(forwardMsg,
			NewForwardNode(name, uin, content_, timestamp, seq))
	}
	return forwardMsg
}

// 发送私聊合并转发消息
func (bot *CQBot) SendPrivateForwardMsg(user_id int, nodes CQForwardMsg) (err error) {
	action := "send_private_forward_msg"
	echo := genEcho(action)
	p := bot.newApiCalling(action, echo)

	params := map[string]any{
		"user_id":  user_id,
		"messages": nodes,
	}
	p.Raw["params"] = params

	_, err = bot.CallApiAndListenEcho(p, echo)
	return
}

// 发送群聊合并转发消息
func (bot *CQBot) SendGroupForwardMsg(group_id int, nodes CQForwardMsg) (err error) {
	action := "send_group_forward_msg"
	echo := genEcho(action)
	p := bot.newApiCalling(action, echo)

	params := map[string]any{
		"group_id": group_id,
		"messages": nodes,
	}
	p.Raw["params"] = params

	_, err = bot.CallApiAndListenEcho(p, echo)
	return
}

// 某些途径获取到的消息体可能不存在message_raw字段, 比如/get_msg api
func (ctx *CQMessage) GetRawMessageOrMessage() string {
	if ctx.RawMessage != "" {
		return ctx.RawMessage
	}
	return fmt.Sprint(ctx.Message)
}

/*
	return regexp.MustCompile(exp).FindAllStringSubmatch(ctx.GetRawMessageOrMessage(), -1)

正则完全匹配
*/
func (ctx *CQMessage) RegexpMustCompile(exp string) [][]string {
	return regexp.MustCompile(exp).FindAllStringSubmatch(ctx.GetRawMessageOrMessage(), -1)
}

/*
	return reg.FindAllStringSubmatch(ctx.GetRawMessageOrMessage(), -1)

已编译正则匹配
*/
func (ctx *CQMessage) RegFindAllStringSubmatch(reg *regexp.Regexp) [][]string {
	return reg.FindAllStringSubmatch(ctx.GetRawMessageOrMessage(), -1)
}

/*
	return strings.Contains(ctx.GetRawMessageOrMessage(), substr)

字符串包含
*/
func (ctx *CQMessage) StringsContains(substr string) bool {
	return strings.Contains(ctx.GetRawMessageOrMessage(), substr)
}

// 匹配超级用户
func (ctx *CQMessage) IsSU() bool {
	for _, su := range ctx.Bot.superUsers {
		if ctx.UserID == su {
			return true
		}
	}
	return false
}

/*
	return ctx.MessageType == "private"

匹配消息来源
*/
func (ctx *CQMessage) IsPrivate() bool {
	return ctx.MessageType == "private"
}

/*
	return ctx.IsPrivate() && ctx.IsSU()

匹配消息来源
*/
func (ctx *CQMessage) IsPrivateSU() bool {
	return ctx.IsPrivate() && ctx.IsSU()
}

/*
是否提及了Bot ( 回复、at、bot别名、私聊 )
*/
func (ctx *CQMessage) IsToMe() bool {
	isReplyMe := func() bool {
		replyMsg, err := ctx.GetReplyedMsg()
		if err != nil {
			return false
		}
		return replyMsg.UserID == ctx.Bot.selfID
	}()

	isAtMe := func() bool {
		match := ctx.RegexpMustCompile(fmt.Sprintf(`\[CQ:at,qq=%d]`, ctx.Bot.selfID))
		return len(match) > 0
	}()

	isCallMe := func() bool {
		for _, n := range ctx.Bot.NickName {
			if ctx.StringsContains(n) {
				return true
			}
		}
		return false
	}()

	return isReplyMe || isAtMe || isCallMe || ctx.IsPrivate() //私聊永远都是
}

// 是否为json卡片消息
func (ctx *CQMessage) IsJsonMsg() bool {
	msg := ctx.GetRawMessageOrMessage()
	if len(msg) < 8 {
		return false
	}
	return msg[1:8] == "CQ:json"
}

// 获取回复的消息
func (ctx *CQMessage) GetReplyedMsg() (replyedMsg *CQMessage, err error) {
	matches := ctx.RegexpMustCompile(`\[CQ:reply,id=(-?[0-9]*)]`)
	if len(matches) == 0 {
		return nil, errors.New("NO REPLY MESSAGE")
	}
	replyId, _ := strconv.Atoi(matches[0][1])
	switch ctx.MessageType {
	case "private":
		return ctx.Bot.FetchPrivateMsg(ctx.UserID, replyId)
	case "group":
		return ctx.Bot.FetchGroupMsg(ctx.GroupID, replyId)
	default:
		return nil, e.unknownMsgType
	}
}

// 上下文发送消息
func (ctx *CQMessage) SendMsg(message ...any) (err error) {
	switch ctx.MessageType {
	case "private":
		return ctx.Bot.SendPrivateMsg(ctx.UserID, fmt.Sprint(message...))
	case "group":
		return ctx.Bot.SendGroupMsg(ctx.GroupID, fmt.Sprint(message...))
	default:
		return e.unknownMsgType
	}
}

// 上下文回复消息
func (ctx *CQMessage) SendMsgReply(message ...any) (err error) {
	return ctx.SendMsg(ctx.Bot.Utils.Format.Reply(ctx.MessageID), fmt.Sprint(message...))
}

// 上下文发送合并转发消息
func (ctx *CQMessage) SendForwardMsg(nodes CQForwardMsg) (err error) {
	switch ctx.MessageType {
	case "private":
		return ctx.Bot.SendPrivateForwardMsg(ctx.UserID, nodes)
	case "group":
		return ctx.Bot.SendGroupForwardMsg(ctx.GroupID, nodes)
	default:
		return e.unknownMsgType
	}
}

// 对RawMessage进行反转义, 没有的话从Message取
func (ctx *CQMessage) Unescape() *CQMessage {
	ctx.RawMessage = unescape.Replace(ctx.GetRawMessageOrMessage())
	return ctx
}

// 反转义CQ码字符串
func UnescapeString(s string) string {
	return unescape.Replace(s)
}

// 清理多余的空格、换行
func (ctx *CQMessage) TrimSpace() *CQMessage {
	ctx.RawMessage = strings.TrimSpace(ctx.GetRawMessageOrMessage())
	return ctx
}

// 小工具
type utilsFunc struct {
	Format *formater
}

// 格式化为CQ码
type formater struct{}

// fmt.Sprintf("[CQ:reply,id=%d]", id)
func (f *formater) Reply(id int) string {
	return fmt.Sprintf("[CQ:reply,id=%d]", id)
}

// fmt.Sprintf("[CQ:at,qq=%d]", qq)
func (f *formater) At(qq int) string {
	return fmt.Sprintf("[CQ:at,qq=%d]", qq)
}

func (f *formater) ImageUrl(url string) string {
	return "[CQ:image,file=" + url + "]"
}

// 将图片数据以base64的方式编码至CQcode
func (f *formater) Image(data []byte) string {
	return f.ImageBase64(base64.StdEncoding.EncodeToString(data))
}

func (f *formater) ImageBase64(b64 string) string {
	return "[CQ:image,file=base64://" + b64 + "]"
}

// 视频直链编码至CQcode, 由OneBot实现负责拉取
func (f *formater) VideoUrl(url string) string {
	return "[CQ:video,file=" + url + "]"
}

func genEcho(prefix string) string {
	return prefix + "_" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

func deleteValueInSlice[T comparable](slice []T, value T) []T {
	for i := 0; i < len(slice); i++ {
		if slice[i] == value {
			if len(slice) == 1 {
				return []T{}
			}
			slice = append(slice[:i], slice[i+1:]...)
			i--
		}
	}
	return slice
}
