package main

import (
	"ResolveBot/EasyBot"
	"fmt"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// 单条解析记录
type parseRecord struct {
	platform string //bilibili / douyin / xiaohongshu
	kind     string //视频 / 动态 / 专栏 / 用户 / 直播间 / 图文...
	id       string
	title    string
	where    string
	time     int64
}

var (
	parseRecords      []parseRecord
	parseRecordsMutex sync.Mutex
	parseCount        = map[string]int{} //platform : 次数
)

func initHistory() {
	log.Info("[history] 解析记录已启用")
}

// 解析成功后记一条
func recordParse(ctx *EasyBot.CQMessage, platform string, kind string, id string, title string) {
	where := ""
	switch ctx.MessageType {
	case "group":
		where = fmt.Sprint("群", ctx.GroupID)
	case "private":
		where = fmt.Sprint("私聊", ctx.UserID)
	}
	parseRecordsMutex.Lock()
	defer parseRecordsMutex.Unlock()
	parseRecords = append(parseRecords, parseRecord{
		platform: platform,
		kind:     kind,
		id:       id,
		title:    title,
		where:    where,
		time:     time.Now().Unix(),
	})
	if len(parseRecords) > 1000 { //只留最近的
		parseRecords = parseRecords[len(parseRecords)-1000:]
	}
	parseCount[platform]++
	log.Debug("[history] 记录解析: ", platform, " ", kind, " ", id)
}

// 运行状态里的解析计数
func formatParseCount() string {
	parseRecordsMutex.Lock()
	defer parseRecordsMutex.Unlock()
	return fmt.Sprintf("解析计数：B站 %d / 抖音 %d / 小红书 %d",
		parseCount["bilibili"], parseCount["douyin"], parseCount["xiaohongshu"])
}

// 解析记录
func checkHistory(ctx *EasyBot.CQMessage) {
	match := ctx.RegexpMustCompile(`^解析记录\s*([0-9]+)?$`)
	if len(match) == 0 || !ctx.IsSU() {
		return
	}
	count := 20
	if match[0][1] != "" {
		count, _ = strconv.Atoi(match[0][1])
	}
	if count > 99 { //标题占1条, 超过100条合并转发放不下
		count = 99
	}
	parseRecordsMutex.Lock()
	records := make([]parseRecord, len(parseRecords))
	copy(records, parseRecords)
	parseRecordsMutex.Unlock()
	if len(records) == 0 {
		ctx.SendMsgReply(fmt.Sprintf("%s之后没有解析过链接",
			time.Unix(startTime, 0).Format(timeLayout.M24C)))
		return
	}
	if count > len(records) {
		count = len(records)
	}
	name := "ResolveBot"
	if nick := bot.GetNickName(); len(nick) > 0 {
		name = nick[0]
	}
	selfID := bot.GetSelfID()
	forwardMsg := EasyBot.NewForwardMsg(EasyBot.NewForwardNode(name, selfID, //标题
		fmt.Sprintf("%s之后的最近%d条解析记录：",
			time.Unix(startTime, 0).Format(timeLayout.M24C), count), 0, 0))
	for i := len(records) - 1; i >= len(records)-count; i-- { //新的在前
		r := records[i]
		forwardMsg = EasyBot.AppendForwardMsg(forwardMsg, EasyBot.NewForwardNode(
			fmt.Sprintf("(%s)%s", time.Unix(r.time, 0).Format(timeLayout.T24), r.where),
			selfID,
			fmt.Sprintf("[%s] %s %s\n%s", r.platform, r.kind, r.id, r.title),
			r.time, 0))
	}
	if err := ctx.SendForwardMsg(forwardMsg); err != nil {
		log.Error("[history] 解析记录发送失败: ", err)
	}
}
