package main

import (
	"ResolveBot/EasyBot"
)

var helpText = `【链接解析】
发送B站/抖音/小红书链接自动解析, QQ分享卡片也可以
  B站: 视频 / 动态 / 专栏 / 收藏夹 / 用户空间 / 直播间 / b23短链
  抖音: 视频 / 图文 / v.douyin短链
  小红书: 图文笔记 / 视频笔记 / xhslink短链
【AI总结】
回复带B站视频链接的消息"总结一下", 或发送"总结一下"后再发链接
【其他】
"制作二维码 <内容>"
"运行状态"
超级用户私聊:
  "扫码登录" 维护B站登录态
  "饼干状态" / "刷新饼干"
  "解析记录 <数量>"
  "开启Lua"后可用 "lua测试 <代码>"`

// 使用说明
func checkHelp(ctx *EasyBot.CQMessage) {
	match := ctx.RegexpMustCompile(`帮助|help|使用说明`)
	if len(match) > 0 && ctx.IsToMe() {
		ctx.SendMsg(helpText)
	}
}
