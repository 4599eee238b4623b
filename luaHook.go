package main

import (
	"ResolveBot/EasyBot"
	"bytes"
	"context"
	"os"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"
)

var (
	luaEnable       = false
	luaScript       = ""               //回复后处理脚本路径, 为空时跳过rewrite
	luaTimeout      = time.Second * 10 //SU片段执行
	luaHookTimeout  = time.Second * 3  //rewrite钩子
	luaPool         = make(chan *lua.LState, 4)
	luaSwitchRegexp = regexp.MustCompile(`(开启|启用|关闭|禁用)[Ll]ua`)
	luaScriptRegexp = regexp.MustCompile(`(?s)(?:lua测试|runLua)\s*\n?(.*)`)
)

func initLuaHook() {
	luaEnable = v.GetBool("lua.enable")
	luaScript = v.GetString("lua.script")
	if luaScript == "" {
		return
	}
	if _, err := os.Stat(luaScript); err != nil {
		log.Info("[lua] 后处理脚本 ", luaScript, " 不存在, 跳过加载")
		luaScript = ""
		return
	}
	WatchFile(luaScript, debounce(time.Second, func() {
		log.Info("[lua] 后处理脚本有更新, 重建VM池")
		drainLuaPool()
	}))
	log.Info("[lua] 回复后处理脚本: ", luaScript)
}

// 片段VM即用即建, 并发执行互不影响
func newSnippetVM(buf *bytes.Buffer) *lua.LState {
	L := lua.NewState(lua.Options{
		MinimizeStackMemory: true,
	})
	// alias
	L.SetGlobal("stdPrint", L.GetGlobal("print"))
	// print重定向
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		for i := 1; i <= top; i++ {
			if i > 1 {
				buf.WriteString("\t")
			}
			buf.WriteString(L.Get(i).String())
		}
		return 0
	}))
	return L
}

func runLuaWithTimeout(source string, timeout time.Duration) (result string, err error) {
	buf := new(bytes.Buffer)
	L := newSnippetVM(buf)
	defer L.Close()
	tctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	L.SetContext(tctx)
	if err = L.DoString(source); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// 池里的VM都已跑过脚本, 出错或超时的直接丢弃
func getHookVM() *lua.LState {
	select {
	case L := <-luaPool:
		return L
	default:
	}
	L := lua.NewState(lua.Options{
		MinimizeStackMemory: true,
	})
	tctx, cancel := context.WithTimeout(context.Background(), luaHookTimeout)
	defer cancel()
	L.SetContext(tctx)
	if err := L.DoFile(luaScript); err != nil {
		log.Error("[lua] 后处理脚本加载失败: ", err)
		L.Close()
		return nil
	}
	return L
}

func putHookVM(L *lua.LState) {
	select {
	case luaPool <- L:
	default:
		L.Close()
	}
}

func drainLuaPool() {
	for {
		select {
		case L := <-luaPool:
			L.Close()
		default:
			return
		}
	}
}

// 解析卡片发送前交给脚本里的rewrite(platform, group, reply)改写
func luaRewrite(ctx *EasyBot.CQMessage, platform string, reply string) string {
	if !luaEnable || luaScript == "" {
		return reply
	}
	L := getHookVM()
	if L == nil {
		return reply
	}
	fn := L.GetGlobal("rewrite")
	if fn.Type() != lua.LTFunction {
		putHookVM(L)
		return reply
	}
	tctx, cancel := context.WithTimeout(context.Background(), luaHookTimeout)
	defer cancel()
	L.SetContext(tctx)
	err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(platform), lua.LNumber(ctx.GroupID), lua.LString(reply))
	if err != nil {
		log.Error("[lua] rewrite调用失败: ", err)
		L.Close()
		return reply
	}
	ret := L.Get(-1)
	L.Pop(1)
	putHookVM(L)
	if s, ok := ret.(lua.LString); ok && string(s) != "" {
		return string(s)
	}
	return reply
}

func checkLuaHook(ctx *EasyBot.CQMessage) {
	//开关控制
	matches := ctx.RegFindAllStringSubmatch(luaSwitchRegexp)
	if len(matches) > 0 && ctx.IsPrivateSU() {
		switch matches[0][1] {
		case "开启", "启用":
			luaEnable = true
			ctx.SendMsg("Lua执行已启用")
		case "关闭", "禁用":
			luaEnable = false
			ctx.SendMsg("Lua执行已禁用")
		}
		return
	}
	if !luaEnable || !ctx.IsSU() {
		return
	}

	matches = ctx.RegFindAllStringSubmatch(luaScriptRegexp)
	if len(matches) > 0 {
		script := matches[0][1]
		if strings.TrimSpace(script) == "" {
			return
		}
		log.Debug("[lua] execute:\n", script)
		result, err := runLuaWithTimeout(script, luaTimeout)
		if err != nil {
			ctx.SendMsgReply("执行出现错误: ", err.Error())
			return
		}
		if result == "" {
			result = "(无输出)"
		}
		ctx.SendMsgReply(result)
	}
}
