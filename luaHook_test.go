package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ResolveBot/EasyBot"
)

func TestLuaScriptRegexp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"runLua", "runLua\nprint(1)", "print(1)"},
		{"luaTest", `lua测试 print("x")`, `print("x")`},
		{"multiline", "lua测试\nlocal a = 1\nprint(a)", "local a = 1\nprint(a)"},
	}
	for _, tt := range tests {
		m := luaScriptRegexp.FindAllStringSubmatch(tt.in, -1)
		if len(m) == 0 {
			t.Fatalf("%s: no match for %q", tt.name, tt.in)
		}
		if m[0][1] != tt.want {
			t.Fatalf("%s: capture = %q, want %q", tt.name, m[0][1], tt.want)
		}
	}
}

func TestRunLuaWithTimeout(t *testing.T) {
	got, err := runLuaWithTimeout(`print(1, "a")`, time.Second*5)
	if err != nil {
		t.Fatalf("runLuaWithTimeout() error: %v", err)
	}
	if got != "1\ta" {
		t.Fatalf("runLuaWithTimeout() = %q, want %q", got, "1\ta")
	}
}

// 并发片段各自独立的VM和输出
func TestRunLuaWithTimeout_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			want := fmt.Sprintf("goroutine %d", n)
			got, err := runLuaWithTimeout(fmt.Sprintf("print(%q)", want), time.Second*5)
			if err != nil {
				t.Errorf("runLuaWithTimeout() error: %v", err)
				return
			}
			if got != want {
				t.Errorf("runLuaWithTimeout() = %q, want %q", got, want)
			}
		}(i)
	}
	wg.Wait()
}

func TestRunLuaWithTimeout_Deadline(t *testing.T) {
	if _, err := runLuaWithTimeout("while true do end", time.Millisecond*100); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestLuaRewrite(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hooks.lua")
	src := "function rewrite(platform, group, reply)\n" +
		"  return reply .. \" via \" .. platform\n" +
		"end\n"
	if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	oldEnable, oldScript := luaEnable, luaScript
	luaEnable, luaScript = true, script
	drainLuaPool()
	defer func() {
		luaEnable, luaScript = oldEnable, oldScript
		drainLuaPool()
	}()
	msg := &EasyBot.CQMessage{MessageType: "group", GroupID: 10001}
	if got := luaRewrite(msg, "bilibili", "卡片"); got != "卡片 via bilibili" {
		t.Fatalf("luaRewrite() = %q, want %q", got, "卡片 via bilibili")
	}
}

func TestLuaRewrite_NoRewriteFunction(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hooks.lua")
	if err := os.WriteFile(script, []byte("local noop = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	oldEnable, oldScript := luaEnable, luaScript
	luaEnable, luaScript = true, script
	drainLuaPool()
	defer func() {
		luaEnable, luaScript = oldEnable, oldScript
		drainLuaPool()
	}()
	msg := &EasyBot.CQMessage{MessageType: "group", GroupID: 10001}
	if got := luaRewrite(msg, "douyin", "原样"); got != "原样" {
		t.Fatalf("luaRewrite() = %q, want %q", got, "原样")
	}
}

func TestLuaRewrite_DisabledPassthrough(t *testing.T) {
	oldEnable := luaEnable
	luaEnable = false
	defer func() { luaEnable = oldEnable }()
	msg := &EasyBot.CQMessage{MessageType: "group", GroupID: 10001}
	if got := luaRewrite(msg, "xiaohongshu", "原样"); got != "原样" {
		t.Fatalf("luaRewrite() = %q, want %q", got, "原样")
	}
}
