package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

func WatchFile(filePath string, callback func(fsnotify.Event)) {
	initWG := sync.WaitGroup{}
	initWG.Add(1)
	go func() {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			fmt.Printf("failed to create watcher: %s", err)
			os.Exit(1)
		}
		defer watcher.Close()

		dir, file := filepath.Split(filePath) // 监听路径, 文件名
		if dir == "" {
			dir = "."
		}

		eventsWG := sync.WaitGroup{}
		eventsWG.Add(1)
		go func() {
			for {
				select {
				case event, ok := <-watcher.Events:
					log.Debug("case event, ok := <-watcher.Events: ", event, " - ", ok)
					if !ok { // 'Events' channel is closed
						eventsWG.Done()
						return
					}
					if filepath.Base(event.Name) == file {
						callback(event)
					}

				case err, ok := <-watcher.Errors:
					log.Debug("case err, ok := <-watcher.Errors: ", err, " - ", ok)
					if ok { // 'Errors' channel is not closed
						fmt.Printf("watcher error: %s", err)
					}
					eventsWG.Done()
					return
				}
			}
		}()
		watcher.Add(dir)
		initWG.Done()   // done initializing the watch in this go routine, so the parent routine can move on...
		eventsWG.Wait() // now, wait for event loop to end in this go-routine...
	}()
	initWG.Wait() // make sure that the go routine above fully ended before returning
}

// 短时间内的连续写入合并成一次回调
func debounce(interval time.Duration, callback func()) func(fsnotify.Event) {
	var mu sync.Mutex
	var waiting bool
	var again chan struct{}
	return func(event fsnotify.Event) {
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		mu.Lock()
		if waiting {
			select {
			case again <- struct{}{}:
			default:
			}
			mu.Unlock()
			return
		}
		waiting = true
		timer := time.NewTimer(interval)
		a := make(chan struct{}, 1)
		again = a
		mu.Unlock()
		go func() {
			for {
				select {
				case <-timer.C:
					mu.Lock()
					waiting = false
					mu.Unlock()
					callback()
					return
				case <-a:
					timer.Reset(interval)
				}
			}
		}()
	}
}

// 配置热更新, Cookie等运行时读取的值viper会自行重读, 进bot的名单要重新灌一遍
func onConfigChange(in fsnotify.Event) {
	log.Info("[Init] 文件: ", in.Name, "  发生了: ", in.Op)
	initConfig()
	log.Info("[Init] 配置已热重载")
}
