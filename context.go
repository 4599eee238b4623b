package main

import (
	"ResolveBot/EasyBot"
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	msgChans      = make(map[int64]chan *EasyBot.CQMessage)
	msgChansMutex sync.Mutex
)

// 创建上下文监听, reach 时返回 true 则结束, 或者 WithCancel 后自行调用 CancelFunc
func newMsgContext(ctx context.Context, id int64, callbackStart func(), callbackReach func(msg *EasyBot.CQMessage) (isDone bool), callbackEnd func()) {
	msgChan := make(chan *EasyBot.CQMessage) // 接收消息用
	msgChansMutex.Lock()
	msgChans[id] = msgChan
	msgChansMutex.Unlock()
	go func() {
		defer func() {
			msgChansMutex.Lock()
			delete(msgChans, id)
			msgChansMutex.Unlock()
			close(msgChan)
		}()

		log.Debug("[context] 创建了一条新的上下文: ", id)
		if callbackStart != nil {
			callbackStart()
		}

		for {
			select {
			case msg := <-msgChan:
				if callbackReach != nil {
					if isDone := callbackReach(msg); isDone {
						return
					}
				}

			case <-ctx.Done():
				log.Debug("[context] 上下文结束返回")
				if callbackEnd != nil {
					callbackEnd()
				}
				return

			}
		}
	}()
	<-ctx.Done()
}

// 将消息放入管道待取
func checkContextPutIn(ctx *EasyBot.CQMessage) {
	msgChansMutex.Lock()
	defer msgChansMutex.Unlock()
	for _, msgChan := range msgChans {
		if msgChan == nil {
			continue
		}
		select {
		case msgChan <- ctx:
		default: //没有在听就不塞了
		}
	}
}
