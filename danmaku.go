package main

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gorilla/websocket"
	"github.com/moxcomic/ihttp"
	log "github.com/sirupsen/logrus"
	"github.com/ysmood/gson"
)

const (
	Plain = iota
	Popularity
	Zlib
	Brotli
)

const (
	_ = iota
	_
	HeartBeat
	HeartBeatResponse
	_
	Notification
	_
	RoomEnter
	RoomEnterResponse
)

type Packet struct {
	PacketLength    int
	HeaderLength    int
	ProtocolVersion uint16
	Operation       uint32
	SequenceID      int
	Body            []byte
}

func NewPacket(protocolVersion uint16, operation uint32, body []byte) *Packet {
	return &Packet{
		ProtocolVersion: protocolVersion,
		Operation:       operation,
		Body:            body,
	}
}

func NewPlainPacket(operation int, body []byte) *Packet {
	return NewPacket(Plain, uint32(operation), body)
}

func (p *Packet) Build() []byte {
	rawBuf := []byte{0, 0, 0, 0, 0, 16, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	binary.BigEndian.PutUint16(rawBuf[6:], p.ProtocolVersion)
	binary.BigEndian.PutUint32(rawBuf[8:], p.Operation)
	rawBuf = append(rawBuf, p.Body...)
	binary.BigEndian.PutUint32(rawBuf, uint32(len(rawBuf)))
	return rawBuf
}

type Enter struct {
	UID       int    `json:"uid"`
	RoomID    int    `json:"roomid"`
	ProtoVer  int    `json:"protover"`
	Platform  string `json:"platform"`
	ClientVer string `json:"clientver"`
	Type      int    `json:"type"`
	Key       string `json:"key"`
}

func NewEnterPacket(uid int, roomID int, key string) []byte {
	ent := &Enter{
		UID:       uid,
		RoomID:    roomID,
		ProtoVer:  2,
		Platform:  "web",
		ClientVer: "1.14.3",
		Type:      2,
		Key:       key,
	}
	m, err := json.Marshal(ent)
	if err != nil {
		panic(fmt.Sprintf("NewEnterPacket JsonMarshal failed: %v", err))
	}
	pkt := NewPlainPacket(RoomEnter, m)
	return pkt.Build()
}

func SendEnterPacket(conn *websocket.Conn, uid, roomID int, token string) error {
	pkt := NewEnterPacket(uid, roomID, token)
	if err := conn.WriteMessage(websocket.BinaryMessage, pkt); err != nil {
		return err
	}
	return nil
}

func NewPacketFromBytes(data []byte) *Packet {
	packLen := binary.BigEndian.Uint32(data[0:4])
	// 校验包长度
	if int(packLen) != len(data) {
		log.Errorln("[danmaku] error packet.")
	}
	pv := binary.BigEndian.Uint16(data[6:8])
	op := binary.BigEndian.Uint32(data[8:12])
	body := data[16:packLen]
	packet := NewPacket(pv, op, body)
	return packet
}

func (p *Packet) Parse() []*Packet {
	switch p.ProtocolVersion {
	case Popularity:
		fallthrough
	case Plain:
		return []*Packet{p}
	case Zlib:
		z, err := zlibParser(p.Body)
		if err != nil {
			log.Errorln("[danmaku] zlib error:", err)
		}
		return Slice(z)
	case Brotli:
		b, err := brotliParser(p.Body)
		if err != nil {
			log.Errorln("[danmaku] brotli error:", err)
		}
		return Slice(b)
	default:
		log.Errorln("[danmaku] unknown protocolVersion.")
	}
	return nil
}

func Slice(data []byte) []*Packet {
	var packets []*Packet
	total := len(data)
	cursor := 0
	for cursor < total {
		packLen := int(binary.BigEndian.Uint32(data[cursor : cursor+4]))
		packets = append(packets, NewPacketFromBytes(data[cursor:cursor+packLen]))
		cursor += packLen
	}
	return packets
}

func zlibParser(b []byte) ([]byte, error) {
	var rdBuf []byte
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	rdBuf, _ = io.ReadAll(zr)
	return rdBuf, nil
}

func brotliParser(b []byte) ([]byte, error) {
	zr := brotli.NewReader(bytes.NewReader(b))
	rdBuf, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	return rdBuf, nil
}

func getDanmuInfoJson(roomID string) (gson.JSON, error) {
	g, err := ihttp.New().WithUrl("https://api.live.bilibili.com/xlive/web-room/v1/index/getDanmuInfo").
		WithAddQuerys(map[string]any{"id": roomID, "type": "0"}).
		WithHeaders(iheaders).WithCookie(biliCookie()).
		Get().ToGson()
	if err != nil {
		log.Error("[danmaku] getDanmuInfoJson().ihttp请求错误: ", err)
	}
	return g, err
}

// 进房后直接发一个心跳包, 回复里带着人气值
func livePopularity(roomID string) (popularity uint32, err error) {
	start := time.Now()
	g, err := getDanmuInfoJson(roomID)
	if err != nil {
		return 0, err
	}
	if g.Get("code").Int() != 0 {
		return 0, fmt.Errorf("getDanmuInfo code: %d", g.Get("code").Int())
	}
	token := g.Get("data.token").Str()
	host := "broadcastlv.chat.bilibili.com"
	if hostList := g.Get("data.host_list").Arr(); len(hostList) > 0 {
		host = hostList[0].Get("host").Str()
	}

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("wss://%s/sub", host), nil)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	roomIDNum := 0
	fmt.Sscan(roomID, &roomIDNum)
	if err = SendEnterPacket(conn, biliLoginUID(), roomIDNum, token); err != nil {
		return 0, err
	}
	if err = conn.WriteMessage(websocket.BinaryMessage, NewPacket(Plain, HeartBeat, nil).Build()); err != nil {
		return 0, err
	}

	conn.SetReadDeadline(time.Now().Add(time.Second * 10))
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		for _, pkt := range NewPacketFromBytes(data).Parse() {
			if pkt.Operation == HeartBeatResponse && len(pkt.Body) >= 4 {
				popularity = binary.BigEndian.Uint32(pkt.Body[0:4])
				log.Debug("[danmaku] 直播间 ", roomID, " 人气值: ", popularity,
					"  耗时: ", formatTimeMs(time.Since(start).Milliseconds()))
				return popularity, nil
			}
			log.Trace("[danmaku] 接收数据: ", BytesToString(pkt.Body))
		}
	}
}
