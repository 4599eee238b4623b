package main

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/andybalholm/brotli"
)

func TestPacketBuildRoundTrip(t *testing.T) {
	body := []byte(`{"cmd":"TEST"}`)
	raw := NewPlainPacket(HeartBeat, body).Build()
	if len(raw) != 16+len(body) {
		t.Fatalf("packet length = %d, want %d", len(raw), 16+len(body))
	}
	pkt := NewPacketFromBytes(raw)
	if pkt.ProtocolVersion != Plain {
		t.Fatalf("protocolVersion = %d, want %d", pkt.ProtocolVersion, Plain)
	}
	if pkt.Operation != HeartBeat {
		t.Fatalf("operation = %d, want %d", pkt.Operation, HeartBeat)
	}
	if !bytes.Equal(pkt.Body, body) {
		t.Fatalf("body = %q, want %q", pkt.Body, body)
	}
}

func TestPacketParsePopularity(t *testing.T) {
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, 66666)
	raw := NewPacket(Popularity, HeartBeatResponse, body).Build()
	packets := NewPacketFromBytes(raw).Parse()
	if len(packets) != 1 {
		t.Fatalf("packet count = %d, want 1", len(packets))
	}
	if got := binary.BigEndian.Uint32(packets[0].Body[0:4]); got != 66666 {
		t.Fatalf("popularity = %d, want 66666", got)
	}
}

func TestPacketParseZlib(t *testing.T) {
	inner1 := NewPlainPacket(Notification, []byte(`{"cmd":"DANMU_MSG"}`)).Build()
	inner2 := NewPlainPacket(Notification, []byte(`{"cmd":"SEND_GIFT"}`)).Build()
	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	if _, err := zw.Write(append(append([]byte{}, inner1...), inner2...)); err != nil {
		t.Fatal(err)
	}
	zw.Close()

	packets := NewPacket(Zlib, Notification, zbuf.Bytes()).Parse()
	if len(packets) != 2 {
		t.Fatalf("packet count = %d, want 2", len(packets))
	}
	if got := string(packets[0].Body); got != `{"cmd":"DANMU_MSG"}` {
		t.Fatalf("body[0] = %q, want %q", got, `{"cmd":"DANMU_MSG"}`)
	}
	if got := string(packets[1].Body); got != `{"cmd":"SEND_GIFT"}` {
		t.Fatalf("body[1] = %q, want %q", got, `{"cmd":"SEND_GIFT"}`)
	}
}

func TestPacketParseBrotli(t *testing.T) {
	inner := NewPlainPacket(Notification, []byte(`{"cmd":"INTERACT_WORD"}`)).Build()
	var bbuf bytes.Buffer
	bw := brotli.NewWriter(&bbuf)
	if _, err := bw.Write(inner); err != nil {
		t.Fatal(err)
	}
	bw.Close()

	packets := NewPacket(Brotli, Notification, bbuf.Bytes()).Parse()
	if len(packets) != 1 {
		t.Fatalf("packet count = %d, want 1", len(packets))
	}
	if got := string(packets[0].Body); got != `{"cmd":"INTERACT_WORD"}` {
		t.Fatalf("body = %q, want %q", got, `{"cmd":"INTERACT_WORD"}`)
	}
}

func TestNewEnterPacket(t *testing.T) {
	raw := NewEnterPacket(123, 456, "test-token")
	pkt := NewPacketFromBytes(raw)
	if pkt.Operation != RoomEnter {
		t.Fatalf("operation = %d, want %d", pkt.Operation, RoomEnter)
	}
	var ent Enter
	if err := json.Unmarshal(pkt.Body, &ent); err != nil {
		t.Fatalf("body unmarshal err: %v", err)
	}
	if ent.UID != 123 || ent.RoomID != 456 || ent.Key != "test-token" {
		t.Fatalf("enter = %+v, want uid 123 roomid 456 key test-token", ent)
	}
	if ent.ProtoVer != 2 || ent.Platform != "web" {
		t.Fatalf("enter = %+v, want protover 2 platform web", ent)
	}
}
