package main

import (
	"ResolveBot/EasyBot"
	"bytes"
	"encoding/base64"
	"image/png"
	"regexp"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	log "github.com/sirupsen/logrus"
)

func checkQRCode(ctx *EasyBot.CQMessage) {
	matches := ctx.RegFindAllStringSubmatch(regexp.MustCompile(`(?s)制作二维码\s*(.*)`))
	if len(matches) > 0 {
		s := trimOuterQuotes(matches[0][1])
		replyMsg, err := ctx.GetReplyedMsg()
		if replyMsg != nil && err == nil { //回复触发时无视正文
			s = trimOuterQuotes(replyMsg.RawMessage)
		}
		qrc, _ := NewQRcode().With(s, 512)
		ctx.SendMsgReply(bot.Utils.Format.ImageBase64(qrc.ToBase64()))
	}
}

// 去除最外层一对互相匹配的引号
func trimOuterQuotes(s string) string {
	runeArr := []rune(s)
	if len(runeArr) < 2 {
		return s
	}

	left := runeArr[0]
	right := runeArr[(len(runeArr) - 1)]

	if (left == '\'' && right == '\'') ||
		(left == '`' && right == '`') ||
		(left == '"' && right == '"') ||
		(left == '“' && right == '”') ||
		(left == '”' && right == '“') {
		runeArr = runeArr[1 : len(runeArr)-1]
	}
	return string(runeArr)
}

type QRcode []byte

func NewQRcode() *QRcode {
	return &QRcode{}
}

func (qrc QRcode) With(content string, size int) (QRcode, error) {
	if size == 0 {
		size = 256
	}

	code, err := qr.Encode(content, qr.L, qr.Auto)
	if err != nil {
		log.Error("[QRcode] err1:", err)
		return qrc, err
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		log.Error("[QRcode] err2:", err)
		return qrc, err
	}
	buf := new(bytes.Buffer)
	err = png.Encode(buf, code)
	if err != nil {
		log.Error("[QRcode] err3:", err)
		return qrc, err
	}
	return buf.Bytes(), nil
}

func (qrc QRcode) ToBase64() string {
	return base64.StdEncoding.EncodeToString(qrc)
}
