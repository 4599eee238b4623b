package SimpleLogFormatter

import (
	"bytes"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
)

type LogFormat struct{}

func (f *LogFormat) Format(entry *log.Entry) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteString(logLevelBanner[entry.Level])
	buf.WriteString(entry.Time.Format("[01/02|15:04:05] "))
	buf.WriteString(entry.Message)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

var (
	logLevelBanner = map[log.Level]string{
		log.TraceLevel: color.New(color.FgHiBlue).
			Sprint("[TRAC]"),
		log.DebugLevel: color.New(color.FgHiGreen).
			Sprint("[DEBU]"),
		log.InfoLevel: color.New(color.FgHiWhite).
			Sprint("[INFO]"),
		log.WarnLevel: color.New(color.FgHiYellow).
			Sprint("[WARN]"),
		log.ErrorLevel: color.New(color.FgHiRed).
			Sprint("[ERRO]"),
		log.FatalLevel: color.New(color.FgHiRed, color.BlinkSlow).
			Sprint("[FATA]"),
		log.PanicLevel: color.New(color.FgHiRed, color.BlinkSlow, color.ReverseVideo).
			Sprint("[PANI]"),
	}
)
