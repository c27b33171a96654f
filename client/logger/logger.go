package logger

import (
	"fmt"

	"procalc/kernel"
	"procalc/proto"
)

// Log sends a log line to the logger service.
//
// While the logger queue is full it waits up to wait ticks for space, then drops the line; wait 0
// never blocks. Lines longer than kernel.MaxMessageBytes are truncated.
func Log(ctx *kernel.Context, logCap kernel.Capability, wait int, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidToCap
	}
	b := []byte(line)
	if len(b) > kernel.MaxMessageBytes {
		b = b[:kernel.MaxMessageBytes]
	}
	return ctx.SendToRetry(logCap, uint16(proto.MsgLogLine), proto.LogLinePayload(b), wait)
}

// Logf is Log with fmt.Sprintf formatting.
func Logf(ctx *kernel.Context, logCap kernel.Capability, wait int, format string, args ...any) kernel.SendResult {
	return Log(ctx, logCap, wait, fmt.Sprintf(format, args...))
}
