package logger

import (
	"strings"
	"testing"
	"time"

	"procalc/kernel"
	"procalc/proto"
)

func TestLogTruncatesLongLines(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	got := make(chan kernel.Message, 1)
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		if res := Logf(ctx, ep.Restrict(kernel.RightSend), 0, "%s", strings.Repeat("x", 300)); res != kernel.SendOK {
			t.Errorf("Logf() = %s, want %s", res, kernel.SendOK)
		}
		msg, _ := ctx.Recv(ep.Restrict(kernel.RightRecv))
		got <- msg
	}))

	select {
	case msg := <-got:
		if proto.Kind(msg.Kind) != proto.MsgLogLine || len(msg.Payload()) != kernel.MaxMessageBytes {
			t.Fatalf("message = kind %d len %d, want log line of %d bytes", msg.Kind, len(msg.Payload()), kernel.MaxMessageBytes)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for log line")
	}
}

func TestLogWaitsForQueueSpace(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	to := ep.Restrict(kernel.RightSend)

	full := make(chan struct{})
	result := make(chan kernel.SendResult, 2)
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		for ctx.SendToResult(to, uint16(proto.MsgLogLine), []byte("x")) == kernel.SendOK {
		}
		result <- Log(ctx, to, 0, "dropped")
		close(full)
		result <- Log(ctx, to, 50, "calc: 1+1 = 2")
	}))

	select {
	case <-full:
	case <-time.After(time.Second):
		t.Fatal("timed out filling the queue")
	}
	if res := <-result; res != kernel.SendErrQueueFull {
		t.Fatalf("Log(wait 0) on full queue = %s, want %s", res, kernel.SendErrQueueFull)
	}

	recv := make(chan (<-chan kernel.Message), 1)
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		msgs, _ := ctx.RecvChan(ep.Restrict(kernel.RightRecv))
		recv <- msgs
	}))
	msgs := <-recv
	<-msgs

	go func() {
		for i := uint64(1); i <= 100; i++ {
			k.TickTo(i)
			time.Sleep(time.Millisecond)
		}
	}()
	select {
	case res := <-result:
		if res != kernel.SendOK {
			t.Fatalf("Log(wait 50) after drain = %s, want %s", res, kernel.SendOK)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Log to retry")
	}
}
