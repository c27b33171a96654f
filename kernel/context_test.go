package kernel

import "testing"

func TestContextRecvClosed(t *testing.T) {
	k := New()
	cap := k.NewEndpoint(RightSend | RightRecv)
	if !cap.Valid() {
		t.Fatal("expected valid capability")
	}

	ctx := &Context{k: k, taskID: 1}
	ch, ok := ctx.RecvChan(cap.Restrict(RightRecv))
	if !ok || ch == nil {
		t.Fatal("expected recv channel")
	}

	close(k.endpoints[cap.ep].ch)

	if _, ok := ctx.Recv(cap.Restrict(RightRecv)); ok {
		t.Fatal("expected Recv to fail after channel close")
	}
	if _, ok := ctx.TryRecv(cap.Restrict(RightRecv)); ok {
		t.Fatal("expected TryRecv to fail after channel close")
	}
}

func TestContextSendClosed(t *testing.T) {
	k := New()
	cap := k.NewEndpoint(RightSend | RightRecv)
	if !cap.Valid() {
		t.Fatal("expected valid capability")
	}

	ctx := &Context{k: k, taskID: 1}
	close(k.endpoints[cap.ep].ch)

	res := ctx.SendToResult(cap.Restrict(RightSend), 1, []byte("x"))
	if res != SendErrNoEndpoint {
		t.Fatalf("expected SendErrNoEndpoint, got %s", res)
	}
}

func TestContextSendRights(t *testing.T) {
	k := New()
	cap := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}

	if res := ctx.SendToResult(cap.Restrict(RightRecv), 1, nil); res != SendErrToNoSendRight {
		t.Fatalf("SendToResult() = %s, want %s", res, SendErrToNoSendRight)
	}
	if res := ctx.SendToResult(Capability{}, 1, nil); res != SendErrInvalidToCap {
		t.Fatalf("SendToResult() = %s, want %s", res, SendErrInvalidToCap)
	}
	if _, ok := ctx.RecvChan(cap.Restrict(RightSend)); ok {
		t.Fatal("expected RecvChan to fail without recv right")
	}
	if res := ctx.SendToResult(cap, 1, make([]byte, MaxMessageBytes+1)); res != SendErrPayloadTooLarge {
		t.Fatalf("SendToResult() = %s, want %s", res, SendErrPayloadTooLarge)
	}

	if res := ctx.SendToResult(cap, 7, []byte("hello")); res != SendOK {
		t.Fatalf("SendToResult() = %s, want %s", res, SendOK)
	}
	msg, ok := ctx.TryRecv(cap)
	if !ok {
		t.Fatal("expected queued message")
	}
	if msg.Kind != 7 || string(msg.Payload()) != "hello" {
		t.Fatalf("TryRecv() = kind %d payload %q, want 7 %q", msg.Kind, msg.Payload(), "hello")
	}
}

func TestTaskFuncRuns(t *testing.T) {
	k := New()
	done := make(chan TaskID, 1)
	id := k.AddTask(TaskFunc(func(ctx *Context) { done <- ctx.TaskID() }))
	if got := <-done; got != id {
		t.Fatalf("TaskID() = %d, want %d", got, id)
	}
}
