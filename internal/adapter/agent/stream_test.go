package agent

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"social-studio/internal/domain"
)

func TestScanFramesSplitsOnBlankLine(t *testing.T) {
	input := "frame one\n\nframe two\n\nframe three"
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Split(scanFrames)

	var frames []string
	for scanner.Scan() {
		frames = append(frames, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanner error: %v", err)
	}

	want := []string{"frame one", "frame two", "frame three"}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames, want %d: %v", len(frames), len(want), frames)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame[%d] = %q, want %q", i, frames[i], want[i])
		}
	}
}

func TestScanFramesTrailingDataAtEOF(t *testing.T) {
	// The last frame has no trailing separator; it must still come out.
	scanner := bufio.NewScanner(strings.NewReader(`{"type":"done"}`))
	scanner.Split(scanFrames)

	if !scanner.Scan() {
		t.Fatal("expected one frame")
	}
	if scanner.Text() != `{"type":"done"}` {
		t.Errorf("frame = %q", scanner.Text())
	}
	if scanner.Scan() {
		t.Error("expected no more frames")
	}
}

func collectUpdates(t *testing.T, ch <-chan domain.StreamUpdate) []domain.StreamUpdate {
	t.Helper()
	var updates []domain.StreamUpdate
	timeout := time.After(5 * time.Second)
	for {
		select {
		case u, ok := <-ch:
			if !ok {
				return updates
			}
			updates = append(updates, u)
		case <-timeout:
			t.Fatal("timed out waiting for stream to close")
		}
	}
}

func TestGenerateStreamBasic(t *testing.T) {
	frames := []string{
		`__TOOL_EVENT__{"tool":"web_search","status":"started"}__END_TOOL_EVENT__`,
		`{"choices":[{"messages":[{"role":"assistant","content":"draft one"}]}],"thread_id":"t-1"}`,
		`{"type":"done","thread_id":"t-1"}`,
	}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content-type: %s", r.Header.Get("Content-Type"))
		}
		flusher := w.(http.Flusher)
		for _, frame := range frames {
			io.WriteString(w, frame+"\n\n")
			flusher.Flush()
		}
	}))

	ch, err := client.GenerateStream(context.Background(), domain.GenerateRequest{Message: "launch post"})
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}

	updates := collectUpdates(t, ch)
	if len(updates) != 3 {
		t.Fatalf("got %d updates, want 3: %+v", len(updates), updates)
	}
	if len(updates[0].ToolEvents) != 1 || updates[0].ToolEvents[0].Tool != "web_search" {
		t.Errorf("update[0] = %+v", updates[0])
	}
	if updates[1].Text != "draft one" || !updates[1].TextCumulative {
		t.Errorf("update[1] = %+v", updates[1])
	}
	if !updates[2].Done || updates[2].ThreadID != "t-1" {
		t.Errorf("update[2] = %+v", updates[2])
	}
}

func TestGenerateStreamFrameSplitAcrossWrites(t *testing.T) {
	frame := `{"choices":[{"messages":[{"role":"assistant","content":"日本語のテキスト"}]}],"thread_id":"t-2"}`
	raw := []byte(frame + "\n\n" + `{"type":"done","thread_id":"t-2"}` + "\n\n")
	// Cut inside a multi-byte character to prove reassembly is byte-safe.
	cut := strings.Index(frame, "日") + 1

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Write(raw[:cut])
		flusher.Flush()
		time.Sleep(10 * time.Millisecond)
		w.Write(raw[cut:])
		flusher.Flush()
	}))

	ch, err := client.GenerateStream(context.Background(), domain.GenerateRequest{Message: "m"})
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}

	updates := collectUpdates(t, ch)
	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2: %+v", len(updates), updates)
	}
	if updates[0].Text != "日本語のテキスト" {
		t.Errorf("text = %q, multi-byte content corrupted", updates[0].Text)
	}
	if !updates[1].Done {
		t.Error("expected done")
	}
}

func TestGenerateStreamTrailingFrameWithoutSeparator(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "first\n\n")
		w.(http.Flusher).Flush()
		// No trailing separator before the connection closes.
		io.WriteString(w, `{"type":"done","thread_id":"t-3"}`)
	}))

	ch, err := client.GenerateStream(context.Background(), domain.GenerateRequest{Message: "m"})
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}

	updates := collectUpdates(t, ch)
	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2: %+v", len(updates), updates)
	}
	if updates[0].Text != "first" {
		t.Errorf("update[0].Text = %q", updates[0].Text)
	}
	if !updates[1].Done || updates[1].ThreadID != "t-3" {
		t.Errorf("update[1] = %+v", updates[1])
	}
}

func TestGenerateStreamCancelEndsCleanly(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		io.WriteString(w, "partial progress\n\n")
		flusher.Flush()
		// Keep the stream open until the client goes away.
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := client.GenerateStream(ctx, domain.GenerateRequest{Message: "m"})
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}

	select {
	case first := <-ch:
		if first.Text != "partial progress" {
			t.Errorf("first update = %+v", first)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first update")
	}

	cancel()

	// The channel must close without an error update: cancellation is a
	// clean stop, not a failure.
	for u := range ch {
		if u.ErrorMessage != "" {
			t.Errorf("cancellation produced error update: %+v", u)
		}
	}
}

func TestGenerateStreamAbruptCloseEmitsInterrupted(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "some text\n\n")
		w.(http.Flusher).Flush()
		panic(http.ErrAbortHandler) // cut the connection mid-stream
	}))

	ch, err := client.GenerateStream(context.Background(), domain.GenerateRequest{Message: "m"})
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}

	updates := collectUpdates(t, ch)
	if len(updates) == 0 {
		t.Fatal("expected at least one update")
	}
	last := updates[len(updates)-1]
	if last.ErrorMessage == "" {
		t.Errorf("expected an interrupted error update, got %+v", last)
	}
}

func TestGenerateStreamStopsAfterDone(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		io.WriteString(w, `{"type":"done","thread_id":"t-4"}`+"\n\n")
		flusher.Flush()
		io.WriteString(w, `{"error":"must not be delivered"}`+"\n\n")
		flusher.Flush()
	}))

	ch, err := client.GenerateStream(context.Background(), domain.GenerateRequest{Message: "m"})
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}

	updates := collectUpdates(t, ch)
	if len(updates) != 1 {
		t.Fatalf("got %d updates, want 1: %+v", len(updates), updates)
	}
	if !updates[0].Done {
		t.Error("expected done")
	}
}

func TestGenerateStreamOpenFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"Your message was blocked by our safety system."}`)
	}))

	_, err := client.GenerateStream(context.Background(), domain.GenerateRequest{Message: "m"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "safety system") {
		t.Errorf("backend detail missing from error: %v", err)
	}
}
