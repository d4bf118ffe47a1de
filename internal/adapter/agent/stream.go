package agent

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"social-studio/internal/domain"
)

const (
	// initialFrameBuffer is the scanner's starting buffer size.
	initialFrameBuffer = 64 * 1024
	// maxFrameSize bounds a single frame. Image frames carry base64
	// payloads of a few megabytes, so this is generous.
	maxFrameSize = 16 * 1024 * 1024
	// updateChannelBuffer decouples frame reading from consumption.
	updateChannelBuffer = 16
)

// streamInterruptedMessage is shown when the stream dies mid-generation
// for a reason other than cancellation.
const streamInterruptedMessage = "Connection to the agent was interrupted. Please try again."

var frameSeparator = []byte("\n\n")

// GenerateStream opens a generation stream for req and returns a channel
// of parsed updates. The channel is closed when the stream ends, the
// backend signals completion, or ctx is canceled. Cancellation is a clean
// stop: no error update is emitted for it.
func (c *Client) GenerateStream(ctx context.Context, req domain.GenerateRequest) (<-chan domain.StreamUpdate, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, domain.WrapOp("Agent.GenerateStream", fmt.Errorf("marshal request: %w", err))
	}

	httpResp, err := c.doStreamRequest(ctx, "/api/chat", body)
	if err != nil {
		return nil, domain.WrapOp("Agent.GenerateStream", err)
	}

	c.logger.Debug("generation stream opened",
		"platforms", req.Platforms,
		"ab_mode", req.ABMode,
		"thread_id", req.ThreadID)

	updates := make(chan domain.StreamUpdate, updateChannelBuffer)
	go c.readFrames(ctx, httpResp, updates)
	return updates, nil
}

// readFrames scans the response body frame by frame and forwards parsed
// updates until the stream ends or ctx is canceled.
func (c *Client) readFrames(ctx context.Context, httpResp *http.Response, updates chan<- domain.StreamUpdate) {
	defer close(updates)
	defer httpResp.Body.Close()

	scanner := bufio.NewScanner(httpResp.Body)
	scanner.Buffer(make([]byte, initialFrameBuffer), maxFrameSize)
	scanner.Split(scanFrames)

	for scanner.Scan() {
		frame := strings.TrimSpace(scanner.Text())
		if frame == "" {
			continue
		}

		update := ParseFrame(frame)
		if update.IsZero() {
			continue
		}

		select {
		case updates <- update:
		case <-ctx.Done():
			return
		}

		if update.Done {
			return
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		c.logger.Warn("generation stream interrupted", "error", err)
		select {
		case updates <- domain.StreamUpdate{ErrorMessage: streamInterruptedMessage}:
		case <-ctx.Done():
		}
	}
}

// scanFrames is a bufio.SplitFunc that splits the stream on blank lines.
// At EOF any trailing data is returned as one final frame, so a producer
// that drops the connection after its last payload still gets that
// payload parsed. Splitting happens on raw bytes before any string
// conversion, so multi-byte characters split across network reads are
// reassembled before decoding.
func scanFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, frameSeparator); i >= 0 {
		return i + len(frameSeparator), data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
