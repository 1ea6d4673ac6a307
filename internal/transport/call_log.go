package transport

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

// requestIDHeader is echoed by the API on every response and is the only
// response header kept in the call log.
const requestIDHeader = "X-Request-Id"

// Call is one line of the NDJSON call log.
type Call struct {
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	Verb       string    `json:"verb"`
	URL        string    `json:"url"`
	Shape      string    `json:"shape,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

func (c *Call) finish(start time.Time, resp *http.Response, err error) {
	c.DurationMS = time.Since(start).Milliseconds()
	if resp != nil {
		c.StatusCode = resp.StatusCode
		c.RequestID = resp.Header.Get(requestIDHeader)
	}
	if err != nil {
		c.Error = err.Error()
	}
}

// CallLog appends one JSON line per request sent. Headers other than the
// request id and bodies are never written.
type CallLog struct {
	runID string
	file  *os.File
	buf   *bufio.Writer
	enc   *json.Encoder
	mu    sync.Mutex
}

func NewCallLog(path string, runID string) (*CallLog, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(file)
	return &CallLog{
		runID: runID,
		file:  file,
		buf:   buf,
		enc:   json.NewEncoder(buf),
	}, nil
}

func (c *CallLog) RunID() string {
	return c.runID
}

// Append stamps the run id and writes the call. A write failure is logged and
// otherwise ignored so a full disk never fails a request.
func (c *CallLog) Append(call Call) {
	call.RunID = c.runID
	if err := c.write(call); err != nil {
		slog.Warn("call log write failed", "run_id", c.runID, "url", call.URL, "error", err)
	}
}

func (c *CallLog) write(call Call) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enc.Encode(call); err != nil {
		return err
	}
	return c.buf.Flush()
}

func (c *CallLog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.buf.Flush(); err != nil {
		_ = c.file.Close()
		return err
	}
	return c.file.Close()
}
