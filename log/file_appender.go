package log

import (
	"bytes"
	"errors"
	"os"
	"sync"
	"time"
)

const (
	// _asyncByteSizePerIOWrite caps the batch size for async writes (10MB)
	// to bound memory during high-volume logging.
	_asyncByteSizePerIOWrite = 10 << 20
)

// FileAppender handles log output to files in either synchronous or
// asynchronous mode, with automatic file rotation based on size and time.
// In async mode log lines are queued to a writer goroutine so producers
// never block on disk I/O.
type FileAppender struct {
	fileName          string             // Path to the log file
	fileSplitMB       int                // Maximum file size in MB before rotation
	fileSplitHour     int                // Hour of day triggering time-based rotation
	isAsync           bool               // Whether async mode is enabled
	asyncWriteMillSec int                // Interval in milliseconds for async batch writes
	fileFd            *os.File           // File descriptor for the current log file
	fileCreateTime    time.Time          // Creation time of the current log file
	lock              sync.Mutex         // Guards file operations
	bufChan           chan *bytes.Buffer // Queue of pending async log buffers
	ntfChan           chan chan struct{} // Flush notification requests
	asyncSendBuf      *bytes.Buffer      // Accumulates async writes per batch
	bufferPool        sync.Pool          // Reusable buffers for async writes
}

// NewFileAppender creates a FileAppender from the given configuration.
// Panics if the configuration is invalid, ensuring early detection of
// misconfiguration.
func NewFileAppender(cfg *LogCfg) *FileAppender {
	a := &FileAppender{}
	if err := a.init(cfg); err != nil {
		panic(err)
	}
	return a
}

// init sets up rotation parameters and, in async mode, the buffer pool,
// queue channels and the writer goroutine.
func (a *FileAppender) init(cfg *LogCfg) error {
	if err := CheckCfgValid(cfg); err != nil {
		return err
	}

	a.fileName = cfg.LogPath
	a.isAsync = cfg.IsAsync
	a.asyncWriteMillSec = cfg.AsyncWriteMillSec
	a.fileSplitMB = cfg.FileSplitMB
	a.fileSplitHour = cfg.FileSplitHour

	if cfg.IsAsync {
		a.bufferPool = sync.Pool{
			New: func() interface{} {
				return &bytes.Buffer{}
			},
		}

		a.asyncSendBuf = bytes.NewBuffer(make([]byte, 0, _asyncByteSizePerIOWrite))

		a.bufChan = make(chan *bytes.Buffer, cfg.AsyncCacheSize)
		a.ntfChan = make(chan chan struct{})
		go a.asyncWriteLoop()
	}

	return nil
}

// CheckCfgValid normalizes configuration parameters, applying defaults for
// missing or invalid values.
func CheckCfgValid(cfg *LogCfg) error {
	if len(cfg.LogPath) == 0 {
		cfg.LogPath = "./relog.log"
	}
	if cfg.LogLevel <= 0 {
		cfg.LogLevel = DebugLevel
	}

	if cfg.FileSplitMB <= 0 {
		cfg.FileSplitMB = 50
	}

	if cfg.FileSplitHour < 0 {
		cfg.FileSplitHour = 24
	}

	if cfg.IsAsync {
		if cfg.AsyncCacheSize <= 0 {
			cfg.AsyncCacheSize = 1024
		}
		if cfg.AsyncWriteMillSec <= 0 {
			cfg.AsyncWriteMillSec = 200
		}
	}
	return nil
}

// Write dispatches between synchronous and asynchronous writing based on
// configuration. In async mode it returns immediately after queueing.
func (a *FileAppender) Write(buf []byte) (n int, err error) {
	if a.isAsync {
		a.writeAsync(buf)
		return len(buf), nil
	}

	return a.writeSync(buf)
}

// Refresh forces an immediate flush of all buffered logs to disk. Only
// meaningful in async mode; blocks until pending entries are written.
func (a *FileAppender) Refresh() error {
	if !a.isAsync {
		return nil
	}
	doneChan := make(chan struct{})
	a.ntfChan <- doneChan
	<-doneChan
	return nil
}

// Close flushes pending logs, stops the async goroutine and closes the file
// descriptor.
func (a *FileAppender) Close() error {
	if a.isAsync {
		// Flush through the writer goroutine, then stop it. Draining here
		// directly would race the goroutine over the shared batch buffer.
		doneChan := make(chan struct{})
		a.ntfChan <- doneChan
		<-doneChan
		close(a.ntfChan)
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	if a.fileFd != nil {
		err := a.fileFd.Close()
		a.fileFd = nil
		return err
	}
	return nil
}

// writeSync performs a locked write with rotation checks.
func (a *FileAppender) writeSync(buf []byte) (n int, err error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	newFd, newFileCreateTime, err := UpdateFileFd(a.fileName,
		a.fileSplitHour,
		a.fileSplitMB,
		a.fileFd, a.fileCreateTime)
	if err != nil {
		return 0, err
	}
	if newFd == nil {
		return 0, errors.New("writeSync newFd err")
	}
	a.fileFd = newFd
	a.fileCreateTime = newFileCreateTime
	return a.fileFd.Write(buf)
}

// writeAsync queues a copy of the log line for the writer goroutine. When
// the queue is full it nudges the writer to flush and retries, so entries
// are delayed rather than lost.
func (a *FileAppender) writeAsync(buf []byte) {
	buffer := a.bufferPool.Get().(*bytes.Buffer)

	buffer.Reset()
	buffer.Write(buf)

	select {
	case a.bufChan <- buffer:
	default:
		select {
		case a.bufChan <- buffer:
		case a.ntfChan <- nil:
			// Writer flushed; the queue has room again.
			a.bufChan <- buffer
		}
	}
}

// writeAll drains the async queue into batched disk writes, recycling
// buffers back into the pool.
func (a *FileAppender) writeAll() {
	for {
		select {
		case buffer := <-a.bufChan:
			// Flush when the accumulated batch would exceed the cap.
			if a.asyncSendBuf.Len()+buffer.Len() > _asyncByteSizePerIOWrite {
				a.writeSync(a.asyncSendBuf.Bytes())
				a.asyncSendBuf.Reset()
			}
			a.asyncSendBuf.Write(buffer.Bytes())

			buffer.Reset()
			a.bufferPool.Put(buffer)
		default:
			if a.asyncSendBuf.Len() > 0 {
				a.writeSync(a.asyncSendBuf.Bytes())
				a.asyncSendBuf.Reset()
			}
			return
		}
	}
}

// asyncWriteLoop is the writer goroutine: it batches queued entries on a
// timer and serves explicit flush requests from Refresh.
func (a *FileAppender) asyncWriteLoop() {
	tickTimer := time.NewTicker(time.Duration(a.asyncWriteMillSec) * time.Millisecond)
	defer tickTimer.Stop()
	for {
		select {
		case doneChan, ok := <-a.ntfChan:
			a.writeAll()
			if doneChan != nil {
				// Data must reach disk when explicitly requested.
				if a.fileFd != nil {
					_ = a.fileFd.Sync()
				}
				doneChan <- struct{}{}
			}
			if !ok {
				return
			}
		case <-tickTimer.C:
			a.writeAll()
		}
	}
}
