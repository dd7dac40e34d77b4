package relay

import (
	"bufio"
	"fmt"
	"net"
	"sync"

	"github.com/rocketscienceinc/caro-backend/internal/protocol"
)

// client wraps one accepted connection with buffered line IO. The write mutex
// keeps frames from different broadcasters intact; reads happen only from the
// connection's own worker.
type client struct {
	conn   net.Conn
	reader *bufio.Reader

	mu     sync.Mutex
	writer *bufio.Writer
}

func newClient(conn net.Conn) *client {
	return &client{
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
	}
}

// send - writes one framed message. Failures are reported but not fatal here:
// a dead peer is detected by its own read loop and handled as a disconnect.
func (that *client) send(command, payload string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, err := that.writer.WriteString(protocol.Encode(command, payload)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := that.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush message: %w", err)
	}

	return nil
}

// readLine - blocks on the next newline-framed message. Closing the
// connection unblocks it with an error.
func (that *client) readLine() (string, error) {
	return that.reader.ReadString('\n')
}

func (that *client) close() {
	_ = that.conn.Close()
}
