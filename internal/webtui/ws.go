package webtui

import (
	"encoding/json"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"
)

type wsMsg struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		// Basic same-origin check; good enough for a localhost viewer.
		host := strings.TrimSpace(r.Host)
		return strings.Contains(origin, "://"+host)
	},
}

// ptySession is one TUI child process and its pty. Closing it kills the child
// and unblocks any goroutine stuck reading the pty.
type ptySession struct {
	ptmx      *os.File
	cmd       *exec.Cmd
	closeOnce sync.Once
}

// newPTYSession launches this same binary with no subcommand, which is the
// interactive TUI, sized to a default until the browser reports its real
// dimensions.
func (s *Server) newPTYSession() (*ptySession, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	var args []string
	if dir := strings.TrimSpace(s.cfg.Dir); dir != "" {
		args = append(args, "--dir", dir)
	}
	if ws := strings.TrimSpace(s.cfg.Workspace); ws != "" {
		args = append(args, "--workspace", ws)
	}
	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: 120, Rows: 40})
	if err != nil {
		return nil, err
	}
	return &ptySession{ptmx: ptmx, cmd: cmd}, nil
}

func (ps *ptySession) resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	_ = pty.Setsize(ps.ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

func (ps *ptySession) close() {
	ps.closeOnce.Do(func() {
		_ = ps.ptmx.Close()
		if ps.cmd.Process != nil {
			_ = ps.cmd.Process.Kill()
			_, _ = ps.cmd.Process.Wait()
		}
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		return
	}
	defer conn.Close()
	conn.SetReadLimit(1 << 20)

	sess, err := s.newPTYSession()
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start session: "+err.Error()))
		return
	}
	defer sess.close()

	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	go func() {
		defer finish()
		copyPTYToWS(sess.ptmx, conn)
	}()
	go func() {
		defer finish()
		readWSIntoPTY(conn, sess)
	}()

	select {
	case <-done:
	case <-r.Context().Done():
	}

	// Closing the pty unblocks one pump; closing the websocket unblocks the
	// other.
	sess.close()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func copyPTYToWS(ptmx *os.File, conn *websocket.Conn) {
	buf := make([]byte, 32*1024)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func readWSIntoPTY(conn *websocket.Conn, sess *ptySession) {
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		// Control frames are JSON objects; keystrokes arrive as plain text or
		// binary and go straight to the pty.
		if mt == websocket.TextMessage && len(data) > 0 && data[0] == '{' {
			var m wsMsg
			if json.Unmarshal(data, &m) == nil && strings.EqualFold(strings.TrimSpace(m.Type), "resize") {
				sess.resize(m.Cols, m.Rows)
			}
			continue
		}
		if len(data) == 0 {
			continue
		}
		if _, err := sess.ptmx.Write(data); err != nil {
			return
		}
	}
}
