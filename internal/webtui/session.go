package webtui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// resizeMsg is the only control frame the browser sends; everything else is
// raw keystroke data for the PTY.
type resizeMsg struct {
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
		// Basic same-origin check; good enough for localhost use.
		return strings.Contains(origin, "://"+strings.TrimSpace(r.Host))
	},
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "websocket upgrade failed", http.StatusBadRequest)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess, err := s.startSession()
	if err != nil {
		s.log.Warn("webtui session start failed", zap.Error(err))
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start session: "+err.Error()))
		return
	}
	defer sess.close()

	done := make(chan struct{}, 2)
	go func() {
		sess.pumpToBrowser(ctx, conn)
		done <- struct{}{}
	}()
	go func() {
		sess.pumpFromBrowser(ctx, conn)
		done <- struct{}{}
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}
	cancel()
	sess.kill()
	<-done
}

// session is one browser tab: a worktrack TUI subprocess on a PTY.
type session struct {
	ptmx *os.File
	cmd  *exec.Cmd
}

func (s *Server) startSession() (*session, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}

	args := []string{}
	if p := strings.TrimSpace(s.cfg.Profile); p != "" {
		args = append(args, "--profile", p)
	}
	if s.cfg.Offline {
		args = append(args, "--offline")
	}
	// No subcommand means the interactive TUI.
	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: 120, Rows: 40})
	if err != nil {
		return nil, err
	}
	return &session{ptmx: ptmx, cmd: cmd}, nil
}

func (s *session) kill() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
}

func (s *session) close() {
	_ = s.ptmx.Close()
	s.kill()
	if s.cmd != nil && s.cmd.Process != nil {
		_, _ = s.cmd.Process.Wait()
	}
}

func (s *session) pumpToBrowser(ctx context.Context, conn *websocket.Conn) {
	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			return
		}
	}
}

func (s *session) pumpFromBrowser(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		// Resize frames are JSON text; keystrokes pass through untouched.
		if mt == websocket.TextMessage && len(data) > 0 && data[0] == '{' {
			var m resizeMsg
			if jerr := json.Unmarshal(data, &m); jerr != nil {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(m.Type), "resize") && m.Cols > 0 && m.Rows > 0 {
				_ = pty.Setsize(s.ptmx, &pty.Winsize{Cols: uint16(m.Cols), Rows: uint16(m.Rows)})
			}
			continue
		}
		if len(data) == 0 {
			continue
		}
		if _, err := s.ptmx.Write(data); err != nil {
			return
		}
	}
}
