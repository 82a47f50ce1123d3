package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Desktop shows notifications through the platform's notification tool:
// notify-send on Linux and the BSDs, osascript on macOS and a PowerShell
// balloon tip on Windows.
type Desktop struct {
	GOOS     string
	LookPath func(file string) (string, error)
}

func NewDesktop() Desktop {
	return Desktop{GOOS: runtime.GOOS, LookPath: exec.LookPath}
}

// Command returns the argv that shows n, or ErrUnsupported.
func (d Desktop) Command(n Notification) ([]string, error) {
	lookPath := d.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	var argv []string
	switch d.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s",
			appleScriptString(n.Message), appleScriptString(n.Title))
		argv = []string{"osascript", "-e", script}
	case "windows":
		ms := strconv.Itoa(int(ShowDuration.Milliseconds()))
		script := strings.Join([]string{
			"Add-Type -AssemblyName System.Windows.Forms",
			"$n = New-Object System.Windows.Forms.NotifyIcon",
			"$n.Icon = [System.Drawing.SystemIcons]::Information",
			"$n.Visible = $true",
			fmt.Sprintf("$n.ShowBalloonTip(%s, %s, %s, 'Info')", ms, psString(n.Title), psString(n.Message)),
			"Start-Sleep -Milliseconds " + ms,
			"$n.Dispose()",
		}, "; ")
		argv = []string{"powershell", "-NoProfile", "-NonInteractive", "-Command", script}
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		ms := strconv.Itoa(int(ShowDuration.Milliseconds()))
		argv = []string{"notify-send", "--app-name=remmeter", "--expire-time=" + ms, n.Title, n.Message}
	default:
		return nil, fmt.Errorf("%w on %s", ErrUnsupported, d.GOOS)
	}
	if _, err := lookPath(argv[0]); err != nil {
		return nil, fmt.Errorf("%w: %s not found", ErrUnsupported, argv[0])
	}
	return argv, nil
}

// Show starts the notification process. The handle completes when the
// process exits; closing it early kills the process.
func (d Desktop) Show(ctx context.Context, n Notification) (Handle, error) {
	argv, err := d.Command(n)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}
	p := &process{cmd: cmd, done: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

type process struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
	once sync.Once
}

func (p *process) Done() <-chan struct{} { return p.done }

func (p *process) Err() error {
	<-p.done
	if p.err != nil {
		return fmt.Errorf("%s: %w", p.cmd.Path, p.err)
	}
	return nil
}

func (p *process) Close() error {
	var err error
	p.once.Do(func() {
		select {
		case <-p.done:
			return
		default:
		}
		if err = p.cmd.Process.Kill(); errors.Is(err, os.ErrProcessDone) {
			err = nil
		}
		<-p.done
	})
	return err
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func psString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
