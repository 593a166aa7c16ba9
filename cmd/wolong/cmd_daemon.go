package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/felixgeelhaar/wolong/internal/config"
	"github.com/felixgeelhaar/wolong/internal/daemon"
	"github.com/felixgeelhaar/wolong/internal/domain"
)

// daemonClient talks to a local wolongd over its JSON API.
type daemonClient struct {
	base string
	http *http.Client
	poll time.Duration
}

func newDaemonClient(base string) *daemonClient {
	return &daemonClient{
		base: base,
		http: &http.Client{Timeout: time.Second},
		poll: 100 * time.Millisecond,
	}
}

// configuredDaemon returns a client for the address in the local config.
func configuredDaemon() *daemonClient {
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		cfg = config.DefaultLocalConfig()
	}
	return newDaemonClient(fmt.Sprintf("http://%s:%d", cfg.Daemon.Bind, cfg.Daemon.Port))
}

func (c *daemonClient) healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/v1/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// waitHealthy polls until the daemon's health matches want or timeout passes.
func (c *daemonClient) waitHealthy(ctx context.Context, want bool, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()
	for {
		if c.healthy(ctx) == want {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			fmt.Print(".")
		}
	}
}

func (c *daemonClient) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// daemonStatus mirrors GET /v1/status.
type daemonStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Storage  string `json:"storage"`
	Sessions int    `json:"sessions"`
}

// cmdStart launches wolongd detached and waits for it to answer.
func cmdStart() error {
	ctx := context.Background()
	client := configuredDaemon()
	if client.healthy(ctx) {
		fmt.Printf("Daemon already running at %s\n", client.base)
		return nil
	}

	wolongDir, err := config.EnsureWolongDir()
	if err != nil {
		return fmt.Errorf("setup wolong directory: %w", err)
	}
	binary, err := findDaemonBinary()
	if err != nil {
		return err
	}

	cmd := exec.Command(binary)
	cmd.Dir = wolongDir
	detachDaemon(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	_ = cmd.Process.Release()

	fmt.Print("Starting wolongd")
	if !client.waitHealthy(ctx, true, 3*time.Second) {
		fmt.Println(" ✗")
		return errors.New("daemon did not become healthy (see 'wolong logs')")
	}
	fmt.Printf(" ✓\nListening on %s\n", client.base)
	return nil
}

// cmdStop signals the pid wolongd recorded and waits for the API to go away.
func cmdStop() error {
	ctx := context.Background()
	client := configuredDaemon()

	wolongDir, err := config.WolongDir()
	if err != nil {
		return err
	}
	pidFile := daemon.NewPIDFile(wolongDir)

	if !client.healthy(ctx) {
		if _, err := pidFile.Read(); err == nil {
			if err := pidFile.Remove(); err != nil {
				return err
			}
			fmt.Println("Daemon is not running (removed stale pid file)")
			return nil
		}
		fmt.Println("Daemon is not running")
		return nil
	}

	pid, err := pidFile.Read()
	if errors.Is(err, daemon.ErrNoPIDFile) {
		return fmt.Errorf("daemon answers at %s but %s is missing; stop it manually", client.base, pidFile.Path())
	}
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find wolongd (pid %d): %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal wolongd (pid %d): %w", pid, err)
	}

	fmt.Printf("Stopping wolongd (pid %d)", pid)
	if !client.waitHealthy(ctx, false, 5*time.Second) {
		fmt.Println(" ✗")
		return fmt.Errorf("wolongd (pid %d) is still answering", pid)
	}
	fmt.Println(" ✓")
	return nil
}

// cmdStatus reports the daemon and the player it is serving.
func cmdStatus() error {
	ctx := context.Background()
	client := configuredDaemon()
	if !client.healthy(ctx) {
		fmt.Printf("wolongd: stopped (expected at %s)\n", client.base)
		return nil
	}

	var status daemonStatus
	if err := client.getJSON(ctx, "/v1/status", &status); err != nil {
		return err
	}
	var progress domain.PlayerProgress
	if err := client.getJSON(ctx, "/v1/progress", &progress); err != nil {
		return err
	}

	writeStatus(os.Stdout, client.base, status, progress)
	return nil
}

func writeStatus(w io.Writer, addr string, st daemonStatus, p domain.PlayerProgress) {
	fmt.Fprintf(w, "wolongd %s: %s at %s\n", st.Version, st.Status, addr)
	fmt.Fprintf(w, "Storage:      %s\n", st.Storage)
	fmt.Fprintf(w, "Games open:   %d\n", st.Sessions)
	fmt.Fprintf(w, "Player:       %s, %d ⭐, %d/%d achievements\n",
		p.CurrentLevel, p.TotalStars, p.UnlockedCount(), len(p.Achievements))
}

// cmdLogs prints the tail of the daemon log
func cmdLogs() error {
	wolongDir, err := config.WolongDir()
	if err != nil {
		return err
	}

	file, err := os.Open(filepath.Join(wolongDir, "logs", daemon.LogFileName))
	if errors.Is(err, os.ErrNotExist) {
		fmt.Println("No log file yet. Run 'wolong start' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	return tailLines(file, os.Stdout, 4096)
}

// tailLines copies roughly the last window bytes of r to w, starting at a line boundary.
func tailLines(r io.ReadSeeker, w io.Writer, window int64) error {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	offset := max(size-window, 0)
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	reader := bufio.NewReader(r)
	if offset > 0 {
		// Skip the partial first line.
		if _, err := reader.ReadString('\n'); err != nil {
			return nil
		}
	}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		fmt.Fprintln(w, scanner.Text())
	}
	return scanner.Err()
}

// findDaemonBinary prefers a wolongd next to this executable, then PATH.
func findDaemonBinary() (string, error) {
	if self, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), "wolongd")
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}
	if path, err := exec.LookPath("wolongd"); err == nil {
		return path, nil
	}
	return "", errors.New("wolongd not found next to wolong or on PATH (go install ./cmd/wolongd)")
}
