package eos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/netmatch-network/netmatch/pkg/eapi"
	"github.com/netmatch-network/netmatch/pkg/util"
)

// configServer scripts an eAPI endpoint for config workflow tests. It
// records every command batch, answers the session diff and running
// config text commands from fields, and fails the batch containing
// failCmd the way EOS fails a bad copy.
type configServer struct {
	mu      sync.Mutex
	batches [][]string

	diff    string
	running string

	failCmd string
	failErr string
}

func (s *configServer) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Params struct {
			Cmds   []string `json:"cmds"`
			Format string   `json:"format"`
		} `json:"params"`
		ID uint64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.batches = append(s.batches, req.Params.Cmds)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	for i, cmd := range req.Params.Cmds {
		if s.failCmd != "" && cmd == s.failCmd {
			data := make([]map[string]any, i+1)
			for j := range data {
				data[j] = map[string]any{}
			}
			data[i] = map[string]any{"errors": []string{s.failErr}}
			json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0", "id": req.ID,
				"error": map[string]any{
					"code":    1002,
					"message": fmt.Sprintf("CLI command %d of %d '%s' failed: could not run command", i+1, len(req.Params.Cmds), cmd),
					"data":    data,
				},
			})
			return
		}
	}

	results := make([]json.RawMessage, len(req.Params.Cmds))
	for i, cmd := range req.Params.Cmds {
		if req.Params.Format != "text" {
			results[i] = json.RawMessage(`{}`)
			continue
		}
		var output string
		switch {
		case strings.HasPrefix(cmd, "show session-config named"):
			output = s.diff
		case cmd == "show running-config":
			output = s.running
		}
		enc, _ := json.Marshal(map[string]string{"output": output})
		results[i] = enc
	}
	json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0", "id": req.ID, "result": results,
	})
}

func (s *configServer) batchLog() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.batches))
	copy(out, s.batches)
	return out
}

// newConfigTestManager wires a ConfigManager to a scripted server.
// Callers must close the returned server.
func newConfigTestManager(t *testing.T, s *configServer) (*ConfigManager, *httptest.Server) {
	t.Helper()
	ts := httptest.NewTLSServer(http.HandlerFunc(s.handle))
	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parse test server URL: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split test server host: %v", err)
	}
	port, _ := strconv.Atoi(portStr)
	c := eapi.New(host,
		eapi.WithPort(port),
		eapi.WithInsecure(true),
		eapi.WithCreds("admin", "secret"))
	return NewConfigManager("sw01", c, "admin", "secret"), ts
}

func TestConfigFileNames(t *testing.T) {
	m := NewConfigManager("sw01", eapi.New("sw01"), "admin", "secret")
	m.SetConfigFile("/tmp/configs/sw01.cfg")
	if got := m.LocalFile(); got != "flash:sw01.cfg" {
		t.Errorf("LocalFile() = %q, want flash:sw01.cfg", got)
	}
}

func TestConfigRunning(t *testing.T) {
	srv := &configServer{running: "hostname sw01\n!\nend\n"}
	m, ts := newConfigTestManager(t, srv)
	defer ts.Close()

	got, err := m.Running(context.Background())
	if err != nil {
		t.Fatalf("Running failed: %v", err)
	}
	if got != srv.running {
		t.Errorf("Running() = %q, want %q", got, srv.running)
	}
}

func TestConfigCheckClean(t *testing.T) {
	srv := &configServer{
		diff: "--- system:/running-config\n+++ session-config\n+ntp server 10.0.0.9\n",
	}
	m, ts := newConfigTestManager(t, srv)
	defer ts.Close()

	m.SetConfigFile("/tmp/configs/sw01.cfg")
	m.SetSessionID("netmatch-1")
	if got := m.Session().Name(); got != "netmatch-1" {
		t.Errorf("Session().Name() = %q, want netmatch-1", got)
	}

	loadErrs, err := m.Check(context.Background(), true)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if loadErrs != "" {
		t.Errorf("Check load errors = %q, want none", loadErrs)
	}
	if m.LastDiff() != srv.diff {
		t.Errorf("LastDiff() = %q, want %q", m.LastDiff(), srv.diff)
	}

	want := [][]string{
		{"configure session netmatch-1", "rollback clean-config", "copy flash:sw01.cfg session-config"},
		{"show session-config named netmatch-1 diffs"},
		{"configure session netmatch-1 abort"},
	}
	if got := srv.batchLog(); !reflect.DeepEqual(got, want) {
		t.Errorf("command batches:\n got %v\nwant %v", got, want)
	}
}

func TestConfigCheckLoadErrors(t *testing.T) {
	srv := &configServer{
		failCmd: "copy flash:sw01.cfg session-config",
		failErr: "% Invalid input (at token 2)",
	}
	m, ts := newConfigTestManager(t, srv)
	defer ts.Close()

	m.SetConfigFile("/tmp/configs/sw01.cfg")
	m.SetSessionID("netmatch-1")

	loadErrs, err := m.Check(context.Background(), true)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if loadErrs != srv.failErr {
		t.Errorf("Check load errors = %q, want %q", loadErrs, srv.failErr)
	}

	// The session is still aborted after a failed load.
	batches := srv.batchLog()
	last := batches[len(batches)-1]
	if len(last) != 1 || last[0] != "configure session netmatch-1 abort" {
		t.Errorf("last batch = %v, want session abort", last)
	}
}

func TestConfigDiff(t *testing.T) {
	srv := &configServer{diff: "+interface Ethernet1\n"}
	m, ts := newConfigTestManager(t, srv)
	defer ts.Close()

	m.SetSessionID("netmatch-1")
	diff, err := m.Diff(context.Background())
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if diff != srv.diff {
		t.Errorf("Diff() = %q, want %q", diff, srv.diff)
	}
	if m.LastDiff() != srv.diff {
		t.Errorf("LastDiff() = %q, want %q", m.LastDiff(), srv.diff)
	}
}

func TestConfigReplace(t *testing.T) {
	srv := &configServer{diff: "+ntp server 10.0.0.9\n"}
	m, ts := newConfigTestManager(t, srv)
	defer ts.Close()

	m.SetConfigFile("/tmp/configs/sw01.cfg")
	m.SetSessionID("netmatch-1")

	if err := m.Replace(context.Background(), 10); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if m.LastDiff() != srv.diff {
		t.Errorf("LastDiff() = %q, want %q", m.LastDiff(), srv.diff)
	}

	want := [][]string{
		{"configure session netmatch-1", "rollback clean-config", "copy flash:sw01.cfg session-config"},
		{"show session-config named netmatch-1 diffs"},
		{"configure session netmatch-1 commit timer 00:10:00"},
		{"configure session netmatch-1 commit"},
		{"write"},
	}
	if got := srv.batchLog(); !reflect.DeepEqual(got, want) {
		t.Errorf("command batches:\n got %v\nwant %v", got, want)
	}
}

func TestConfigReplaceNoDiff(t *testing.T) {
	srv := &configServer{diff: "\n"}
	m, ts := newConfigTestManager(t, srv)
	defer ts.Close()

	m.SetConfigFile("/tmp/configs/sw01.cfg")
	m.SetSessionID("netmatch-1")

	if err := m.Replace(context.Background(), 10); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	want := [][]string{
		{"configure session netmatch-1", "rollback clean-config", "copy flash:sw01.cfg session-config"},
		{"show session-config named netmatch-1 diffs"},
		{"configure session netmatch-1 abort"},
	}
	if got := srv.batchLog(); !reflect.DeepEqual(got, want) {
		t.Errorf("command batches:\n got %v\nwant %v", got, want)
	}
}

func TestConfigMergeUnsupported(t *testing.T) {
	m := NewConfigManager("sw01", eapi.New("sw01"), "admin", "secret")
	err := m.Merge(context.Background(), 10)
	if !errors.Is(err, util.ErrUnsupported) {
		t.Errorf("Merge error = %v, want ErrUnsupported", err)
	}
}

func TestConfigDeleteFile(t *testing.T) {
	srv := &configServer{}
	m, ts := newConfigTestManager(t, srv)
	defer ts.Close()

	m.SetConfigFile("/tmp/configs/sw01.cfg")
	if err := m.DeleteFile(context.Background()); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}

	want := [][]string{{"delete flash:sw01.cfg"}}
	if got := srv.batchLog(); !reflect.DeepEqual(got, want) {
		t.Errorf("command batches:\n got %v\nwant %v", got, want)
	}
}

func TestConfigNoSession(t *testing.T) {
	m := NewConfigManager("sw01", eapi.New("sw01"), "admin", "secret")
	m.SetConfigFile("/tmp/configs/sw01.cfg")

	if _, err := m.Check(context.Background(), true); err == nil || !strings.Contains(err.Error(), "no config session") {
		t.Errorf("Check error = %v, want no config session", err)
	}
	if err := m.Replace(context.Background(), 10); err == nil || !strings.Contains(err.Error(), "no config session") {
		t.Errorf("Replace error = %v, want no config session", err)
	}
}

func TestConfigStageNoFile(t *testing.T) {
	m := NewConfigManager("sw01", eapi.New("sw01"), "admin", "secret")
	if err := m.Stage(context.Background()); err == nil || !strings.Contains(err.Error(), "no config file set") {
		t.Errorf("Stage error = %v, want no config file set", err)
	}
}
