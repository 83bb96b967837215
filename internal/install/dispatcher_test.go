package install_test

import (
	"context"
	"crypto/x509"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"xpvcc/internal/editor"
	"xpvcc/internal/install"
	"xpvcc/internal/testsupport"
	"xpvcc/internal/token"
)

func TestDispatchHubSuccessSkipsFetchAndSpawn(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	fetcher := &fakeFetcher{data: []byte("installer")}
	spawner := &fakeSpawner{pid: 1234}
	opener := &fakeOpener{}

	dispatcher := install.NewDispatcher(cfg, st, nil,
		install.WithFetcher(fetcher),
		install.WithSpawner(spawner),
		install.WithHubOpener(opener),
	)
	tok, err := dispatcher.Dispatch(context.Background(), linuxSetting(true))
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if _, ok := tok.(token.Delegated); !ok {
		t.Fatalf("expected delegated token, got %T", tok)
	}
	if fetcher.count() != 0 || spawner.count() != 0 {
		t.Fatalf("hub success must not fetch or spawn (fetch=%d spawn=%d)", fetcher.count(), spawner.count())
	}
	if len(opener.links) != 1 || opener.links[0] != "unityhub://2022.3.6f1/b9e6e7e9fa2d" {
		t.Fatalf("unexpected deep links: %v", opener.links)
	}

	digest, err := token.Digest(tok)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	dispatch, err := st.Dispatch(context.Background(), digest)
	if err != nil || dispatch == nil {
		t.Fatalf("expected recorded dispatch, got %+v, %v", dispatch, err)
	}
	if dispatch.TokenKind != "delegated" || !dispatch.PreferHub || dispatch.PID != 0 {
		t.Fatalf("unexpected dispatch record: %+v", dispatch)
	}
}

func TestDispatchHubFailureFallsBackToDownload(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fetcher := &fakeFetcher{data: []byte("#!/bin/sh\n")}
	spawner := &fakeSpawner{pid: 4321}
	opener := &fakeOpener{err: errors.New("no handler for unityhub")}

	dispatcher := install.NewDispatcher(cfg, nil, nil,
		install.WithFetcher(fetcher),
		install.WithSpawner(spawner),
		install.WithHubOpener(opener),
	)
	tok, err := dispatcher.Dispatch(context.Background(), linuxSetting(true))
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	handle, ok := tok.(token.ProcessHandle)
	if !ok || handle.PID != 4321 {
		t.Fatalf("expected process handle 4321, got %#v", tok)
	}
	if len(opener.links) != 1 || fetcher.count() != 1 || spawner.count() != 1 {
		t.Fatalf("expected one hub attempt then download (links=%d fetch=%d spawn=%d)",
			len(opener.links), fetcher.count(), spawner.count())
	}
}

func TestDispatchHubDisabledIgnoresPreference(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHubDisabled())
	fetcher := &fakeFetcher{data: []byte("x")}
	spawner := &fakeSpawner{pid: 77}
	opener := &fakeOpener{}

	dispatcher := install.NewDispatcher(cfg, nil, nil,
		install.WithFetcher(fetcher),
		install.WithSpawner(spawner),
		install.WithHubOpener(opener),
	)
	if _, err := dispatcher.Dispatch(context.Background(), linuxSetting(true)); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if len(opener.links) != 0 {
		t.Fatalf("expected hub to be skipped, got %v", opener.links)
	}
}

func TestDispatchWritesExecutableInstaller(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	fetcher := &fakeFetcher{data: []byte("payload")}
	spawner := &fakeSpawner{pid: 99}

	dispatcher := install.NewDispatcher(cfg, st, nil,
		install.WithFetcher(fetcher),
		install.WithSpawner(spawner),
	)
	setting := linuxSetting(false)
	setting.Host = editor.HostWindows
	tok, err := dispatcher.Dispatch(context.Background(), setting)
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	wantURL := "https://download.unity3d.com/download_unity/b9e6e7e9fa2d/UnityDownloadAssistant-2022.3.6f1.exe"
	if fetcher.calls[0] != wantURL {
		t.Fatalf("fetched %q, want %q", fetcher.calls[0], wantURL)
	}
	path := spawner.paths[0]
	if filepath.Dir(path) != cfg.Paths.DownloadDir {
		t.Fatalf("installer written outside download dir: %q", path)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "UnityDownloadAssistant-2022.3.6f1-") || !strings.HasSuffix(base, ".exe") {
		t.Fatalf("unexpected installer name %q", base)
	}
	content, err := os.ReadFile(path)
	if err != nil || string(content) != "payload" {
		t.Fatalf("unexpected installer content %q, %v", content, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat installer: %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Fatalf("expected executable mode, got %v", info.Mode())
	}

	digest, _ := token.Digest(tok)
	dispatch, err := st.Dispatch(context.Background(), digest)
	if err != nil || dispatch == nil {
		t.Fatalf("expected dispatch record, got %+v, %v", dispatch, err)
	}
	if dispatch.PID != 99 || dispatch.SourceURL != wantURL || dispatch.InstallerPath != path {
		t.Fatalf("unexpected dispatch record: %+v", dispatch)
	}
}

func TestDispatchFetchFailureIsNetworkError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	spawner := &fakeSpawner{pid: 1}
	dispatcher := install.NewDispatcher(cfg, nil, nil,
		install.WithFetcher(&fakeFetcher{err: &install.StatusError{URL: "u", StatusCode: http.StatusNotFound}}),
		install.WithSpawner(spawner),
	)
	tok, err := dispatcher.Dispatch(context.Background(), linuxSetting(false))
	requireKind(t, err, install.KindNetwork)
	if tok != nil {
		t.Fatalf("expected no token, got %v", tok)
	}
	if install.HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", install.HTTPStatus(err))
	}
	if install.PublicMessage(err) != "failed to download Unity installer" {
		t.Fatalf("unexpected message %q", install.PublicMessage(err))
	}
	if spawner.count() != 0 {
		t.Fatal("spawn must not run after failed fetch")
	}
}

func TestDispatchWriteFailureIsFileSystemError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Paths.DownloadDir = blocker
	spawner := &fakeSpawner{pid: 1}

	dispatcher := install.NewDispatcher(cfg, nil, nil,
		install.WithFetcher(&fakeFetcher{data: []byte("x")}),
		install.WithSpawner(spawner),
	)
	_, err := dispatcher.Dispatch(context.Background(), linuxSetting(false))
	requireKind(t, err, install.KindFileSystem)
	if spawner.count() != 0 {
		t.Fatal("spawn must not run after failed write")
	}
}

func TestDispatchSpawnFailureRemovesInstaller(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	spawner := &fakeSpawner{err: errors.New("exec format error")}
	dispatcher := install.NewDispatcher(cfg, nil, nil,
		install.WithFetcher(&fakeFetcher{data: []byte("x")}),
		install.WithSpawner(spawner),
	)
	_, err := dispatcher.Dispatch(context.Background(), linuxSetting(false))
	requireKind(t, err, install.KindSpawn)
	if install.HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", install.HTTPStatus(err))
	}
	if _, statErr := os.Stat(spawner.paths[0]); !os.IsNotExist(statErr) {
		t.Fatalf("expected installer to be removed, stat err=%v", statErr)
	}
}

func TestDispatchRejectsInvalidSetting(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fetcher := &fakeFetcher{}
	dispatcher := install.NewDispatcher(cfg, nil, nil, install.WithFetcher(fetcher))
	setting := linuxSetting(false)
	setting.Version = "R2000_1_1"
	_, err := dispatcher.Dispatch(context.Background(), setting)
	requireKind(t, err, install.KindInvalidRequest)
	if fetcher.count() != 0 {
		t.Fatal("invalid setting must not fetch")
	}
}

func TestHTTPFetcherDecodesGzipAndSendsUserAgent(t *testing.T) {
	var gotUA, gotPath string
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			_, _ = w.Write([]byte("plain"))
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte("compressed installer"))
		_ = gz.Close()
	}))
	defer server.Close()

	fetcher := install.NewHTTPFetcher(newTrustingClient(server), "XPVCC/test")
	body, err := fetcher.Fetch(context.Background(), server.URL+"/download_unity/x/UnitySetup-1")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(body) != "compressed installer" {
		t.Fatalf("unexpected body %q", body)
	}
	if gotUA != "XPVCC/test" || gotPath != "/download_unity/x/UnitySetup-1" {
		t.Fatalf("unexpected request ua=%q path=%q", gotUA, gotPath)
	}
}

func TestHTTPFetcherReportsClientErrors(t *testing.T) {
	server := httptest.NewTLSServer(http.NotFoundHandler())
	defer server.Close()

	fetcher := install.NewHTTPFetcher(newTrustingClient(server), "")
	_, err := fetcher.Fetch(context.Background(), server.URL+"/missing")
	var statusErr *install.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
}

func TestHTTPFetcherRejectsPlainHTTP(t *testing.T) {
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("plain http server must not be contacted")
	}))
	defer plain.Close()

	fetcher := install.NewHTTPFetcher(nil, "")
	if _, err := fetcher.Fetch(context.Background(), plain.URL+"/x"); err == nil {
		t.Fatal("expected error for http URL")
	}

	redirector := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, plain.URL+"/x", http.StatusFound)
	}))
	defer redirector.Close()
	secure := install.NewHTTPFetcher(newTrustingClient(redirector), "")
	if _, err := secure.Fetch(context.Background(), redirector.URL+"/start"); err == nil {
		t.Fatal("expected error for redirect to http")
	}
}

func newTrustingClient(server *httptest.Server) *http.Client {
	pool := x509.NewCertPool()
	pool.AddCert(server.Certificate())
	return install.NewHTTPClient(install.ClientOptions{RootCAs: pool})
}
