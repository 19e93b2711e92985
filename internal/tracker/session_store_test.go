package tracker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeFactory 返回预设客户端并记录收到的凭证路径
type fakeFactory struct {
	client      *fakeClient
	err         error
	sessionPath string
}

func (f *fakeFactory) NewClient(sessionPath string) (ChatClient, error) {
	f.sessionPath = sessionPath
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

func writeSessionFile(t *testing.T, root string, userID, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return path
}

func TestAcquireNoCredential(t *testing.T) {
	store := NewSessionStore(t.TempDir(), &fakeFactory{client: newFakeClient()})

	_, err := store.Acquire(context.Background(), testUserID)
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestAcquireConnectsAndChecksAuth(t *testing.T) {
	root := t.TempDir()
	writeSessionFile(t, root, "123456789", "+79599999999.session", "blob")

	client := newFakeClient()
	factory := &fakeFactory{client: client}
	store := NewSessionStore(root, factory)

	got, err := store.Acquire(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if got != ChatClient(client) {
		t.Fatal("unexpected client returned")
	}
	if !client.connected {
		t.Error("client must be connected")
	}
	if !strings.HasSuffix(factory.sessionPath, "+79599999999.session") {
		t.Errorf("factory got wrong session path: %s", factory.sessionPath)
	}
}

func TestAcquireUnauthorizedDisconnects(t *testing.T) {
	root := t.TempDir()
	writeSessionFile(t, root, "123456789", "acc.session", "blob")

	client := newFakeClient()
	client.authorized = false
	store := NewSessionStore(root, &fakeFactory{client: client})

	_, err := store.Acquire(context.Background(), testUserID)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !client.isDisconnected() {
		t.Error("client must be disconnected after failed auth check")
	}
}

func TestReplaceSupersedesOldCredentials(t *testing.T) {
	root := t.TempDir()
	writeSessionFile(t, root, "123456789", "old.session", "stale")
	writeSessionFile(t, root, "123456789", "corrupt.session", "")

	store := NewSessionStore(root, &fakeFactory{client: newFakeClient()})

	if err := store.Replace(testUserID, "+79001112233.session", strings.NewReader("fresh")); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "123456789"))
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 1 || names[0] != "+79001112233.session" {
		t.Fatalf("expected exactly one fresh credential, got %v", names)
	}

	data, _ := os.ReadFile(filepath.Join(root, "123456789", "+79001112233.session"))
	if string(data) != "fresh" {
		t.Errorf("unexpected credential contents: %q", data)
	}
}

func TestReplaceRejectsWrongExtension(t *testing.T) {
	store := NewSessionStore(t.TempDir(), &fakeFactory{client: newFakeClient()})

	if err := store.Replace(testUserID, "malware.exe", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for non-.session upload")
	}
}

func TestReplaceStripsDirectoryComponents(t *testing.T) {
	root := t.TempDir()
	store := NewSessionStore(root, &fakeFactory{client: newFakeClient()})

	if err := store.Replace(testUserID, "../../evil.session", strings.NewReader("x")); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "123456789", "evil.session")); err != nil {
		t.Fatalf("credential must land inside the user dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "evil.session")); !os.IsNotExist(err) {
		t.Fatal("credential escaped the user dir")
	}
}

func TestDiscardRemovesCredentials(t *testing.T) {
	root := t.TempDir()
	writeSessionFile(t, root, "123456789", "acc.session", "blob")
	store := NewSessionStore(root, &fakeFactory{client: newFakeClient()})

	if !store.HasCredential(testUserID) {
		t.Fatal("expected credential before discard")
	}
	if err := store.Discard(testUserID); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if store.HasCredential(testUserID) {
		t.Fatal("credential must be gone after discard")
	}
}

func TestDiscardMissingDirIsNoop(t *testing.T) {
	store := NewSessionStore(t.TempDir(), &fakeFactory{client: newFakeClient()})
	if err := store.Discard(testUserID); err != nil {
		t.Fatalf("Discard on missing dir must be a no-op, got %v", err)
	}
}
