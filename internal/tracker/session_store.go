package tracker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tracker_bot/internal/logger"
)

const sessionExt = ".session"

// SessionStore 管理每个用户的账号凭证文件
// 目录结构：<root>/<user_id>/<name>.session，每个用户最多一个有效凭证
type SessionStore struct {
	root    string
	factory ClientFactory
}

// NewSessionStore 创建凭证存储
func NewSessionStore(root string, factory ClientFactory) *SessionStore {
	return &SessionStore{root: root, factory: factory}
}

// userDir 用户凭证目录
func (s *SessionStore) userDir(userID int64) string {
	return filepath.Join(s.root, strconv.FormatInt(userID, 10))
}

// findSessionFile 返回用户目录下第一个 .session 文件，找不到返回空串
func (s *SessionStore) findSessionFile(userID int64) string {
	entries, err := os.ReadDir(s.userDir(userID))
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), sessionExt) {
			return filepath.Join(s.userDir(userID), entry.Name())
		}
	}
	return ""
}

// HasCredential 用户是否有已上传的凭证
func (s *SessionStore) HasCredential(userID int64) bool {
	return s.findSessionFile(userID) != ""
}

// Acquire 定位用户凭证，建立连接并校验授权状态
// 凭证缺失返回 ErrNoCredential，失效返回 ErrUnauthorized（连接已断开）
func (s *SessionStore) Acquire(ctx context.Context, userID int64) (ChatClient, error) {
	sessionPath := s.findSessionFile(userID)
	if sessionPath == "" {
		logger.WithUser(userID).Warnf("No .session file under %s", s.userDir(userID))
		return nil, ErrNoCredential
	}

	client, err := s.factory.NewClient(sessionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build chat client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	authorized, err := client.IsAuthorized(ctx)
	if err != nil {
		_ = client.Disconnect()
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}
	if !authorized {
		logger.WithUser(userID).Warnf("Session %s is no longer authorized", sessionPath)
		_ = client.Disconnect()
		return nil, ErrUnauthorized
	}

	logger.WithUser(userID).Infof("Session %s connected and authorized", sessionPath)
	return client, nil
}

// Replace 原子替换用户凭证：先写临时文件，清掉所有旧的
// .session 文件（含残缺文件），再改名入位，保证替换后最多一个凭证
func (s *SessionStore) Replace(userID int64, name string, r io.Reader) error {
	dir := s.userDir(userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	base := filepath.Base(name)
	if !strings.HasSuffix(base, sessionExt) {
		return fmt.Errorf("credential file must have %s extension, got %q", sessionExt, base)
	}

	tmp, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write credential: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := s.removeSessions(userID); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, filepath.Join(dir, base)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move credential into place: %w", err)
	}

	logger.WithUser(userID).Infof("Session credential replaced: %s", base)
	return nil
}

// Discard 删除用户全部凭证文件（凭证失效后调用）
func (s *SessionStore) Discard(userID int64) error {
	if err := s.removeSessions(userID); err != nil {
		return err
	}
	logger.WithUser(userID).Info("Session credentials discarded")
	return nil
}

// removeSessions 删除用户目录下所有 .session 文件
func (s *SessionStore) removeSessions(userID int64) error {
	dir := s.userDir(userID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read session dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), sessionExt) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove stale credential %s: %w", entry.Name(), err)
		}
	}
	return nil
}
