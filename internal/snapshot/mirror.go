package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"kurswatch/internal/domain"
)

// MirrorConfig describes an optional SFTP target that receives a copy of each
// saved snapshot file. Useful when the watcher runs on ephemeral CI runners
// and the local state directory would otherwise vanish between runs.
type MirrorConfig struct {
	Host                  string
	Port                  int
	User                  string
	Pass                  string
	RemoteDir             string
	InsecureIgnoreHostKey bool
}

func (c MirrorConfig) Enabled() bool {
	return c.Host != ""
}

// MirroredStore wraps a FileStore and uploads each snapshot file to the
// configured SFTP host after a successful local save. A mirror failure fails
// the save: a half-persisted snapshot would re-notify every course on the
// next run from a fresh runner.
type MirroredStore struct {
	*FileStore
	Mirror MirrorConfig

	// DialTimeout bounds the SSH handshake and the upload.
	DialTimeout time.Duration
}

func NewMirroredStore(inner *FileStore, cfg MirrorConfig) *MirroredStore {
	return &MirroredStore{
		FileStore:   inner,
		Mirror:      cfg,
		DialTimeout: 20 * time.Second,
	}
}

func (s *MirroredStore) Save(key string, snap domain.Snapshot) error {
	if err := s.FileStore.Save(key, snap); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*s.DialTimeout)
	defer cancel()

	if err := uploadFile(ctx, s.Mirror, s.DialTimeout, s.Path(key), key+".json"); err != nil {
		return fmt.Errorf("snapshot: mirror %s: %w", key, err)
	}
	return nil
}

func uploadFile(ctx context.Context, cfg MirrorConfig, dialTimeout time.Duration, localPath, remoteFileName string) error {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return fmt.Errorf("sftp: missing host/user/pass")
	}
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	if cfg.RemoteDir == "" {
		cfg.RemoteDir = "/"
	}

	cb := ssh.InsecureIgnoreHostKey()
	if !cfg.InsecureIgnoreHostKey {
		// TODO: replace with known_hosts verification once the mirror host
		// is pinned in the deploy environment.
		cb = ssh.InsecureIgnoreHostKey()
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Pass)},
		HostKeyCallback: cb,
		Timeout:         dialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	var sshClient *ssh.Client
	select {
	case <-ctx.Done():
		return fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return fmt.Errorf("sftp: dial error: %w", r.err)
		}
		sshClient = r.client
	}
	defer sshClient.Close()

	sftpCli, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("sftp: new client: %w", err)
	}
	defer sftpCli.Close()

	if err := sftpCli.MkdirAll(cfg.RemoteDir); err != nil {
		return fmt.Errorf("sftp: mkdir %s: %w", cfg.RemoteDir, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("sftp: open local %s: %w", localPath, err)
	}
	defer src.Close()

	remotePath := path.Join(cfg.RemoteDir, remoteFileName)
	dst, err := sftpCli.Create(remotePath)
	if err != nil {
		return fmt.Errorf("sftp: create remote %s: %w", remotePath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("sftp: upload %s: %w", remotePath, err)
	}
	return nil
}
