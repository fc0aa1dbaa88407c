package remote

import (
	"io"
	"os"

	"github.com/pkg/sftp"
)

// Download copies a remote file to a local path over SFTP.
func (c *Client) Download(remotePath, localPath string) error {
	client, err := sftp.NewClient(c.conn)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	src, err := client.Open(remotePath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Sync()
}

// Upload copies a local file to a remote path over SFTP.
func (c *Client) Upload(localPath, remotePath string) error {
	client, err := sftp.NewClient(c.conn)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := client.Create(remotePath)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()

	_, err = io.Copy(dst, src)
	return err
}
