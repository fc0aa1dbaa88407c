package remote

import (
	"fmt"
	"strings"
)

// findDBScript probes the well-known x-ui database locations first and
// falls back to a depth-bounded filesystem search, printing either the
// path or NOT_FOUND.
const findDBScript = `
set -e
DB=""
for p in /etc/x-ui/x-ui.db /usr/local/x-ui/x-ui.db /opt/x-ui/x-ui.db; do
  if [ -f "$p" ]; then DB="$p"; break; fi
done
if [ -z "$DB" ]; then
  DB=$(sudo find / -maxdepth 6 -name "x-ui.db" 2>/dev/null | head -n 1 || true)
fi
if [ -z "$DB" ]; then
  echo "NOT_FOUND"
else
  echo "$DB"
fi
`

// FindDBPath locates the x-ui database on the connected server. The
// second return is false when no database was found.
func (c *Client) FindDBPath() (string, bool, error) {
	code, out, stderr, err := c.Run(findDBScript)
	if err != nil {
		return "", false, err
	}
	if code != 0 {
		return "", false, fmt.Errorf("db search failed: %s", strings.TrimSpace(out+"\n"+stderr))
	}
	lines := strings.Fields(strings.TrimSpace(out))
	if len(lines) == 0 {
		return "", false, nil
	}
	path := lines[len(lines)-1]
	if path == "NOT_FOUND" || path == "" {
		return "", false, nil
	}
	return path, true, nil
}

// RestartPanel restarts the x-ui service, tolerating either launcher.
func (c *Client) RestartPanel() {
	_, _, _, _ = c.Run("sudo x-ui restart || sudo systemctl restart x-ui || true")
}

// StageCopy copies a remote file to a world-readable temp path so SFTP
// can fetch it without root, and returns that path.
func (c *Client) StageCopy(remotePath, tmpPath string) error {
	cmd := fmt.Sprintf(`set -e
sudo cp %s %s
sudo chmod 644 %s || true`, shellQuote(remotePath), shellQuote(tmpPath), shellQuote(tmpPath))
	code, out, stderr, err := c.Run(cmd)
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("staging %s failed: %s", remotePath, strings.TrimSpace(out+"\n"+stderr))
	}
	return nil
}

// InstallFile moves an uploaded temp file over the live database path
// with root privileges.
func (c *Client) InstallFile(tmpPath, remotePath string) error {
	cmd := fmt.Sprintf(`set -e
sudo mv %s %s`, shellQuote(tmpPath), shellQuote(remotePath))
	code, out, stderr, err := c.Run(cmd)
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("installing %s failed: %s", remotePath, strings.TrimSpace(out+"\n"+stderr))
	}
	return nil
}

// Remove deletes a remote file, best effort.
func (c *Client) Remove(remotePath string) {
	_, _, _, _ = c.Run(fmt.Sprintf("sudo rm -f %s || true", shellQuote(remotePath)))
}

// shellQuote wraps a path in single quotes, escaping embedded ones.
// Paths come from our own temp naming or from the db search, but an
// operator-supplied panel path could reach here too.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
