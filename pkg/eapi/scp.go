package eapi

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"

	"golang.org/x/crypto/ssh"
)

// ScpUpload copies a local file to the device file system over SSH,
// speaking the scp sink protocol to the remote side. EOS exposes
// flash: as /mnt/flash, so a remotePath of "/mnt/flash/<name>" stages
// a file for "copy flash:<name> session-config".
func ScpUpload(ctx context.Context, host, user, pass, localPath, remotePath string) error {
	config := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.Password(pass),
		},
		// Switch host keys are not part of the design inventory, so
		// they are not verified.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         probeTimeout,
	}

	addr := net.JoinHostPort(host, "22")
	dialer := net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("SSH dial %s: %w", host, err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SSH handshake %s: %w", host, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("SSH session: %w", err)
	}
	defer session.Close()

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("SSH stdin: %w", err)
	}

	sendErr := make(chan error, 1)
	go func() {
		defer stdin.Close()
		if _, err := fmt.Fprintf(stdin, "C0644 %d %s\n", st.Size(), path.Base(remotePath)); err != nil {
			sendErr <- err
			return
		}
		if _, err := io.Copy(stdin, f); err != nil {
			sendErr <- err
			return
		}
		_, err := fmt.Fprint(stdin, "\x00")
		sendErr <- err
	}()

	output, runErr := session.CombinedOutput("scp -t " + remotePath)
	if err := <-sendErr; err != nil {
		return fmt.Errorf("scp send %s: %w", localPath, err)
	}
	if runErr != nil {
		return fmt.Errorf("scp %s to %s:%s: %s: %w",
			localPath, host, remotePath, strings.TrimSpace(string(output)), runErr)
	}
	return nil
}
