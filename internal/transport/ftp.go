package transport

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/jlaffaye/ftp"

	"github.com/NamanBalaji/anyio/internal/errors"
	"github.com/NamanBalaji/anyio/internal/logger"
)

const (
	anonymousUser = "anonymous"
	anonymousPass = "anyio"
)

type ftpTarget struct {
	addr string
	user string
	pass string
	path string
}

func parseFTPLocator(locator string) (ftpTarget, error) {
	u, err := url.Parse(locator)
	if err != nil || u.Scheme != "ftp" || u.Host == "" {
		return ftpTarget{}, errors.NewNetwork(errors.New("invalid ftp locator"), locator, false)
	}

	addr := u.Host
	if u.Port() == "" {
		addr += ":21"
	}

	target := ftpTarget{
		addr: addr,
		user: anonymousUser,
		pass: anonymousPass,
		path: strings.TrimPrefix(u.Path, "/"),
	}

	if u.User != nil {
		target.user = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			target.pass = pass
		}
	}

	return target, nil
}

// ftpResponse ties the retrieval stream to its control connection so
// closing the stream also quits the session.
type ftpResponse struct {
	io.ReadCloser
	conn *ftp.ServerConn
}

func (r *ftpResponse) Close() error {
	err := r.ReadCloser.Close()
	if quitErr := r.conn.Quit(); err == nil {
		err = quitErr
	}
	return err
}

func openFTP(ctx context.Context, locator string, cfg Config) (io.ReadCloser, int64, error) {
	target, err := parseFTPLocator(locator)
	if err != nil {
		return nil, SizeUnknown, err
	}

	conn, err := ftp.Dial(target.addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(cfg.timeout()))
	if err != nil {
		return nil, SizeUnknown, errors.NewNetwork(err, locator, true)
	}

	if err := conn.Login(target.user, target.pass); err != nil {
		conn.Quit()
		return nil, SizeUnknown, errors.NewNetwork(err, locator, false)
	}

	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		conn.Quit()
		return nil, SizeUnknown, errors.NewNetwork(err, locator, true)
	}

	// Size is advisory; servers without SIZE support still stream fine.
	size := SizeUnknown
	if n, err := conn.FileSize(target.path); err == nil {
		size = n
	}

	resp, err := conn.Retr(target.path)
	if err != nil {
		conn.Quit()
		logger.Debugf("ftp RETR %s failed: %v", target.path, err)
		return nil, SizeUnknown, errors.NewNetwork(err, locator, true)
	}

	return &ftpResponse{ReadCloser: resp, conn: conn}, size, nil
}
