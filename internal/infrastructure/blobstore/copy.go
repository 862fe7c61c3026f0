package blobstore

import (
	"context"
	"io"

	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// copyLimited copies r into w, failing once more than max bytes arrive.
func copyLimited(ctx context.Context, w io.Writer, r io.Reader, max int64) (int64, error) {
	src := io.Reader(ctxReader{ctx: ctx, r: r})
	if max > 0 {
		src = io.LimitReader(src, max+1)
	}
	n, err := io.Copy(w, src)
	if err != nil {
		return n, err
	}
	if max > 0 && n > max {
		return n, domerrors.Invalid("file", "exceeds the maximum upload size")
	}
	return n, nil
}
