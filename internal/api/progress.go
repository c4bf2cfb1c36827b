package api

import "io"

// ProgressFunc receives upload progress as an integer percent, 0 to 100.
// It is called at most once per percent step.
type ProgressFunc func(percent int)

// progressReader counts bytes flowing through an upload body and reports
// percent milestones to the callback.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	fn    ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, last: -1, fn: fn}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.fn == nil || p.total <= 0 {
		return
	}
	percent := int(p.read * 100 / p.total)
	if percent > 100 {
		percent = 100
	}
	if percent != p.last {
		p.last = percent
		p.fn(percent)
	}
}
