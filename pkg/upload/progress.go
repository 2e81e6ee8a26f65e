package upload

import "io"

// progressReader counts bytes flowing through r and reports whole
// percentages of total. Seeking rewinds the count, so retries and checksum
// passes that re-read the body report from the new position.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(int)
}

func newProgressReader(r io.Reader, total int64, report func(int)) *progressReader {
	return &progressReader{r: r, total: total, last: -1, report: report}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.emit()
	}
	return n, err
}

func (p *progressReader) Seek(offset int64, whence int) (int64, error) {
	seeker, ok := p.r.(io.Seeker)
	if !ok {
		return 0, errNotSeekable
	}
	pos, err := seeker.Seek(offset, whence)
	if err != nil {
		return pos, err
	}
	p.read = pos
	return pos, nil
}

func (p *progressReader) emit() {
	if p.report == nil || p.total <= 0 {
		return
	}
	pct := percentOf(p.read, p.total)
	if pct == p.last {
		return
	}
	p.last = pct
	p.report(pct)
}

func percentOf(done, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := int(done * 100 / total)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
