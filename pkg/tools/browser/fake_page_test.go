package browser

import (
	"errors"
	"sync"
)

// fakePage records page operations for tool tests.
type fakePage struct {
	mu sync.Mutex

	url     string
	title   string
	html    string
	text    map[string]string
	evalRet interface{}
	err     error

	gotos    []string
	clicks   []ClickOptions
	fills    []FillOptions
	presses  [][2]string
	inserted map[string]string
	waits    []WaitOptions
	evals    []string
	shots    []string
}

func newFakePage() *fakePage {
	return &fakePage{
		url:      "about:blank",
		text:     make(map[string]string),
		inserted: make(map[string]string),
	}
}

func (p *fakePage) Goto(url string, opts NavigateOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.gotos = append(p.gotos, url+"|"+opts.WaitUntil)
	p.url = url
	return nil
}

func (p *fakePage) Click(opts ClickOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.clicks = append(p.clicks, opts)
	return nil
}

func (p *fakePage) Fill(opts FillOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.fills = append(p.fills, opts)
	return nil
}

func (p *fakePage) Press(selector, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.presses = append(p.presses, [2]string{selector, key})
	return nil
}

func (p *fakePage) InsertText(selector, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.inserted[selector] = text
	return nil
}

func (p *fakePage) WaitForSelector(opts WaitOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.waits = append(p.waits, opts)
	return nil
}

func (p *fakePage) Evaluate(expression string) (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.evals = append(p.evals, expression)
	return p.evalRet, nil
}

func (p *fakePage) Content() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.html, nil
}

func (p *fakePage) InnerText(selector string) (string, error) {
	text, ok := p.text[selector]
	if !ok {
		return "", errors.New("no element matches selector")
	}
	return text, nil
}

func (p *fakePage) Screenshot(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.shots = append(p.shots, path)
	return nil
}

func (p *fakePage) Title() (string, error) {
	return p.title, nil
}

func (p *fakePage) URL() string {
	return p.url
}
