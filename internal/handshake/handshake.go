// Package handshake moves one question at a time from the examination view to
// the input surface and the answered question back. Both ends poll; nothing
// blocks.
package handshake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pavelanni/examterm/internal/model"
)

var (
	// ErrProtocolViolation marks a second request while one is in flight, or
	// a response for a question nobody is waiting on. It is not recoverable.
	ErrProtocolViolation = errors.New("answer handshake protocol violation")
	// ErrNothingInFlight is returned by the responder when it holds no request.
	ErrNothingInFlight = errors.New("no question in flight")
)

// Response carries the question back. Cancelled responses hold the question
// exactly as it was sent.
type Response struct {
	Question  model.Question
	Cancelled bool
}

type pipe struct {
	requests  chan model.Question
	responses chan Response
}

// New returns the two ends of a handshake.
func New() (*Requester, *Responder) {
	p := &pipe{
		requests:  make(chan model.Question, 1),
		responses: make(chan Response, 1),
	}
	return &Requester{p: p}, &Responder{p: p}
}

// Requester is the session's end.
type Requester struct {
	p *pipe

	mu       sync.Mutex
	awaiting bool
	id       string
}

// Send hands a copy of q to the input surface.
func (r *Requester) Send(q model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.awaiting {
		return fmt.Errorf("%w: request for %q while %q is in flight", ErrProtocolViolation, q.ID, r.id)
	}
	select {
	case r.p.requests <- q.Clone():
	default:
		return fmt.Errorf("%w: request slot occupied", ErrProtocolViolation)
	}
	r.awaiting = true
	r.id = q.ID
	return nil
}

// Awaiting reports whether a request is in flight.
func (r *Requester) Awaiting() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.awaiting
}

// Poll returns the response if one has arrived. It never blocks.
func (r *Requester) Poll() (Response, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case resp := <-r.p.responses:
		if !r.awaiting {
			return Response{}, false, fmt.Errorf("%w: unsolicited response for %q", ErrProtocolViolation, resp.Question.ID)
		}
		if resp.Question.ID != r.id {
			return Response{}, false, fmt.Errorf("%w: response for %q, awaiting %q", ErrProtocolViolation, resp.Question.ID, r.id)
		}
		r.awaiting = false
		r.id = ""
		return resp, true, nil
	default:
		return Response{}, false, nil
	}
}

// Responder is the input surface's end.
type Responder struct {
	p *pipe

	mu      sync.Mutex
	current *model.Question
}

// Poll takes the pending request, if any. While a request is held no new one
// is taken.
func (p *Responder) Poll() (model.Question, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		return model.Question{}, false
	}
	select {
	case q := <-p.p.requests:
		p.current = &q
		return q.Clone(), true
	default:
		return model.Question{}, false
	}
}

// Current returns the held request as received.
func (p *Responder) Current() (model.Question, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return model.Question{}, false
	}
	return p.current.Clone(), true
}

// Submit returns the answered question. It must be the held question.
func (p *Responder) Submit(q model.Question) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return ErrNothingInFlight
	}
	if q.ID != p.current.ID || q.Category != p.current.Category {
		return fmt.Errorf("%w: answered %q, holding %q", ErrProtocolViolation, q.ID, p.current.ID)
	}
	return p.respond(Response{Question: q.Clone()})
}

// Cancel returns the held question unchanged.
func (p *Responder) Cancel() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return ErrNothingInFlight
	}
	return p.respond(Response{Question: p.current.Clone(), Cancelled: true})
}

func (p *Responder) respond(resp Response) error {
	select {
	case p.p.responses <- resp:
		p.current = nil
		return nil
	default:
		return fmt.Errorf("%w: response slot occupied", ErrProtocolViolation)
	}
}
